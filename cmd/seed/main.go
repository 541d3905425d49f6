package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const fetchTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	defaultOut := cfg.CatalogFile
	if defaultOut == "" {
		defaultOut = "catalog.json"
	}
	out := flag.String("out", defaultOut, "catalog file to create or update")
	source := flag.String("source", "", "URL of a JSON product feed; the built-in catalog is used when empty")
	flag.Parse()

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), log, *out, *source); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.Logger, out, source string) error {
	incoming := repository.DefaultProducts()
	if source != "" {
		log.Info("fetching products", zap.String("source", source))
		fetched, err := fetchProducts(ctx, source)
		if err != nil {
			return err
		}
		incoming = fetched
	}

	existing, err := repository.LoadProducts(out)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	merged, created, updated := mergeProducts(existing, incoming)

	body, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(out, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	log.Info("seed completed",
		zap.String("file", out),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("total", len(merged)),
	)
	return nil
}

// fetchProducts downloads and validates a product feed.
func fetchProducts(ctx context.Context, url string) ([]model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product feed returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return repository.ParseProducts(body)
}

// mergeProducts upserts incoming into existing by product id. The result is
// ordered by id.
func mergeProducts(existing, incoming []model.Product) (merged []model.Product, created, updated int) {
	byID := make(map[int]model.Product, len(existing)+len(incoming))
	for _, p := range existing {
		byID[p.ID] = p
	}
	for _, p := range incoming {
		if _, ok := byID[p.ID]; ok {
			updated++
		} else {
			created++
		}
		byID[p.ID] = p
	}

	merged = make([]model.Product, 0, len(byID))
	for _, p := range byID {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged, created, updated
}
