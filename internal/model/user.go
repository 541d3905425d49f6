package model

import "time"

// User represents a registered shopper. Users are created on signup and never
// mutated afterwards. Email is stored lowercased and the password digest is
// never exposed in JSON.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserView is the public projection of a User returned by the API.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// View returns the public projection of the user.
func (u *User) View() UserView {
	return UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
