package entity

import "time"

// UserDetails is the view of a user needed to authenticate a request.
// It never carries the password hash, so it is safe to cache.
type UserDetails struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	CreatedAt   time.Time `json:"createdAt"`
	Authorities []string  `json:"authorities"`
}
