// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and profile metadata.
type User struct {
	// ID is the unique identifier for the user. It is assigned by the store on creation.
	ID uint `gorm:"primaryKey" json:"id"`

	// Email is the normalized (lowercase) email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex:idx_users_email;size:255;not null" json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This should never store plaintext passwords.
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`

	// FirstName and LastName are display-only.
	FirstName string `gorm:"size:50;not null" json:"firstName"`
	LastName  string `gorm:"size:50;not null" json:"lastName"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Details returns the password-free projection of the user.
func (u *User) Details() *UserDetails {
	return &UserDetails{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CreatedAt:   u.CreatedAt,
		Authorities: []string{},
	}
}
