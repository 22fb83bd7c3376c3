package dto

import (
	"time"

	"money_backend/internal/feature/auth/domain/entity"
)

// UserRes is the public view of a user. Password hash and updatedAt are never exposed.
type UserRes struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthRes is returned by register and login.
type AuthRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewAuthRes(token string, u *entity.User) AuthRes {
	return AuthRes{Token: token, User: NewUserRes(u)}
}
