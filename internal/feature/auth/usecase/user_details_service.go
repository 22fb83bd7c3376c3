package usecase

import (
	"context"

	"money_backend/internal/feature/auth/domain/entity"
)

// UserDetailsService resolves a token subject into the password-free view used by the gate.
type UserDetailsService struct {
	users UserRepository
}

func NewUserDetailsService(users UserRepository) *UserDetailsService {
	return &UserDetailsService{users: users}
}

// LoadUserByEmail returns domain.ErrUserNotFound for unknown subjects.
// Authorities are always empty: the service has no roles.
func (s *UserDetailsService) LoadUserByEmail(ctx context.Context, email string) (*entity.UserDetails, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return user.Details(), nil
}
