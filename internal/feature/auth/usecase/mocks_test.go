package usecase

import (
	"context"

	"money_backend/internal/feature/auth/domain"
	"money_backend/internal/feature/auth/domain/entity"
	jwtmw "money_backend/internal/platform/jwt"
)

// mockUserRepository is a mock implementation of UserRepository.
// It simulates database operations during testing.
type mockUserRepository struct {
	SaveFunc          func(ctx context.Context, user *entity.User) error
	FindByEmailFunc   func(ctx context.Context, email string) (*entity.User, error)
	FindByIDFunc      func(ctx context.Context, id uint) (*entity.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *mockUserRepository) Save(ctx context.Context, user *entity.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

// mockHasher is a mock implementation of PasswordHasher.
type mockHasher struct {
	HashFunc    func(raw string) (string, error)
	MatchesFunc func(raw, hashed string) (bool, error)
	matchCalls  []string
}

func (m *mockHasher) Hash(raw string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(raw)
	}
	return "hashed:" + raw, nil
}

func (m *mockHasher) Matches(raw, hashed string) (bool, error) {
	m.matchCalls = append(m.matchCalls, hashed)
	if m.MatchesFunc != nil {
		return m.MatchesFunc(raw, hashed)
	}
	return hashed == "hashed:"+raw, nil
}

// mockIssuer is a mock implementation of TokenIssuer.
type mockIssuer struct {
	IssueFunc func(subject string, claims jwtmw.UserClaims) (string, error)
}

func (m *mockIssuer) Issue(subject string, claims jwtmw.UserClaims) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(subject, claims)
	}
	return "mock-jwt-token", nil
}
