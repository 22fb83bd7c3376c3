package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"money_backend/internal/feature/auth/domain"
	"money_backend/internal/feature/auth/domain/entity"
	jwtmw "money_backend/internal/platform/jwt"
	"money_backend/internal/platform/password"
)

func johnDoe() RegisterInput {
	return RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "John.Doe@Example.com",
		Password:  "StrongPass123",
	}
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		var saved *entity.User
		var existsChecked string

		repo := &mockUserRepository{
			ExistsByEmailFunc: func(_ context.Context, email string) (bool, error) {
				existsChecked = email
				return false, nil
			},
			SaveFunc: func(_ context.Context, user *entity.User) error {
				user.ID = 42
				saved = user
				return nil
			},
		}
		issuer := &mockIssuer{IssueFunc: func(subject string, claims jwtmw.UserClaims) (string, error) {
			assert.Equal(t, "john.doe@example.com", subject)
			assert.Equal(t, jwtmw.UserClaims{UserID: 42, FirstName: "John", LastName: "Doe"}, claims)
			return "signed-token", nil
		}}

		uc := newAuthUsecase(t, repo, &mockHasher{}, issuer)
		uc.now = func() time.Time { return fixed }

		res, err := uc.Register(context.Background(), johnDoe())

		require.NoError(t, err)
		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, "john.doe@example.com", existsChecked)
		require.NotNil(t, saved)
		assert.Same(t, saved, res.User)
		assert.Equal(t, "john.doe@example.com", saved.Email)
		assert.Equal(t, "hashed:StrongPass123", saved.PasswordHash)
		assert.Equal(t, fixed, saved.CreatedAt)
		assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
	})

	t.Run("email already exists on pre-check", func(t *testing.T) {
		saveCalled := false
		repo := &mockUserRepository{
			ExistsByEmailFunc: func(context.Context, string) (bool, error) { return true, nil },
			SaveFunc: func(context.Context, *entity.User) error {
				saveCalled = true
				return nil
			},
		}
		uc := newAuthUsecase(t, repo, &mockHasher{}, &mockIssuer{})

		_, err := uc.Register(context.Background(), johnDoe())

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
		var dup *domain.EmailAlreadyExistsError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "john.doe@example.com", dup.Email)
		assert.False(t, saveCalled)
	})

	t.Run("unique violation at save is reported as email exists", func(t *testing.T) {
		repo := &mockUserRepository{
			SaveFunc: func(_ context.Context, u *entity.User) error {
				return &domain.EmailAlreadyExistsError{Email: u.Email}
			},
		}
		uc := newAuthUsecase(t, repo, &mockHasher{}, &mockIssuer{})

		_, err := uc.Register(context.Background(), johnDoe())

		assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
	})

	t.Run("hasher rejects input", func(t *testing.T) {
		hasher := &mockHasher{}
		uc := newAuthUsecase(t, &mockUserRepository{}, hasher, &mockIssuer{})
		hasher.HashFunc = func(string) (string, error) {
			return "", domain.ErrInvalidInput
		}

		_, err := uc.Register(context.Background(), johnDoe())

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("existence check fails", func(t *testing.T) {
		boom := errors.New("db down")
		repo := &mockUserRepository{
			ExistsByEmailFunc: func(context.Context, string) (bool, error) { return false, boom },
		}
		uc := newAuthUsecase(t, repo, &mockHasher{}, &mockIssuer{})

		_, err := uc.Register(context.Background(), johnDoe())

		assert.ErrorIs(t, err, boom)
	})

	t.Run("token issue fails", func(t *testing.T) {
		issuer := &mockIssuer{IssueFunc: func(string, jwtmw.UserClaims) (string, error) {
			return "", errors.New("sign failed")
		}}
		uc := newAuthUsecase(t, &mockUserRepository{}, &mockHasher{}, issuer)

		_, err := uc.Register(context.Background(), johnDoe())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate token")
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	stored := &entity.User{
		ID:           7,
		Email:        "alice@example.com",
		PasswordHash: "hashed:correct-password",
		FirstName:    "Alice",
		LastName:     "Smith",
	}
	repoWithAlice := func() *mockUserRepository {
		return &mockUserRepository{FindByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, domain.ErrUserNotFound
		}}
	}

	t.Run("successful login normalizes email", func(t *testing.T) {
		uc := newAuthUsecase(t, repoWithAlice(), &mockHasher{}, &mockIssuer{})

		res, err := uc.Login(context.Background(), "ALICE@example.com", "correct-password")

		require.NoError(t, err)
		assert.Equal(t, "mock-jwt-token", res.Token)
		assert.Same(t, stored, res.User)
	})

	t.Run("unknown email and wrong password give the same error", func(t *testing.T) {
		hasher := &mockHasher{}
		uc := newAuthUsecase(t, repoWithAlice(), hasher, &mockIssuer{})

		_, errUnknown := uc.Login(context.Background(), "nobody@example.com", "whatever")
		_, errWrong := uc.Login(context.Background(), "alice@example.com", "wrong-password")

		require.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
		require.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())

		// the unknown-user path still runs a comparison, against the dummy hash
		require.Len(t, hasher.matchCalls, 2)
		assert.Equal(t, "hashed:"+dummyPassword, hasher.matchCalls[0])
		assert.Equal(t, stored.PasswordHash, hasher.matchCalls[1])
	})

	t.Run("repository failure is not reported as bad credentials", func(t *testing.T) {
		boom := errors.New("connection reset")
		repo := &mockUserRepository{FindByEmailFunc: func(context.Context, string) (*entity.User, error) {
			return nil, boom
		}}
		uc := newAuthUsecase(t, repo, &mockHasher{}, &mockIssuer{})

		_, err := uc.Login(context.Background(), "alice@example.com", "correct-password")

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("corrupt stored hash is a server error", func(t *testing.T) {
		hasher := &mockHasher{MatchesFunc: func(string, string) (bool, error) {
			return false, domain.ErrInvalidInput
		}}
		uc := newAuthUsecase(t, repoWithAlice(), hasher, &mockIssuer{})

		_, err := uc.Login(context.Background(), "alice@example.com", "correct-password")

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidInput)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

// newAuthUsecase builds the usecase and fails the test if construction fails.
func newAuthUsecase(t *testing.T, users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *authUsecase {
	t.Helper()
	uc, err := NewAuthUsecase(users, hasher, tokens)
	require.NoError(t, err)
	return uc
}

// ダミーハッシュは設定されたコストで生成され、本物のbcryptハッシュであることを検証します。
func TestNewAuthUsecase_DummyHashFollowsCost(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 1} {
		uc := newAuthUsecase(t, &mockUserRepository{}, password.NewBcryptHasher(cost), &mockIssuer{})

		got, err := bcrypt.Cost([]byte(uc.dummyHash))
		require.NoError(t, err)
		assert.Equal(t, cost, got)

		ok, err := uc.hasher.Matches("anything", uc.dummyHash)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestNewAuthUsecase_HashFailure(t *testing.T) {
	t.Parallel()

	hasher := &mockHasher{HashFunc: func(string) (string, error) { return "", errors.New("entropy exhausted") }}

	uc, err := NewAuthUsecase(&mockUserRepository{}, hasher, &mockIssuer{})

	assert.Nil(t, uc)
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestAuthUsecase_RegisterThenLogin_RealHasher(t *testing.T) {
	t.Parallel()

	users := map[string]*entity.User{}
	repo := &mockUserRepository{
		ExistsByEmailFunc: func(_ context.Context, email string) (bool, error) {
			_, ok := users[email]
			return ok, nil
		},
		SaveFunc: func(_ context.Context, u *entity.User) error {
			u.ID = uint(len(users) + 1)
			users[u.Email] = u
			return nil
		},
		FindByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			if u, ok := users[email]; ok {
				return u, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	uc := newAuthUsecase(t, repo, password.NewBcryptHasher(bcrypt.MinCost), &mockIssuer{})

	_, err := uc.Register(context.Background(), RegisterInput{
		FirstName: "Ann", LastName: "Lee", Email: "a@b.com", Password: "StrongPass123",
	})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), RegisterInput{
		FirstName: "Ann", LastName: "Lee", Email: "A@B.COM", Password: "StrongPass123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(context.Background(), "A@b.com", "StrongPass123")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", res.User.Email)
	assert.NotEqual(t, "StrongPass123", res.User.PasswordHash)
}
