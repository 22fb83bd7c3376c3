// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"money_backend/internal/feature/auth/domain"
	"money_backend/internal/feature/auth/domain/entity"
	jwtmw "money_backend/internal/platform/jwt"
)

// dummyPassword はユーザーが存在しない場合の比較対象ハッシュの元になる値です。
// ハッシュは起動時に設定済みのコストで生成するため、未登録メールと誤パスワードの所要時間が揃います。
const dummyPassword = "timing-equalizer-not-a-real-password"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Save は新しいユーザーを永続化し、IDを割り当てます。
	// 一意制約違反の場合は domain.EmailAlreadyExistsError を返します。
	Save(ctx context.Context, user *entity.User) error

	// FindByEmail はユーザーが存在しない場合 domain.ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID はユーザーが存在しない場合 domain.ErrUserNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PasswordHasher はパスワードのハッシュ化と照合を行います。
type PasswordHasher interface {
	Hash(rawPassword string) (string, error)
	Matches(rawPassword, hashedPassword string) (bool, error)
}

// TokenIssuer はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	Issue(subjectEmail string, claims jwtmw.UserClaims) (string, error)
}

// RegisterInput は新規登録の入力です。形式の検証はトランスポート層で済んでいる前提です。
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult は登録・ログイン成功時の結果です。
type AuthResult struct {
	Token string
	User  *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users     UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	dummyHash string
	now       func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// ダミーハッシュの生成に失敗した場合はエラーを返します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) (*authUsecase, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy password hash: %w", err)
	}
	return &authUsecase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// NormalizeEmail はメールアドレスを正規化（小文字化）します。
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、トークンを発行します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)

	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, &domain.EmailAlreadyExistsError{Email: email}
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	// createdAt と updatedAt は同一の時刻
	now := u.now()
	user := &entity.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// 事前チェック後の競合はストアの一意制約で検出される
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := u.issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := u.dummyHash
	if user != nil {
		passwordHash = user.PasswordHash
	}

	// 常にパスワードを検証
	ok, matchErr := u.hasher.Matches(password, passwordHash)
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if matchErr != nil {
		// 保存済みハッシュが壊れている場合はサーバー側の問題
		return nil, fmt.Errorf("failed to verify password for user %d: %s", user.ID, matchErr)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := u.issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (u *authUsecase) issue(user *entity.User) (string, error) {
	token, err := u.tokens.Issue(user.Email, jwtmw.UserClaims{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
