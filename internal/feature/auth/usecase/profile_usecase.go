package usecase

import (
	"context"

	"money_backend/internal/feature/auth/domain/entity"
)

// profileUsecase は認証済みユーザー自身のプロフィールを返します。
type profileUsecase struct {
	users UserRepository
}

func NewProfileUsecase(users UserRepository) *profileUsecase {
	return &profileUsecase{users: users}
}

// Profile はメールアドレスでユーザーを取得します。
// トークン発行後に削除されたユーザーは domain.ErrUserNotFound になります。
func (u *profileUsecase) Profile(ctx context.Context, email string) (*entity.User, error) {
	return u.users.FindByEmail(ctx, email)
}
