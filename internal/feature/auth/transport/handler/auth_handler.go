// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"money_backend/internal/feature/auth/transport/http/dto"
	"money_backend/internal/feature/auth/usecase"
	"money_backend/internal/platform/logger"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンを発行します。
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// AuthObserver は登録・ログインの結果を受け取ります（メトリクス用）。
type AuthObserver interface {
	ObserveLogin(result string)
	ObserveRegistration(result string)
}

type noopObserver struct{}

func (noopObserver) ObserveLogin(string)        {}
func (noopObserver) ObserveRegistration(string) {}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
	obs  AuthObserver
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// obs が nil の場合、結果は記録されません。
// リクエストのバインド前に RegisterValidators が成功している必要があります。
func NewAuthHandler(auth AuthUsecase, obs AuthObserver) *AuthHandler {
	if obs == nil {
		obs = noopObserver{}
	}
	return &AuthHandler{auth: auth, obs: obs}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時はトークンとユーザー情報付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("register validation failed")
		h.obs.ObserveRegistration(resultInvalidRequest)
		respondBindError(c, err, &req)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	h.obs.ObserveRegistration(resultOf(err))
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Str("remote_addr", c.ClientIP()).Msg("register failed")
		respondError(c, err)
		return
	}

	log.Info().Uint("user_id", res.User.ID).Str("email", res.User.Email).Msg("user registered")
	c.JSON(http.StatusCreated, dto.NewAuthRes(res.Token, res.User))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（ユーザー列挙攻撃を防止するため、理由は公開しない）
// - 認証成功時はJWTトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Msg("login validation failed")
		h.obs.ObserveLogin(resultInvalidRequest)
		respondBindError(c, err, &req)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	h.obs.ObserveLogin(resultOf(err))
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Str("remote_addr", c.ClientIP()).Msg("login failed")
		respondError(c, err)
		return
	}

	log.Info().Uint("user_id", res.User.ID).Str("email", res.User.Email).Msg("user login successful")
	c.JSON(http.StatusOK, dto.NewAuthRes(res.Token, res.User))
}
