package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"money_backend/internal/feature/auth/domain/entity"
	"money_backend/internal/feature/auth/transport/http/dto"
	"money_backend/internal/platform/http/response"
	jwtmw "money_backend/internal/platform/jwt"
)

type ProfileUsecase interface {
	Profile(ctx context.Context, email string) (*entity.User, error)
}

// UserHandler serves endpoints about the authenticated user.
type UserHandler struct {
	profile ProfileUsecase
}

func NewUserHandler(profile ProfileUsecase) *UserHandler {
	return &UserHandler{profile: profile}
}

// Profile returns the caller's own public user view.
// Mounted behind RequireAuthenticated; the principal check here only guards misuse.
func (h *UserHandler) Profile(c *gin.Context) {
	p, ok := jwtmw.PrincipalFromContext(c.Request.Context())
	if !ok {
		response.AbortWithError(c, http.StatusForbidden, response.MsgAccessDenied)
		return
	}

	u, err := h.profile.Profile(c.Request.Context(), p.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(u))
}
