package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/internal/feature/guard"
	"gin-gorm-product-api/internal/transport/http/ez"
)

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	AccessToken string `json:"accessToken"`
}

func mountAuthActions(api *gin.RouterGroup, g *guard.Guard) {
	ez.RegisterAction[loginIn, loginOut](ez.New(api), ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, err := g.AuthorizeLogin(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return loginOut{}, ez.Unauthorized("invalid credentials")
				}
				return loginOut{}, ez.Internal("login failed", err)
			}
			return loginOut{AccessToken: tok}, nil
		},
	})
}
