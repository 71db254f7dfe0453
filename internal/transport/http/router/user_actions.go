package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/internal/feature/user"
	"gin-gorm-product-api/internal/transport/http/ez"
)

type registerIn struct {
	Email    string `json:"email"    binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name"     binding:"omitempty,max=64"`
}

func mountUserActions(api, authed *gin.RouterGroup, users *user.Service) {
	// POST /user/register：201 / 409 重复 / 400 其它失败
	ez.RegisterAction[registerIn, *domain.User](ez.New(api), ez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/user/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			u, err := users.Register(c.Request.Context(), in.Email, in.Password, in.Name)
			switch {
			case err == nil:
				return u, nil
			case errors.Is(err, domain.ErrDuplicateIdentity):
				return nil, ez.Conflict("Email is already in use.")
			default:
				_ = c.Error(err)
				return nil, ez.BadRequest("Failed to create user.")
			}
		},
	})

	// GET /me：当前登录用户
	ez.RegisterAction[struct{}, *domain.User](ez.New(authed), ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return users.FindByID(c.Request.Context(), c.GetString(ez.KeyUserID))
		},
	})
}
