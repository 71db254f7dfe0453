package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/internal/feature/guard"
	"gin-gorm-product-api/internal/feature/product"
	"gin-gorm-product-api/internal/transport/http/ez"
	mdw "gin-gorm-product-api/internal/transport/http/middleware"
)

type createProductIn struct {
	Name        string   `json:"name"        binding:"required,max=128"`
	Description string   `json:"description" binding:"max=1024"`
	Price       *float64 `json:"price"       binding:"required,gte=0"`
}

// created_by 不在可更新字段里，请求体里带了也会被忽略
type updateProductIn struct {
	Name        *string  `json:"name"        binding:"omitempty,max=128"`
	Description *string  `json:"description" binding:"omitempty,max=1024"`
	Price       *float64 `json:"price"       binding:"omitempty,gte=0"`
}

type deleteOut struct {
	Deleted bool `json:"deleted"`
}

func mountProductActions(authed *gin.RouterGroup, g *guard.Guard, products *product.Service) {
	e := ez.New(authed)

	ez.RegisterAction[createProductIn, *domain.Product](e, ez.Action[createProductIn, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/product",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createProductIn) (*domain.Product, error) {
			claims, ok := mdw.ClaimsFrom(c)
			if !ok {
				return nil, ez.Unauthorized("unauthorized")
			}
			return products.Create(c.Request.Context(), g.OwnerOf(claims), product.CreateInput{
				Name:        in.Name,
				Description: in.Description,
				Price:       *in.Price,
			})
		},
	})

	ez.RegisterAction[struct{}, []domain.Product](e, ez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/product",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			return products.List(c.Request.Context())
		},
	})

	ez.RegisterAction[struct{}, *domain.Product](e, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/product/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			return products.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction[updateProductIn, *domain.Product](e, ez.Action[updateProductIn, *domain.Product]{
		Method: http.MethodPut,
		Path:   "/product/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateProductIn) (*domain.Product, error) {
			return products.Update(c.Request.Context(), c.GetString(ez.KeyUserID), c.Param("id"), domain.ProductPatch{
				Name:        in.Name,
				Description: in.Description,
				Price:       in.Price,
			})
		},
	})

	ez.RegisterAction[struct{}, deleteOut](e, ez.Action[struct{}, deleteOut]{
		Method: http.MethodDelete,
		Path:   "/product/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (deleteOut, error) {
			if err := products.Delete(c.Request.Context(), c.GetString(ez.KeyUserID), c.Param("id")); err != nil {
				return deleteOut{}, err
			}
			return deleteOut{Deleted: true}, nil
		},
	})
}
