package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gin-gorm-product-api/internal/core/server"
	"gin-gorm-product-api/internal/feature/guard"
	"gin-gorm-product-api/internal/feature/product"
	"gin-gorm-product-api/internal/feature/user"
	mdw "gin-gorm-product-api/internal/transport/http/middleware"
	resp "gin-gorm-product-api/internal/transport/http/response"
)

type Options struct {
	HandlerTimeout time.Duration
	MaxBodyBytes   int64
	MaxConcurrent  int64
}

type Deps struct {
	Users    *user.Service
	Guard    *guard.Guard
	Products *product.Service
	// Health 为空时 /health 直接返回 ok
	Health func(ctx context.Context) error
}

func (o *Options) withDefaults() {
	if o.HandlerTimeout <= 0 {
		o.HandlerTimeout = 10 * time.Second
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 300
	}
}

func NewAPIEngine(l *zap.Logger, d Deps, o Options) *gin.Engine {
	o.withDefaults()
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(o.MaxConcurrent),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.HandlerTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeServerError, "unhealthy"))
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 鉴权分组：userId/claims 由 AuthJWT 写入
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.Guard))

	mountUserActions(api, authed, d.Users)
	mountAuthActions(api, d.Guard)
	mountProductActions(authed, d.Guard, d.Products)

	return r
}
