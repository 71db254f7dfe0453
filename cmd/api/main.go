package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"gin-gorm-product-api/internal/core/auth"
	"gin-gorm-product-api/internal/core/cache"
	"gin-gorm-product-api/internal/core/config"
	"gin-gorm-product-api/internal/core/database"
	"gin-gorm-product-api/internal/core/logger"
	"gin-gorm-product-api/internal/core/server"
	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/internal/feature/guard"
	"gin-gorm-product-api/internal/feature/product"
	"gin-gorm-product-api/internal/feature/user"
	"gin-gorm-product-api/internal/repo"
	"gin-gorm-product-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(l, zapcore.InfoLevel)()

	// 存储
	users, products, health := mustOpenStores(cfg, l)

	hasher, err := auth.NewHasher(cfg.Password.BcryptCost)
	if err != nil {
		l.Fatal("password hasher", zap.Error(err))
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	userSvc := user.NewService(users, hasher, l.Named("user"))
	g := guard.New(userSvc, jwter, guard.Options{EnforceOwner: cfg.Products.EnforceOwner}, l.Named("guard"))
	productSvc := product.NewService(products, g, l.Named("product"))

	// Redis 可选：配置了地址才启用商品缓存
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := c.Ping(pingCtx); err != nil {
			l.Warn("redis unavailable, product cache disabled", zap.Error(err))
		} else {
			productSvc.WithCache(c, time.Duration(cfg.Products.CacheTTLSec)*time.Second)
			l.Info("product cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
		cancel()
	}
	if cfg.Products.EnforceOwner {
		l.Info("product ownership enforced on update/delete")
	}

	r := router.NewAPIEngine(l, router.Deps{
		Users:    userSvc,
		Guard:    g,
		Products: productSvc,
		Health:   health,
	}, router.Options{
		HandlerTimeout: time.Duration(cfg.App.HTTP.HandlerTimeoutSec) * time.Second,
		MaxBodyBytes:   cfg.App.HTTP.MaxBodyBytes,
		MaxConcurrent:  cfg.App.HTTP.MaxConcurrent,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	l.Info("product api starting",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env),
		zap.String("db", cfg.DB.Driver),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("product api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Warn("shutdown", zap.Error(err))
	}
	l.Info("product api stopped gracefully")
}

// mustOpenStores db.driver=memory 时不连数据库（本地调试用）
func mustOpenStores(cfg *config.Config, l *zap.Logger) (domain.UserRepository, domain.ProductRepository, func(context.Context) error) {
	if cfg.DB.Driver == "memory" {
		l.Warn("using in-memory stores; data is lost on restart")
		return repo.NewMemoryUserRepo(), repo.NewMemoryProductRepo(), nil
	}
	db := mustOpenDB(cfg, l)
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Product{}); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	sqlDB, err := db.DB()
	if err != nil {
		l.Fatal("db handle", zap.Error(err))
	}
	return repo.NewUserRepo(db), repo.NewProductRepo(db), sqlDB.PingContext
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
