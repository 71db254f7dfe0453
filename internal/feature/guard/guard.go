package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"gin-gorm-product-api/internal/core/auth"
	"gin-gorm-product-api/internal/domain"
)

var loginTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "auth_login_total", Help: "Login attempts by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(loginTotal) }

type TokenIssuer interface {
	Issue(uid, email string) (string, error)
	Parse(tokenStr string) (*auth.Claims, error)
}

type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error)
}

type Options struct {
	// EnforceOwner 为 true 时只有创建者可以修改/删除资源；默认 false
	EnforceOwner bool
}

// Guard 访问控制：校验 token、登录签发、资源归属
type Guard struct {
	users  CredentialValidator
	tokens TokenIssuer
	opts   Options
	log    *zap.Logger
}

func New(users CredentialValidator, tokens TokenIssuer, opts Options, l *zap.Logger) *Guard {
	if l == nil {
		l = zap.NewNop()
	}
	return &Guard{users: users, tokens: tokens, opts: opts, log: l}
}

// Authenticate 任何失败都归一为 ErrUnauthenticated，原因只写日志
func (g *Guard) Authenticate(raw string) (*auth.Claims, error) {
	c, err := g.tokens.Parse(raw)
	if err != nil {
		g.log.Debug("token rejected", zap.Error(err))
		return nil, domain.ErrUnauthenticated
	}
	return c, nil
}

// AuthorizeLogin 不区分“无此用户”和“密码错误”
func (g *Guard) AuthorizeLogin(ctx context.Context, email, password string) (string, error) {
	u, err := g.users.ValidateCredentials(ctx, email, password)
	if err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return "", err
	}
	if u == nil {
		loginTotal.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	}
	tok, err := g.tokens.Issue(u.ID, u.Email)
	if err != nil || tok == "" {
		loginTotal.WithLabelValues("error").Inc()
		g.log.Error("issue token failed", zap.String("uid", u.ID), zap.Error(err))
		return "", errors.New("issue token failed")
	}
	loginTotal.WithLabelValues("ok").Inc()
	return tok, nil
}

// OwnerOf 创建资源时写入的归属 ID
func (g *Guard) OwnerOf(c *auth.Claims) string { return c.UserID() }

func (g *Guard) CanMutate(actorID string, p *domain.Product) bool {
	if !g.opts.EnforceOwner {
		return true
	}
	return p.CreatedBy == actorID
}
