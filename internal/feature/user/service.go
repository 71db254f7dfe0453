package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/pkg/utils"
)

// PasswordHasher 由 core/auth.Hasher 实现
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(pw, hashed string) bool
	VerifyDummy(pw string)
}

// Service 身份服务：注册、凭据校验、按邮箱/ID 查找
type Service struct {
	repo   domain.UserRepository
	hasher PasswordHasher
	log    *zap.Logger
}

func NewService(repo domain.UserRepository, hasher PasswordHasher, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{repo: repo, hasher: hasher, log: l}
}

// Register 邮箱已存在返回 ErrDuplicateIdentity；存储失败统一为 ErrPersistence
func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("register: lookup failed", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	if existing != nil {
		return nil, domain.ErrDuplicateIdentity
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error("register: hash failed", zap.Error(err))
		return nil, domain.ErrHashing
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// 并发注册时由存储的唯一索引兜底
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, domain.ErrDuplicateIdentity
		}
		s.log.Error("register: insert failed", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	s.log.Info("user registered", zap.String("uid", u.ID))
	return u, nil
}

// ValidateCredentials 用户不存在与密码错误都返回 (nil, nil)
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		s.log.Error("validate credentials: lookup failed", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	if u == nil {
		s.hasher.VerifyDummy(password)
		return nil, nil
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		s.log.Error("find user by email failed", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	if u == nil {
		return nil, fmt.Errorf("user %w", domain.ErrNotFound)
	}
	return u, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("find user by id failed", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	if u == nil {
		return nil, fmt.Errorf("user %w", domain.ErrNotFound)
	}
	return u, nil
}
