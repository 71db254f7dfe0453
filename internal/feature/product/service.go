package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gin-gorm-product-api/internal/core/cache"
	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/pkg/utils"
)

// Authorizer 决定调用者能否修改某个资源
type Authorizer interface {
	CanMutate(actorID string, p *domain.Product) bool
}

type CreateInput struct {
	Name        string
	Description string
	Price       float64
}

type Service struct {
	repo  domain.ProductRepository
	authz Authorizer
	log   *zap.Logger

	cache *cache.Cache
	ttl   time.Duration
}

func NewService(repo domain.ProductRepository, authz Authorizer, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{repo: repo, authz: authz, log: l}
}

// WithCache 开启 Get 的读穿缓存；c 为 nil 时不生效
func (s *Service) WithCache(c *cache.Cache, ttl time.Duration) *Service {
	s.cache, s.ttl = c, ttl
	return s
}

func cacheKey(id string) string { return "product:" + id }

// Create ownerID 来自已认证的调用者，之后不再修改
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Product, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", domain.ErrInvalidInput)
	}
	p := &domain.Product{
		ID:          utils.NewID(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		CreatedBy:   ownerID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("create product failed", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("list products failed", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	return ps, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache == nil {
		return s.load(ctx, id)
	}
	return cache.GetOrLoadJSON[domain.Product](s.cache, ctx, cacheKey(id), s.ttl, func(ctx context.Context) (*domain.Product, error) {
		return s.load(ctx, id)
	})
}

func (s *Service) load(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("find product failed", zap.String("id", id), zap.Error(err))
		return nil, domain.ErrPersistence
	}
	if p == nil {
		return nil, fmt.Errorf("product with ID %s %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Update 先确认存在再更新；CreatedBy 不在可更新字段里
func (s *Service) Update(ctx context.Context, actorID, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", domain.ErrInvalidInput)
	}
	cur, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanMutate(actorID, cur) {
		return nil, domain.ErrForbidden
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product with ID %s %w", id, domain.ErrNotFound)
		}
		s.log.Error("update product failed", zap.String("id", id), zap.Error(err))
		return nil, domain.ErrPersistence
	}
	s.invalidate(ctx, id)
	return s.load(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	cur, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.authz.CanMutate(actorID, cur) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("product with ID %s %w", id, domain.ErrNotFound)
		}
		s.log.Error("delete product failed", zap.String("id", id), zap.Error(err))
		return domain.ErrPersistence
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(id)); err != nil {
		s.log.Warn("invalidate product cache failed", zap.String("id", id), zap.Error(err))
	}
}
