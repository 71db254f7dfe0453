package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gin-gorm-product-api/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var ps []domain.Product
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update 只写白名单字段，created_by 永不更新
func (r *ProductRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) error {
	cols := map[string]interface{}{}
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.Price != nil {
		cols["price"] = *patch.Price
	}
	if len(cols) == 0 {
		return nil
	}
	// 存在性由调用方先行确认；MySQL 值未变化时 RowsAffected 为 0，这里不据此判断
	return r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(cols).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
