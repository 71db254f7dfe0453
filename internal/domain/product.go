package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	CreatedBy   string    `gorm:"size:36;index;not null" json:"created_by"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// ProductPatch 可更新字段；nil 表示不修改。不含 CreatedBy
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil
}

// ProductRepository 查不到时 FindByID 返回 (nil, nil)
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) error
	Delete(ctx context.Context, id string) error
}
