package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/pkg/utils"
)

// Hasher bcrypt 哈希；盐与 cost 编码在哈希串里
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher cost 为 0 时使用 bcrypt.DefaultCost（10）
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d,%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	// 占位哈希：用户不存在时也做一次同等代价的比较
	dummy, err := bcrypt.GenerateFromPassword([]byte(utils.NewID()), cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

func (h *Hasher) Cost() int { return h.cost }

func (h *Hasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return string(b), nil
}

// Verify 不区分“密码错误”和“哈希损坏/cost 不符”，一律 false
func (h *Hasher) Verify(pw, hashed string) bool {
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil || cost != h.cost {
		h.VerifyDummy(pw)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// VerifyDummy 与占位哈希比较，结果总是丢弃
func (h *Hasher) VerifyDummy(pw string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(pw))
}
