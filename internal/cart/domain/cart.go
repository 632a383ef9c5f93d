package domain

import (
	"github.com/shopspring/decimal"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
)

// CartItem 购物车条目，数量恒为 1，不持久化
type CartItem struct {
	catalog.Product
	Type     catalog.ItemType `json:"type"`
	Quantity int              `json:"quantity"`
}

// Ownership 权益判断
type Ownership interface {
	IsPurchased(id int64, t catalog.ItemType) bool
}

// AddResult 加入购物车的结果
type AddResult int

const (
	Added AddResult = iota
	AlreadyInCart
	AlreadyPurchased
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case AlreadyInCart:
		return "duplicate"
	case AlreadyPurchased:
		return "purchased"
	default:
		return "unknown"
	}
}

// Cart 当前访问会话的购物车，按加入顺序排列，(id, type) 不重复
type Cart struct {
	items []CartItem
}

// NewCart 创建空购物车
func NewCart() *Cart {
	return &Cart{}
}

// Add (id, type) 已在购物车或已拥有时不做任何修改
func (c *Cart) Add(p catalog.Product, t catalog.ItemType, owned Ownership) AddResult {
	if c.Contains(p.ID, t) {
		return AlreadyInCart
	}
	if owned != nil && owned.IsPurchased(p.ID, t) {
		return AlreadyPurchased
	}
	c.items = append(c.items, CartItem{Product: p, Type: t, Quantity: 1})
	return Added
}

// Remove 移除所有匹配 (id, type) 的条目，返回移除数量
func (c *Cart) Remove(id int64, t catalog.ItemType) int {
	kept := c.items[:0]
	removed := 0
	for _, it := range c.items {
		if it.ID == id && it.Type == t {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	return removed
}

// RemoveOwned 移除所有已拥有的条目，返回被移除的条目
func (c *Cart) RemoveOwned(owned Ownership) []CartItem {
	if owned == nil {
		return nil
	}
	kept := c.items[:0]
	var removed []CartItem
	for _, it := range c.items {
		if owned.IsPurchased(it.ID, it.Type) {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	return removed
}

// Contains 是否包含 (id, type)
func (c *Cart) Contains(id int64, t catalog.ItemType) bool {
	for _, it := range c.items {
		if it.ID == id && it.Type == t {
			return true
		}
	}
	return false
}

// Total 价格合计，缺失价格按 0 计
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.PriceOrZero())
	}
	return total
}

// Count 条目数
func (c *Cart) Count() int {
	return len(c.items)
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items 返回副本
func (c *Cart) Items() []CartItem {
	return append([]CartItem{}, c.items...)
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.items = nil
}
