package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
)

var (
	ErrNotOwned        = errors.New("item not owned")
	ErrFileUnavailable = errors.New("file not available for this item")
)

// Purchase 购买记录；CourseID 与 ProductID 有且仅有一个非空
type Purchase struct {
	ID           int64           `json:"id,omitempty"`
	UserID       string          `json:"user_id"`
	CourseID     *int64          `json:"course_id"`
	ProductID    *int64          `json:"product_id"`
	PurchaseDate time.Time       `json:"purchase_date"`
	PricePaid    decimal.Decimal `json:"price_paid"`
}

// NewDraft 按商品类型生成待提交的购买记录
func NewDraft(userID string, p catalog.Product, t catalog.ItemType, now time.Time) Purchase {
	id := p.ID
	draft := Purchase{
		UserID:       userID,
		PurchaseDate: now,
		PricePaid:    p.PriceOrZero(),
	}
	if t == catalog.ItemTypeCourse {
		draft.CourseID = &id
	} else {
		draft.ProductID = &id
	}
	return draft
}

// Grants 判断该记录是否授予 (id, type) 的访问权
func (p Purchase) Grants(id int64, t catalog.ItemType) bool {
	switch t {
	case catalog.ItemTypeCourse:
		return p.CourseID != nil && *p.CourseID == id
	case catalog.ItemTypeEbook:
		return p.ProductID != nil && *p.ProductID == id
	default:
		return false
	}
}

// PurchaseRepository user_purchases 集合的访问
type PurchaseRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Purchase, error)
	// InsertBatch 一次性写入全部记录，任何失败都不应留下部分数据
	InsertBatch(ctx context.Context, purchases []Purchase) error
}
