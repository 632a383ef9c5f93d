package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/corepnl/internal/entitlement/domain"
	"github.com/wyfcoding/corepnl/pkg/db"
	"gorm.io/gorm"
)

// PurchaseModel user_purchases 表
type PurchaseModel struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       string          `gorm:"column:user_id;type:varchar(255);index;not null"`
	CourseID     *int64          `gorm:"column:course_id"`
	ProductID    *int64          `gorm:"column:product_id"`
	PurchaseDate time.Time       `gorm:"column:purchase_date;not null"`
	PricePaid    decimal.Decimal `gorm:"column:price_paid;type:decimal(10,2);not null"`
}

func (PurchaseModel) TableName() string { return "user_purchases" }

func toPurchase(m PurchaseModel) domain.Purchase {
	return domain.Purchase{
		ID:           m.ID,
		UserID:       m.UserID,
		CourseID:     m.CourseID,
		ProductID:    m.ProductID,
		PurchaseDate: m.PurchaseDate,
		PricePaid:    m.PricePaid,
	}
}

func toPurchaseModel(p domain.Purchase) PurchaseModel {
	return PurchaseModel{
		UserID:       p.UserID,
		CourseID:     p.CourseID,
		ProductID:    p.ProductID,
		PurchaseDate: p.PurchaseDate,
		PricePaid:    p.PricePaid,
	}
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建购买记录仓储
func NewPurchaseRepository(db *gorm.DB) domain.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	var models []PurchaseModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	out := make([]domain.Purchase, 0, len(models))
	for _, m := range models {
		out = append(out, toPurchase(m))
	}
	return out, nil
}

// InsertBatch 在同一事务内批量插入
func (r *purchaseRepository) InsertBatch(ctx context.Context, purchases []domain.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	models := make([]PurchaseModel, 0, len(purchases))
	for _, p := range purchases {
		models = append(models, toPurchaseModel(p))
	}
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return db.BatchInsert(ctx, tx, &models, len(models))
	})
}
