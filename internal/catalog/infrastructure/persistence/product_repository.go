package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/corepnl/internal/catalog/domain"
	"gorm.io/gorm"
)

// ProductColumns courses 与 products 两张表共享的列
type ProductColumns struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string              `gorm:"column:title;type:varchar(255);not null"`
	Description *string             `gorm:"column:description;type:text"`
	Price       decimal.NullDecimal `gorm:"column:price;type:decimal(10,2)"`
	ImageURL    *string             `gorm:"column:image_url;type:varchar(1024)"`
	PreviewURL  *string             `gorm:"column:preview_url;type:varchar(1024)"`
	FileURL     *string             `gorm:"column:file_url;type:varchar(1024)"`
}

// CourseModel courses 表
type CourseModel struct {
	ProductColumns `gorm:"embedded"`
}

func (CourseModel) TableName() string { return "courses" }

// EbookModel products 表，存放电子书
type EbookModel struct {
	ProductColumns `gorm:"embedded"`
}

func (EbookModel) TableName() string { return "products" }

func (m ProductColumns) toProduct() domain.Product {
	return domain.Product{
		ID:          m.ID,
		Title:       m.Title,
		Description: deref(m.Description),
		Price:       m.Price,
		ImageURL:    deref(m.ImageURL),
		PreviewURL:  deref(m.PreviewURL),
		FileURL:     deref(m.FileURL),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListCourses(ctx context.Context) ([]domain.Product, error) {
	var models []CourseModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]domain.Product, 0, len(models))
	for _, m := range models {
		out = append(out, m.toProduct())
	}
	return out, nil
}

func (r *productRepository) ListEbooks(ctx context.Context) ([]domain.Product, error) {
	var models []EbookModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0, len(models))
	for _, m := range models {
		out = append(out, m.toProduct())
	}
	return out, nil
}
