package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItemType    = errors.New("invalid item type")
	ErrProductNotFound    = errors.New("product not found")
	ErrPreviewUnavailable = errors.New("Preview not available for this item")
)

// ItemType 商品类型，决定所在的表以及购买记录中使用的外键列
type ItemType string

const (
	ItemTypeCourse ItemType = "course"
	ItemTypeEbook  ItemType = "ebook"
)

// ParseItemType 解析商品类型
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(strings.ToLower(strings.TrimSpace(s))); t {
	case ItemTypeCourse, ItemTypeEbook:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidItemType, s)
	}
}

// Product 课程或电子书，对客户端只读
type Product struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	ImageURL    string              `json:"image_url,omitempty"`
	PreviewURL  string              `json:"preview_url,omitempty"`
	FileURL     string              `json:"file_url,omitempty"`
}

// PriceOrZero 价格缺失时按 0 计
func (p Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// Catalog 一次加载得到的课程与电子书
type Catalog struct {
	Courses []Product `json:"courses"`
	Ebooks  []Product `json:"ebooks"`
}

func (c Catalog) collection(t ItemType) []Product {
	if t == ItemTypeCourse {
		return c.Courses
	}
	return c.Ebooks
}

// Find 按 (id, type) 查找商品
func (c Catalog) Find(id int64, t ItemType) (Product, bool) {
	for _, p := range c.collection(t) {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Preview 返回商品的试看地址
func (c Catalog) Preview(id int64, t ItemType) (string, error) {
	p, ok := c.Find(id, t)
	if !ok {
		return "", ErrProductNotFound
	}
	if p.PreviewURL == "" {
		return "", ErrPreviewUnavailable
	}
	return p.PreviewURL, nil
}

// FormatPrice 以加元格式展示价格，如 CA$99.00
func FormatPrice(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-CA$" + d.Abs().StringFixed(2)
	}
	return "CA$" + d.StringFixed(2)
}

// ProductRepository courses 与 products 两个集合的只读访问
type ProductRepository interface {
	ListCourses(ctx context.Context) ([]Product, error)
	ListEbooks(ctx context.Context) ([]Product, error)
}
