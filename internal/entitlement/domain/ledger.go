package domain

import (
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
)

// Ledger 一次访问最近加载的购买集合；只反映最后一次加载的结果，不会逐次回源校验
type Ledger struct {
	purchases []Purchase
}

// NewLedger 创建空的权益账本
func NewLedger() *Ledger {
	return &Ledger{}
}

// Replace 用新加载的集合整体替换
func (l *Ledger) Replace(purchases []Purchase) {
	l.purchases = append([]Purchase(nil), purchases...)
}

// Append 仅在本地追加，用于模拟提交
func (l *Ledger) Append(purchases ...Purchase) {
	l.purchases = append(l.purchases, purchases...)
}

// Reset 清空账本
func (l *Ledger) Reset() {
	l.purchases = nil
}

// IsPurchased 是否已拥有 (id, type)
func (l *Ledger) IsPurchased(id int64, t catalog.ItemType) bool {
	for _, p := range l.purchases {
		if p.Grants(id, t) {
			return true
		}
	}
	return false
}

// Purchases 返回副本
func (l *Ledger) Purchases() []Purchase {
	return append([]Purchase{}, l.purchases...)
}

// Len 记录数
func (l *Ledger) Len() int {
	return len(l.purchases)
}

// Library 已拥有的课程与电子书
type Library struct {
	Courses []catalog.Product `json:"courses"`
	Ebooks  []catalog.Product `json:"ebooks"`
}

// BuildLibrary 取目录与账本的交集
func BuildLibrary(l *Ledger, c catalog.Catalog) Library {
	lib := Library{Courses: []catalog.Product{}, Ebooks: []catalog.Product{}}
	for _, p := range c.Courses {
		if l.IsPurchased(p.ID, catalog.ItemTypeCourse) {
			lib.Courses = append(lib.Courses, p)
		}
	}
	for _, p := range c.Ebooks {
		if l.IsPurchased(p.ID, catalog.ItemTypeEbook) {
			lib.Ebooks = append(lib.Ebooks, p)
		}
	}
	return lib
}
