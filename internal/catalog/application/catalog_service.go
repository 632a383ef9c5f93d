package application

import (
	"context"

	"github.com/wyfcoding/corepnl/internal/catalog/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
	"github.com/wyfcoding/corepnl/pkg/metrics"
)

// CatalogService 商品目录加载服务
type CatalogService struct {
	repo    domain.ProductRepository
	metrics *metrics.Metrics
}

// NewCatalogService 创建目录服务，m 可为 nil
func NewCatalogService(repo domain.ProductRepository, m *metrics.Metrics) *CatalogService {
	return &CatalogService{repo: repo, metrics: m}
}

// LoadCatalog 加载全部课程与电子书；某个集合读取失败时记录日志并降级为空，另一个集合不受影响
func (s *CatalogService) LoadCatalog(ctx context.Context) domain.Catalog {
	var catalog domain.Catalog

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		s.recordFailure(ctx, "courses", err)
		courses = nil
	}
	ebooks, err := s.repo.ListEbooks(ctx)
	if err != nil {
		s.recordFailure(ctx, "products", err)
		ebooks = nil
	}

	catalog.Courses = nonNil(courses)
	catalog.Ebooks = nonNil(ebooks)
	return catalog
}

// Preview 查找商品试看地址
func (s *CatalogService) Preview(ctx context.Context, id int64, t domain.ItemType) (string, error) {
	return s.LoadCatalog(ctx).Preview(id, t)
}

func (s *CatalogService) recordFailure(ctx context.Context, collection string, err error) {
	logger.Error(ctx, "failed to load catalog collection", "collection", collection, "error", err)
	if s.metrics != nil {
		s.metrics.CatalogLoadFailures.WithLabelValues(collection).Inc()
	}
}

func nonNil(ps []domain.Product) []domain.Product {
	if ps == nil {
		return []domain.Product{}
	}
	return ps
}
