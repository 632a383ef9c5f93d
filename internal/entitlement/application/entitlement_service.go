package application

import (
	"context"

	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	"github.com/wyfcoding/corepnl/internal/entitlement/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

// EntitlementService 权益查询服务
type EntitlementService struct {
	repo domain.PurchaseRepository
}

// NewEntitlementService 创建权益服务
func NewEntitlementService(repo domain.PurchaseRepository) *EntitlementService {
	return &EntitlementService{repo: repo}
}

// LoadPurchases 加载用户的购买记录并替换账本；读取失败时记录日志，账本被置为空集
func (s *EntitlementService) LoadPurchases(ctx context.Context, ledger *domain.Ledger, userID string) []domain.Purchase {
	purchases, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to load purchases", "user_id", userID, "error", err)
		purchases = nil
	}
	ledger.Replace(purchases)
	return ledger.Purchases()
}

// Library 已拥有的商品
func (s *EntitlementService) Library(ledger *domain.Ledger, c catalog.Catalog) domain.Library {
	return domain.BuildLibrary(ledger, c)
}

// Access 返回已拥有商品的文件地址
func (s *EntitlementService) Access(ledger *domain.Ledger, c catalog.Catalog, id int64, t catalog.ItemType) (string, error) {
	if !ledger.IsPurchased(id, t) {
		return "", domain.ErrNotOwned
	}
	p, ok := c.Find(id, t)
	if !ok || p.FileURL == "" {
		return "", domain.ErrFileUnavailable
	}
	return p.FileURL, nil
}
