package application

import (
	"context"
	"errors"
	"time"

	authapp "github.com/wyfcoding/corepnl/internal/auth/application"
	auth "github.com/wyfcoding/corepnl/internal/auth/domain"
	cartapp "github.com/wyfcoding/corepnl/internal/cart/application"
	catalogapp "github.com/wyfcoding/corepnl/internal/catalog/application"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	checkoutapp "github.com/wyfcoding/corepnl/internal/checkout/application"
	checkout "github.com/wyfcoding/corepnl/internal/checkout/domain"
	entitlementapp "github.com/wyfcoding/corepnl/internal/entitlement/application"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
	notification "github.com/wyfcoding/corepnl/internal/notification/domain"
	"github.com/wyfcoding/corepnl/internal/storefront/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
	"github.com/wyfcoding/corepnl/pkg/metrics"
)

// MsgSignupSucceeded 注册成功提示
const MsgSignupSucceeded = "Account created successfully!"

// NoticeSource 可取出待展示提示的收件箱
type NoticeSource interface {
	notification.Notifier
	Drain(visitID string) []notification.Notice
	Forget(visitID string)
	Purge() int
}

// Storefront 店面应用服务，按 登录 → 加载权益 → 加载目录 → 组合状态 → 结账 → 重新加载 的顺序编排各上下文
type Storefront struct {
	visits       domain.VisitRegistry
	catalog      *catalogapp.CatalogService
	entitlements *entitlementapp.EntitlementService
	carts        *cartapp.CartService
	checkout     *checkoutapp.CheckoutService
	auth         *authapp.AuthService
	inbox        NoticeSource
	notifier     notification.Notifier
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewStorefront 创建店面服务；notifier 为 nil 时提示直接写入 inbox，m 可为 nil
func NewStorefront(
	visits domain.VisitRegistry,
	catalogSvc *catalogapp.CatalogService,
	entitlements *entitlementapp.EntitlementService,
	carts *cartapp.CartService,
	checkoutSvc *checkoutapp.CheckoutService,
	authSvc *authapp.AuthService,
	inbox NoticeSource,
	notifier notification.Notifier,
	m *metrics.Metrics,
) *Storefront {
	if notifier == nil {
		notifier = inbox
	}
	return &Storefront{
		visits:       visits,
		catalog:      catalogSvc,
		entitlements: entitlements,
		carts:        carts,
		checkout:     checkoutSvc,
		auth:         authSvc,
		inbox:        inbox,
		notifier:     notifier,
		metrics:      m,
		now:          time.Now,
	}
}

// WithClock 替换时钟
func (s *Storefront) WithClock(now func() time.Time) *Storefront {
	s.now = now
	return s
}

// Visit 取回已有访问会话，不存在时新建；created 表示是否新建
func (s *Storefront) Visit(id string) (v *domain.Visit, created bool) {
	if v, ok := s.visits.Get(id); ok {
		return v, false
	}
	v = s.visits.Create()
	if s.metrics != nil {
		s.metrics.ActiveVisits.Set(float64(s.visits.Len()))
	}
	return v, true
}

// Attach 将请求携带的会话令牌绑定到访问上；令牌无效时按匿名处理
func (s *Storefront) Attach(ctx context.Context, v *domain.Visit, token string) {
	v.Lock()
	defer v.Unlock()
	v.Touch(s.now())

	if v.Session != nil && v.Session.Expired(s.now()) {
		v.SignOut()
	}
	if token == "" || (v.Session != nil && v.Session.Token == token) {
		return
	}

	session, err := s.auth.Resolve(ctx, token)
	if err != nil {
		logger.Debug(ctx, "ignoring invalid session token", "visit_id", v.ID)
		return
	}
	s.signIn(ctx, v, session)
}

// signIn 绑定会话、加载权益，并移除购物车中账户已拥有的条目
func (s *Storefront) signIn(ctx context.Context, v *domain.Visit, session *auth.Session) {
	v.SignIn(session)
	s.entitlements.LoadPurchases(ctx, v.Ledger, session.UserID)
	s.carts.PruneOwned(ctx, v.ID, v.Cart, v.Ledger)
}

// Browse 加载目录并标注每个商品的状态
func (s *Storefront) Browse(ctx context.Context, v *domain.Visit) CatalogView {
	c := s.catalog.LoadCatalog(ctx)
	v.Lock()
	defer v.Unlock()
	return composeCatalog(v, c)
}

// Preview 商品试看地址
func (s *Storefront) Preview(ctx context.Context, id int64, t catalog.ItemType) (string, error) {
	return s.catalog.Preview(ctx, id, t)
}

// Cart 当前购物车
func (s *Storefront) Cart(v *domain.Visit) CartView {
	v.Lock()
	defer v.Unlock()
	return composeCart(v.Cart)
}

// AddToCart 按 (id, type) 从目录中查找商品并加入购物车
func (s *Storefront) AddToCart(ctx context.Context, v *domain.Visit, id int64, t catalog.ItemType) (CartView, bool, error) {
	p, ok := s.catalog.LoadCatalog(ctx).Find(id, t)
	if !ok {
		return CartView{}, false, catalog.ErrProductNotFound
	}

	v.Lock()
	defer v.Unlock()
	added := s.carts.AddToCart(ctx, v.ID, v.Cart, v.Ledger, p, t)
	return composeCart(v.Cart), added, nil
}

// RemoveFromCart 从购物车移除
func (s *Storefront) RemoveFromCart(ctx context.Context, v *domain.Visit, id int64, t catalog.ItemType) CartView {
	v.Lock()
	defer v.Unlock()
	s.carts.RemoveFromCart(ctx, v.ID, v.Cart, id, t)
	return composeCart(v.Cart)
}

// Checkout 结账；已登录走持久化提交，匿名走模拟提交
func (s *Storefront) Checkout(ctx context.Context, v *domain.Visit) (*checkout.Receipt, error) {
	v.Lock()
	defer v.Unlock()
	return s.checkout.Checkout(ctx, v.ID, v.Cart, v.Ledger, v.UserID())
}

// Login 登录成功后绑定会话并加载权益
func (s *Storefront) Login(ctx context.Context, v *domain.Visit, email, password string) (*auth.Session, error) {
	v.Lock()
	defer v.Unlock()

	session, err := s.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.recordLogin("invalid")
		} else {
			s.recordLogin("error")
		}
		return nil, err
	}
	s.recordLogin("success")
	s.signIn(ctx, v, session)
	return session, nil
}

// Signup 注册
func (s *Storefront) Signup(ctx context.Context, v *domain.Visit, cmd authapp.SignupCommand) error {
	if err := s.auth.Signup(ctx, cmd); err != nil {
		return err
	}
	if err := s.notifier.Notify(ctx, v.ID, notification.Success(MsgSignupSucceeded)); err != nil {
		logger.Warn(ctx, "failed to emit notice", "error", err)
	}
	return nil
}

// Logout 撤销会话
func (s *Storefront) Logout(ctx context.Context, v *domain.Visit) error {
	v.Lock()
	defer v.Unlock()
	if v.Session == nil {
		return nil
	}
	token := v.Session.Token
	v.SignOut()
	return s.auth.Logout(ctx, token)
}

// Session 当前会话，匿名返回 nil
func (s *Storefront) Session(v *domain.Visit) *auth.Session {
	v.Lock()
	defer v.Unlock()
	return v.Session
}

// Purchases 已加载的购买记录
func (s *Storefront) Purchases(v *domain.Visit) []entitlement.Purchase {
	v.Lock()
	defer v.Unlock()
	return v.Ledger.Purchases()
}

// Library 已拥有的课程与电子书
func (s *Storefront) Library(ctx context.Context, v *domain.Visit) entitlement.Library {
	c := s.catalog.LoadCatalog(ctx)
	v.Lock()
	defer v.Unlock()
	return s.entitlements.Library(v.Ledger, c)
}

// Access 已拥有商品的文件地址
func (s *Storefront) Access(ctx context.Context, v *domain.Visit, id int64, t catalog.ItemType) (string, error) {
	c := s.catalog.LoadCatalog(ctx)
	v.Lock()
	defer v.Unlock()
	return s.entitlements.Access(v.Ledger, c, id, t)
}

// Notices 取出待展示的提示
func (s *Storefront) Notices(v *domain.Visit) []notification.Notice {
	return s.inbox.Drain(v.ID)
}

// EvictIdle 回收闲置的访问会话
func (s *Storefront) EvictIdle(ctx context.Context, idle time.Duration) int {
	evicted := s.visits.EvictIdle(s.now().Add(-idle))
	for _, id := range evicted {
		s.inbox.Forget(id)
	}
	s.inbox.Purge()
	if s.metrics != nil {
		s.metrics.ActiveVisits.Set(float64(s.visits.Len()))
	}
	if len(evicted) > 0 {
		logger.Info(ctx, "evicted idle visits", "count", len(evicted))
	}
	return len(evicted)
}

// RunJanitor 定期回收闲置访问会话，直到 ctx 结束
func (s *Storefront) RunJanitor(ctx context.Context, idle, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.EvictIdle(ctx, idle)
		}
	}
}

func (s *Storefront) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
