package domain

import (
	"sync"
	"time"

	auth "github.com/wyfcoding/corepnl/internal/auth/domain"
	cart "github.com/wyfcoding/corepnl/internal/cart/domain"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
)

// Visit 一次浏览会话，只存在于进程内存；同一访问上的操作由 mu 串行化
type Visit struct {
	mu sync.Mutex

	ID       string
	Cart     *cart.Cart
	Ledger   *entitlement.Ledger
	Session  *auth.Session
	LastSeen time.Time
}

// NewVisit 创建访问会话
func NewVisit(id string, now time.Time) *Visit {
	return &Visit{
		ID:       id,
		Cart:     cart.NewCart(),
		Ledger:   entitlement.NewLedger(),
		LastSeen: now,
	}
}

func (v *Visit) Lock()   { v.mu.Lock() }
func (v *Visit) Unlock() { v.mu.Unlock() }

// TryLock 非阻塞加锁
func (v *Visit) TryLock() bool { return v.mu.TryLock() }

// Touch 更新最近访问时间
func (v *Visit) Touch(now time.Time) {
	v.LastSeen = now
}

// UserID 已登录时返回用户标识，匿名返回空串
func (v *Visit) UserID() string {
	if v.Session == nil {
		return ""
	}
	return v.Session.UserID
}

// Authenticated 是否已登录
func (v *Visit) Authenticated() bool {
	return v.Session != nil
}

// SignIn 绑定会话；切换用户时旧账本作废
func (v *Visit) SignIn(s *auth.Session) {
	if v.Session == nil || v.Session.UserID != s.UserID {
		v.Ledger.Reset()
	}
	v.Session = s
}

// SignOut 解除会话并清空账本，购物车保留
func (v *Visit) SignOut() {
	v.Session = nil
	v.Ledger.Reset()
}

// VisitRegistry 访问会话注册表
type VisitRegistry interface {
	// Get 返回已存在的访问会话
	Get(id string) (*Visit, bool)
	// Create 以新 id 创建访问会话
	Create() *Visit
	// EvictIdle 回收 LastSeen 早于 before 的访问会话，返回其 id
	EvictIdle(before time.Time) []string
	Len() int
}
