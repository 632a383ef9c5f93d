package infrastructure

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/corepnl/internal/storefront/domain"
)

// MemoryVisitRegistry 进程内的访问会话表
type MemoryVisitRegistry struct {
	mu     sync.Mutex
	visits map[string]*domain.Visit
	now    func() time.Time
	newID  func() string
}

// NewMemoryVisitRegistry 创建内存注册表
func NewMemoryVisitRegistry() *MemoryVisitRegistry {
	return &MemoryVisitRegistry{
		visits: make(map[string]*domain.Visit),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// WithClock 替换时钟
func (r *MemoryVisitRegistry) WithClock(now func() time.Time) *MemoryVisitRegistry {
	r.now = now
	return r
}

func (r *MemoryVisitRegistry) Get(id string) (*domain.Visit, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visits[id]
	return v, ok
}

func (r *MemoryVisitRegistry) Create() *domain.Visit {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := domain.NewVisit(r.newID(), r.now())
	r.visits[v.ID] = v
	return v
}

// EvictIdle 跳过正被其他请求持有的访问会话
func (r *MemoryVisitRegistry) EvictIdle(before time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, v := range r.visits {
		if !v.TryLock() {
			continue
		}
		idle := v.LastSeen.Before(before)
		v.Unlock()
		if idle {
			delete(r.visits, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (r *MemoryVisitRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}
