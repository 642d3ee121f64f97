package fleet

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"golang.org/x/sync/singleflight"
)

// PoolProvider serves the printer pool to the order path. Loads are shared
// between concurrent callers and reused for ttl, so a burst of quotes hits
// the repository once.
type PoolProvider struct {
	repo printing.PrinterRepository
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	pool     printing.PrinterPool
	loadedAt time.Time
	sfGroup  singleflight.Group
}

// NewPoolProvider creates a provider; ttl <= 0 disables caching
func NewPoolProvider(repo printing.PrinterRepository, ttl time.Duration) *PoolProvider {
	return &PoolProvider{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Pool returns every printer in stable order: registration time, then id.
// The shared load does not inherit any one caller's cancellation; a caller
// whose ctx ends stops waiting without failing the others.
func (p *PoolProvider) Pool(ctx context.Context) (printing.PrinterPool, error) {
	if pool, ok := p.cached(); ok {
		return pool, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := p.sfGroup.DoChan("pool", func() (interface{}, error) {
		if pool, ok := p.cached(); ok {
			return pool, nil
		}
		return p.load(loadCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clonePool(res.Val.(printing.PrinterPool)), nil
	}
}

// Invalidate drops the cached pool so the next call reloads it
func (p *PoolProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pool = nil
	p.loadedAt = time.Time{}
}

func (p *PoolProvider) cached() (printing.PrinterPool, bool) {
	if p.ttl <= 0 {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.pool == nil || p.now().Sub(p.loadedAt) >= p.ttl {
		return nil, false
	}
	return clonePool(p.pool), true
}

func (p *PoolProvider) load(ctx context.Context) (printing.PrinterPool, error) {
	printers, err := p.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load printers: %w", err)
	}
	pool := make(printing.PrinterPool, len(printers))
	for i, pr := range printers {
		pool[i] = *pr
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if !pool[i].RegisteredAt.Equal(pool[j].RegisteredAt) {
			return pool[i].RegisteredAt.Before(pool[j].RegisteredAt)
		}
		return pool[i].ID < pool[j].ID
	})

	p.mu.Lock()
	p.pool = pool
	p.loadedAt = p.now()
	p.mu.Unlock()
	return pool, nil
}

func clonePool(pool printing.PrinterPool) printing.PrinterPool {
	out := make(printing.PrinterPool, len(pool))
	copy(out, pool)
	return out
}
