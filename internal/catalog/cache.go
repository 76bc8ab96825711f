package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// CachedService is a read-through cache in front of another catalog
// Service. List results and per-product lookups are cached with separate
// TTLs; category listings are filtered from the cached list so they share
// its freshness window.
type CachedService struct {
	next      Service
	listTTL   time.Duration
	detailTTL time.Duration
	now       func() time.Time

	mu          sync.RWMutex
	list        []domain.Product
	listExpires time.Time
	details     map[string]detailEntry
}

type detailEntry struct {
	product domain.Product
	expires time.Time
}

func NewCachedService(next Service, listTTL, detailTTL time.Duration) *CachedService {
	return &CachedService{
		next:      next,
		listTTL:   listTTL,
		detailTTL: detailTTL,
		now:       time.Now,
		details:   make(map[string]detailEntry),
	}
}

func (c *CachedService) List(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	if c.list != nil && c.now().Before(c.listExpires) {
		out := make([]domain.Product, len(c.list))
		copy(out, c.list)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	list, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.list = list
	c.listExpires = c.now().Add(c.listTTL)
	c.mu.Unlock()

	out := make([]domain.Product, len(list))
	copy(out, list)
	return out, nil
}

func (c *CachedService) Get(ctx context.Context, id string) (domain.Product, error) {
	c.mu.RLock()
	if e, ok := c.details[id]; ok && c.now().Before(e.expires) {
		c.mu.RUnlock()
		return e.product, nil
	}
	c.mu.RUnlock()

	// Misses on unknown IDs are not cached; a retried lookup should see
	// a product the moment the underlying catalog gains it.
	p, err := c.next.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	c.mu.Lock()
	c.details[id] = detailEntry{product: p, expires: c.now().Add(c.detailTTL)}
	c.mu.Unlock()

	return p, nil
}

func (c *CachedService) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	list, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Product
	for _, p := range list {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}
