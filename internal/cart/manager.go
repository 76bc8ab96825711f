package cart

import (
	"context"
	"log/slog"
	"sync"
)

// storageNamespace is the key prefix carts are persisted under; the
// session id is appended so every shopper gets an isolated record.
const storageNamespace = "cart-storage"

// Manager hands out one hydrated Store per session. Stores are created
// lazily on first access and kept for the life of the process; their
// durable state lives in the repository.
type Manager struct {
	repo    Repository
	pricing Pricing
	logger  *slog.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(repo Repository, pricing Pricing, logger *slog.Logger) *Manager {
	return &Manager{
		repo:    repo,
		pricing: pricing,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Get returns the session's cart store, hydrating it on first access.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Store, error) {
	m.mu.Lock()
	store, ok := m.stores[sessionID]
	if !ok {
		store = NewStore(storageNamespace+":"+sessionID, m.repo, m.pricing, m.logger)
		m.stores[sessionID] = store
	}
	m.mu.Unlock()

	if !store.HasHydrated() {
		if err := store.Hydrate(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}
