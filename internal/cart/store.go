// Package cart owns the shopping cart: the mutable store, the
// selection/summary engine, and persistence of cart state.
package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// Store is the sole mutable owner of a shopper's CartState. All reads and
// writes of cart contents and selection go through it. Every committed
// mutation is saved through the repository and then announced to
// subscribers.
//
// A Store is safe for concurrent use.
type Store struct {
	namespace string
	repo      Repository
	pricing   Pricing
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.RWMutex
	state *domain.CartState

	subMu   sync.Mutex
	subs    map[int]func(domain.CartState)
	nextSub int
}

// Pricing holds the shipping cost rule applied by Summarize.
type Pricing struct {
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

func NewStore(namespace string, repo Repository, pricing Pricing, logger *slog.Logger) *Store {
	return &Store{
		namespace: namespace,
		repo:      repo,
		pricing:   pricing,
		logger:    logger,
		now:       time.Now,
		state:     domain.NewCartState(),
		subs:      make(map[int]func(domain.CartState)),
	}
}

// Hydrate loads persisted state for the store's namespace. A namespace
// with no saved state hydrates to an empty cart. If the cart is non-empty
// and has never run its initial selection pass, every line is selected and
// the initialized flag is set. HasHydrated is set last; until Hydrate
// returns, reads report an empty cart.
func (s *Store) Hydrate(ctx context.Context) error {
	const op = "cart.Store.Hydrate"

	state, err := s.repo.Load(ctx, s.namespace)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			state = domain.NewCartState()
		} else {
			return domain.Internal(err, op, "failed to load cart state")
		}
	}

	s.mu.Lock()
	if !state.IsInitialized && len(state.Items) > 0 {
		for _, item := range state.Items {
			state.SelectedItems[item.LineID()] = struct{}{}
		}
		state.IsInitialized = true
	}
	state.HasHydrated = true
	s.state = state
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "cart hydrated",
		slog.String("namespace", s.namespace),
		slog.Int("items", len(state.Items)))
	return nil
}

// AddItem puts a selection in the cart. An invalid item (missing product,
// size, or color, or quantity < 1) is rejected with a warning and no state
// change. When a line with the same identity key already exists its
// quantity is increased and its timestamp refreshed; otherwise a new line
// is appended and automatically selected.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem) error {
	const op = "cart.Store.AddItem"

	if !item.Valid() {
		s.logger.WarnContext(ctx, "invalid cart item rejected",
			slog.String("product_id", item.Product.ID),
			slog.String("size", item.Size),
			slog.String("color", item.Color),
			slog.Int("quantity", item.Quantity))
		return domain.ErrInvalidCartItem
	}

	s.mu.Lock()
	id := item.LineID()
	merged := false
	for i := range s.state.Items {
		if s.state.Items[i].LineID() == id {
			s.state.Items[i].Quantity += item.Quantity
			s.state.Items[i].AddedDate = s.now()
			merged = true
			break
		}
	}
	if !merged {
		item.AddedDate = s.now()
		s.state.Items = append(s.state.Items, item)
		s.state.SelectedItems[id] = struct{}{}
	}
	s.mu.Unlock()

	return s.commit(ctx, op)
}

// RemoveItem drops the matching line and its selection entry. Removing a
// line that is not in the cart is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID, size, color string) error {
	const op = "cart.Store.RemoveItem"

	id := domain.LineID(productID, size, color)

	s.mu.Lock()
	kept := s.state.Items[:0]
	for _, item := range s.state.Items {
		if item.LineID() != id {
			kept = append(kept, item)
		}
	}
	s.state.Items = kept
	delete(s.state.SelectedItems, id)
	s.mu.Unlock()

	return s.commit(ctx, op)
}

// UpdateQuantity replaces a line's quantity, preserving its identity and
// timestamp. Quantity below 1 or an unknown line warns and leaves the
// state unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	const op = "cart.Store.UpdateQuantity"

	if quantity < 1 {
		s.logger.WarnContext(ctx, "quantity must be at least 1",
			slog.Int("quantity", quantity))
		return domain.ErrInvalidQuantity
	}

	id := domain.LineID(productID, size, color)

	s.mu.Lock()
	found := false
	for i := range s.state.Items {
		if s.state.Items[i].LineID() == id {
			s.state.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		s.logger.WarnContext(ctx, "cart item not found", slog.String("line_id", id))
		return domain.ErrCartItemNotFound
	}

	return s.commit(ctx, op)
}

// ClearCart empties items and selection and marks the cart initialized.
func (s *Store) ClearCart(ctx context.Context) error {
	const op = "cart.Store.ClearCart"

	s.mu.Lock()
	s.state.Items = nil
	s.state.SelectedItems = make(map[string]struct{})
	s.state.IsInitialized = true
	s.mu.Unlock()

	return s.commit(ctx, op)
}

// ToggleItemSelection flips the line's membership in the selection set.
func (s *Store) ToggleItemSelection(ctx context.Context, productID, size, color string) error {
	const op = "cart.Store.ToggleItemSelection"

	id := domain.LineID(productID, size, color)

	s.mu.Lock()
	if _, ok := s.state.SelectedItems[id]; ok {
		delete(s.state.SelectedItems, id)
	} else {
		s.state.SelectedItems[id] = struct{}{}
	}
	s.mu.Unlock()

	return s.commit(ctx, op)
}

// SelectAllItems replaces the selection set with the given identifiers.
func (s *Store) SelectAllItems(ctx context.Context, identifiers []string) error {
	const op = "cart.Store.SelectAllItems"

	s.mu.Lock()
	s.state.SelectedItems = make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		s.state.SelectedItems[id] = struct{}{}
	}
	s.mu.Unlock()

	return s.commit(ctx, op)
}

// DeselectAllItems clears the selection set.
func (s *Store) DeselectAllItems(ctx context.Context) error {
	const op = "cart.Store.DeselectAllItems"

	s.mu.Lock()
	s.state.SelectedItems = make(map[string]struct{})
	s.mu.Unlock()

	return s.commit(ctx, op)
}

// SetHasHydrated sets the hydration lifecycle flag.
func (s *Store) SetHasHydrated(hydrated bool) {
	s.mu.Lock()
	s.state.HasHydrated = hydrated
	s.mu.Unlock()
}

// SetInitialized sets the initial-selection lifecycle flag.
func (s *Store) SetInitialized(initialized bool) {
	s.mu.Lock()
	s.state.IsInitialized = initialized
	s.mu.Unlock()
}

// TotalCount is the sum of quantities across all items. Before hydration
// it is always 0.
func (s *Store) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.HasHydrated {
		return 0
	}
	total := 0
	for _, item := range s.state.Items {
		total += item.Quantity
	}
	return total
}

// HasHydrated reports whether persisted state has been loaded.
func (s *Store) HasHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasHydrated
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() domain.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Subscribe registers a change listener invoked after every committed
// mutation with a snapshot of the new state. The returned function
// removes the listener.
func (s *Store) Subscribe(fn func(domain.CartState)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// commit persists the current state and notifies subscribers. Persistence
// failures are logged and returned but the in-memory mutation stands.
func (s *Store) commit(ctx context.Context, op string) error {
	snapshot := s.Snapshot()

	var saveErr error
	if err := s.repo.Save(ctx, s.namespace, &snapshot); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart state",
			slog.String("namespace", s.namespace),
			slog.String("error", err.Error()))
		saveErr = domain.Internal(err, op, "failed to persist cart state")
	}

	s.subMu.Lock()
	listeners := make([]func(domain.CartState), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}

	return saveErr
}

func copyState(state *domain.CartState) domain.CartState {
	out := domain.CartState{
		Items:         make([]domain.CartItem, len(state.Items)),
		SelectedItems: make(map[string]struct{}, len(state.SelectedItems)),
		IsInitialized: state.IsInitialized,
		HasHydrated:   state.HasHydrated,
	}
	copy(out.Items, state.Items)
	for id := range state.SelectedItems {
		out.SelectedItems[id] = struct{}{}
	}
	return out
}
