package cart

import (
	"sort"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// The summary engine is pure derived reads over CartState. The package
// functions take a snapshot; the Store methods below are conveniences
// that read under the lock.

// SortedItems returns all items ordered by addedDate descending. Ties keep
// their relative order.
func SortedItems(state domain.CartState) []domain.CartItem {
	out := make([]domain.CartItem, len(state.Items))
	copy(out, state.Items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AddedDate.After(out[j].AddedDate)
	})
	return out
}

// SelectedItems returns the sorted items whose identity key is selected.
func SelectedItems(state domain.CartState) []domain.CartItem {
	var out []domain.CartItem
	for _, item := range SortedItems(state) {
		if _, ok := state.SelectedItems[item.LineID()]; ok {
			out = append(out, item)
		}
	}
	return out
}

// SelectedTotalPrice sums price × quantity over the selected items.
func SelectedTotalPrice(state domain.CartState) int64 {
	var total int64
	for _, item := range SelectedItems(state) {
		total += item.LineTotal()
	}
	return total
}

// HasSelectedItems reports whether the selection set is non-empty.
func HasSelectedItems(state domain.CartState) bool {
	return len(state.SelectedItems) > 0
}

// SelectedItemsCount sums the quantities of the selected items.
func SelectedItemsCount(state domain.CartState) int {
	total := 0
	for _, item := range SelectedItems(state) {
		total += item.Quantity
	}
	return total
}

// IsAllSelected reports whether the cart is non-empty and every line is
// selected.
func IsAllSelected(state domain.CartState) bool {
	return len(state.Items) > 0 && len(state.Items) == len(state.SelectedItems)
}

// Summarize aggregates the selected subset with totals. Shipping is free
// at or above the pricing threshold, otherwise the flat fee applies.
func Summarize(state domain.CartState, pricing Pricing) domain.CartSummary {
	items := SelectedItems(state)

	var subtotal int64
	count := 0
	for _, item := range items {
		subtotal += item.LineTotal()
		count += item.Quantity
	}

	var shipping int64
	if subtotal < pricing.FreeShippingThreshold {
		shipping = pricing.FlatShippingFee
	}

	return domain.CartSummary{
		Items:        items,
		Subtotal:     subtotal,
		ShippingCost: shipping,
		TotalAmount:  subtotal + shipping,
		ItemCount:    count,
	}
}

// SortedItems returns the store's items ordered by addedDate descending.
func (s *Store) SortedItems() []domain.CartItem {
	return SortedItems(s.Snapshot())
}

// SelectedItems returns the store's selected items in display order.
func (s *Store) SelectedItems() []domain.CartItem {
	return SelectedItems(s.Snapshot())
}

// SelectedTotalPrice is the subtotal of the store's selected items.
func (s *Store) SelectedTotalPrice() int64 {
	return SelectedTotalPrice(s.Snapshot())
}

// HasSelectedItems reports whether any line is selected.
func (s *Store) HasSelectedItems() bool {
	return HasSelectedItems(s.Snapshot())
}

// SelectedItemsCount sums the quantities of the selected lines.
func (s *Store) SelectedItemsCount() int {
	return SelectedItemsCount(s.Snapshot())
}

// IsAllSelected reports whether every line in the cart is selected.
func (s *Store) IsAllSelected() bool {
	return IsAllSelected(s.Snapshot())
}

// Summarize builds the order summary for the selected subset using the
// store's pricing rule. Before hydration it reports an empty summary.
func (s *Store) Summarize() domain.CartSummary {
	snapshot := s.Snapshot()
	if !snapshot.HasHydrated {
		return domain.CartSummary{}
	}
	return Summarize(snapshot, s.pricing)
}
