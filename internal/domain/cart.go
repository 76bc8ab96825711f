package domain

import (
	"fmt"
	"time"
)

// Cart domain errors.
var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be at least 1"}
	ErrInvalidCartItem  = &Error{Code: EINVALID, Message: "Cart item is missing product, size, or color"}
)

// LineID builds the identity key of a cart line. A cart holds at most one
// line per (product, size, color); adding the same key again merges quantity.
func LineID(productID, size, color string) string {
	return fmt.Sprintf("%s-%s-%s", productID, size, color)
}

// CartItem is a product selection placed in the cart.
type CartItem struct {
	ProductSelection
	Quantity  int       `json:"quantity"`
	AddedDate time.Time `json:"addedDate"`
}

// LineID returns the item's identity key.
func (i CartItem) LineID() string {
	return LineID(i.Product.ID, i.Size, i.Color)
}

// LineTotal is the unit price times quantity.
func (i CartItem) LineTotal() int64 {
	return i.Product.Price * int64(i.Quantity)
}

// Valid reports whether the item is a valid selection with quantity >= 1.
func (i CartItem) Valid() bool {
	return i.ProductSelection.Valid() && i.Quantity >= 1
}

// CartState is the full state of a shopper's cart.
//
// SelectedItems holds line identity keys and must stay a subset of the
// identity keys of Items: every mutation that removes a line also removes
// its key from the selection set.
type CartState struct {
	Items         []CartItem
	SelectedItems map[string]struct{}

	// IsInitialized is set once an initial select-all pass has run against
	// a non-empty cart (or the cart has been explicitly cleared).
	IsInitialized bool

	// HasHydrated is set once persisted state has been loaded. Until then,
	// consumers must treat the cart as empty.
	HasHydrated bool
}

// NewCartState returns an empty, un-hydrated cart state.
func NewCartState() *CartState {
	return &CartState{
		SelectedItems: make(map[string]struct{}),
	}
}

// CartSummary aggregates the selected subset of a cart with computed totals.
type CartSummary struct {
	Items        []CartItem
	Subtotal     int64
	ShippingCost int64
	TotalAmount  int64
	ItemCount    int
}

// ShippingAddress is the destination captured during checkout. All fields
// are required for checkout to proceed; it is not persisted beyond the
// checkout session.
type ShippingAddress struct {
	FullName   string `json:"fullName" validate:"required"`
	Address    string `json:"address" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}
