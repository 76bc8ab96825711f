package domain

import (
	"slices"
	"strconv"
)

// Product is an immutable catalog record supplied by the product catalog.
// Prices are in KRW (whole won, no sub-unit).
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

// HasSize reports whether size is one of the product's declared sizes.
func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// HasColor reports whether color is one of the product's declared colors.
func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// ProductSelection is a product together with the options a shopper chose.
// Cart lines, wishlists, and order items all build on it.
type ProductSelection struct {
	Product Product `json:"product"`
	Size    string  `json:"size"`
	Color   string  `json:"color"`
}

// Valid reports whether the selection carries a product and both options.
// Only presence is checked here; membership of size/color in the product's
// declared option lists is enforced at the selection UI boundary.
func (s ProductSelection) Valid() bool {
	return s.Product.ID != "" && s.Size != "" && s.Color != ""
}

// FormatPrice renders a KRW amount with thousands separators, e.g. "₩35,000".
func FormatPrice(amount int64) string {
	if amount < 0 {
		amount = 0
	}

	digits := strconv.FormatInt(amount, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}

	return "₩" + string(grouped)
}
