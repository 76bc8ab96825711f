package storefront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dohyunlee/seoultee/internal/cart"
	"github.com/dohyunlee/seoultee/internal/catalog"
	"github.com/dohyunlee/seoultee/internal/domain"
	"github.com/dohyunlee/seoultee/internal/handler"
	"github.com/dohyunlee/seoultee/internal/telemetry"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	carts    *cart.Manager
	catalog  catalog.Service
	renderer *handler.Renderer
	metrics  *telemetry.BusinessMetrics
	secure   bool
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager, catalogService catalog.Service, renderer *handler.Renderer, metrics *telemetry.BusinessMetrics, secure bool) *CartHandler {
	return &CartHandler{
		carts:    carts,
		catalog:  catalogService,
		renderer: renderer,
		metrics:  metrics,
		secure:   secure,
	}
}

// store resolves the session's cart, minting a session cookie if needed.
func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, error) {
	sessionID := EnsureSession(w, r, h.secure)
	return h.carts.Get(r.Context(), sessionID)
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	data := BaseTemplateData(r)
	data["Items"] = store.SortedItems()
	data["Summary"] = store.Summarize()
	data["TotalCount"] = store.TotalCount()
	data["SelectedCount"] = store.SelectedItemsCount()
	data["AllSelected"] = store.IsAllSelected()
	data["Selected"] = selectedSet(store.Snapshot())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "cart", data)
}

// selectedSet exposes the selection as a map templates can index by line ID.
func selectedSet(state domain.CartState) map[string]bool {
	selected := make(map[string]bool, len(state.SelectedItems))
	for id := range state.SelectedItems {
		selected[id] = true
	}
	return selected
}

// Add handles POST /cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	productID := r.FormValue("product_id")
	size := r.FormValue("size")
	color := r.FormValue("color")

	quantity := 1
	if q := r.FormValue("quantity"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid quantity", http.StatusBadRequest)
			return
		}
		quantity = parsed
	}

	product, err := h.catalog.Get(ctx, productID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	// Option membership is enforced here, at the selection boundary. The
	// cart itself only checks that size and color are present.
	if !product.HasSize(size) || !product.HasColor(color) {
		http.Error(w, "Invalid size or color", http.StatusBadRequest)
		return
	}

	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	item := domain.CartItem{
		ProductSelection: domain.ProductSelection{Product: product, Size: size, Color: color},
		Quantity:         quantity,
	}
	if err := store.AddItem(ctx, item); err != nil {
		http.Error(w, "Failed to add item", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues("add").Inc()
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Update handles POST /cart/update
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		http.Error(w, "Invalid quantity", http.StatusBadRequest)
		return
	}

	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	err = store.UpdateQuantity(ctx, r.FormValue("product_id"), r.FormValue("size"), r.FormValue("color"), quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			http.Error(w, "Invalid quantity", http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrCartItemNotFound) {
			http.Error(w, "Cart item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update item", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues("update_quantity").Inc()
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Remove handles POST /cart/remove
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if err := store.RemoveItem(ctx, r.FormValue("product_id"), r.FormValue("size"), r.FormValue("color")); err != nil {
		http.Error(w, "Failed to remove item", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues("remove").Inc()
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Toggle handles POST /cart/select
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if err := store.ToggleItemSelection(ctx, r.FormValue("product_id"), r.FormValue("size"), r.FormValue("color")); err != nil {
		http.Error(w, "Failed to update selection", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues("select").Inc()
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// SelectAll handles POST /cart/select-all
func (h *CartHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	identifiers := make([]string, 0)
	for _, item := range store.SortedItems() {
		identifiers = append(identifiers, item.LineID())
	}
	if err := store.SelectAllItems(ctx, identifiers); err != nil {
		http.Error(w, "Failed to update selection", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// DeselectAll handles POST /cart/deselect-all
func (h *CartHandler) DeselectAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if err := store.DeselectAllItems(ctx); err != nil {
		http.Error(w, "Failed to update selection", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Clear handles POST /cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if err := store.ClearCart(ctx); err != nil {
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.CartCleared.WithLabelValues("manual").Inc()
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Count handles GET /api/cart/count, feeding the header badge.
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	store, err := h.store(w, r)
	if err != nil {
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": store.TotalCount()})
}
