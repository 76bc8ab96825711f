package cart

import (
	"encoding/json"
	"time"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// Persisted record shape. Dates travel as ISO strings, the selection set
// as an array; the hydration flag is runtime-only and never persisted.
type persistedState struct {
	Items         []persistedItem `json:"items"`
	SelectedItems []string        `json:"selectedItems"`
	IsInitialized bool            `json:"isInitialized"`
}

type persistedItem struct {
	Product   domain.Product `json:"product"`
	Size      string         `json:"size"`
	Color     string         `json:"color"`
	Quantity  int            `json:"quantity"`
	AddedDate string         `json:"addedDate"`
}

// EncodeState serializes cart state to its persisted JSON form.
func EncodeState(state *domain.CartState) ([]byte, error) {
	const op = "cart.EncodeState"

	record := persistedState{
		Items:         make([]persistedItem, 0, len(state.Items)),
		SelectedItems: make([]string, 0, len(state.SelectedItems)),
		IsInitialized: state.IsInitialized,
	}
	for _, item := range state.Items {
		record.Items = append(record.Items, persistedItem{
			Product:   item.Product,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			AddedDate: item.AddedDate.UTC().Format(time.RFC3339Nano),
		})
	}
	for id := range state.SelectedItems {
		record.SelectedItems = append(record.SelectedItems, id)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode cart state")
	}
	return data, nil
}

// DecodeState reconstructs cart state from its persisted JSON form:
// dates are parsed back into timestamps and the selection list into a
// set. The result is not yet hydrated; the store's hydration pass sets
// that flag.
func DecodeState(data []byte) (*domain.CartState, error) {
	const op = "cart.DecodeState"

	var record persistedState
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, domain.WrapError(err, domain.EINVALID, op, "Malformed cart record")
	}

	state := domain.NewCartState()
	state.IsInitialized = record.IsInitialized
	for _, item := range record.Items {
		added, err := time.Parse(time.RFC3339Nano, item.AddedDate)
		if err != nil {
			return nil, domain.WrapError(err, domain.EINVALID, op, "Malformed cart item date")
		}
		state.Items = append(state.Items, domain.CartItem{
			ProductSelection: domain.ProductSelection{
				Product: item.Product,
				Size:    item.Size,
				Color:   item.Color,
			},
			Quantity:  item.Quantity,
			AddedDate: added,
		})
	}
	for _, id := range record.SelectedItems {
		state.SelectedItems[id] = struct{}{}
	}

	return state, nil
}
