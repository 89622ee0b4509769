package cart

import (
	"github.com/luxe-commerce/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is one cart line. A line is identified by (product id, size, color)
// for rendering, but mutations key by product id alone, so two variants of
// the same product collapse under update and remove.
type Item struct {
	Product       catalog.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

// State is the full persisted cart bucket.
type State struct {
	Items  []Item `json:"items"`
	IsOpen bool   `json:"isOpen"`
}

// The transition functions below are pure: old state in, new state out.
// The Store applies them under its lock and persists the result.

func addItem(s State, product catalog.Product, quantity int, size, color string) State {
	if quantity < 1 {
		quantity = 1
	}
	for i, item := range s.Items {
		if item.Product.ID == product.ID {
			items := cloneItems(s.Items)
			items[i].Quantity += quantity
			s.Items = items
			return s
		}
	}
	items := cloneItems(s.Items)
	s.Items = append(items, Item{
		Product:       product,
		Quantity:      quantity,
		SelectedSize:  size,
		SelectedColor: color,
	})
	return s
}

func removeItem(s State, productID string) State {
	items := make([]Item, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	s.Items = items
	return s
}

// updateQuantity sets the line quantity directly. A target below one removes
// the line, keeping the quantity >= 1 invariant.
func updateQuantity(s State, productID string, quantity int) State {
	if quantity < 1 {
		return removeItem(s, productID)
	}
	items := cloneItems(s.Items)
	for i, item := range items {
		if item.Product.ID == productID {
			items[i].Quantity = quantity
		}
	}
	s.Items = items
	return s
}

func clearItems(s State) State {
	s.Items = []Item{}
	return s
}

func totalPrice(s State) decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func totalItems(s State) int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
