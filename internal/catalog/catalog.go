package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
)

// Catalog is the static product source. No store owns or mutates it.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// New builds a catalog from an in-memory product slice.
func New(products []Product) *Catalog {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// LoadFile reads a JSON product list from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return New(products), nil
}

// List returns every catalog product.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// FindByID returns the product for id.
func (c *Catalog) FindByID(id string) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

// Len reports the catalog size.
func (c *Catalog) Len() int {
	return len(c.products)
}
