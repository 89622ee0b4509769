package catalog

import "github.com/shopspring/decimal"

// ProductColor is a selectable color swatch.
type ProductColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ProductReview is a static review entry shipped with the catalog.
type ProductReview struct {
	User    string  `json:"user"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
	Date    string  `json:"date"`
}

// Product is a read-only catalog record. Carts and wishlists copy products by
// value, so the JSON field names here define the persisted bucket layout too.
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	LongDescription string           `json:"longDescription,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice,omitempty"`
	Images          []string         `json:"images"`
	Category        string           `json:"category"`
	Subcategory     string           `json:"subcategory"`
	Tags            []string         `json:"tags"`
	Rating          float64          `json:"rating"`
	ReviewCount     int              `json:"reviewCount"`
	Reviews         []ProductReview  `json:"reviews,omitempty"`
	InStock         bool             `json:"inStock"`
	Sizes           []string         `json:"sizes,omitempty"`
	Colors          []ProductColor   `json:"colors,omitempty"`
	Brand           string           `json:"brand"`
	IsNew           bool             `json:"isNew,omitempty"`
	IsFeatured      bool             `json:"isFeatured,omitempty"`
	IsTrending      bool             `json:"isTrending,omitempty"`
	IsBestseller    bool             `json:"isBestseller,omitempty"`
	Discount        *int             `json:"discount,omitempty"`
}

// FirstImage returns the lead image or an empty string.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
