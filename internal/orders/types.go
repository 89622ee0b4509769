package orders

import (
	"time"

	"github.com/luxe-commerce/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// ShippingAddress is captured once at checkout and frozen on the order.
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// OrderItem is a denormalized snapshot of a cart line at order time. Catalog
// changes after checkout never alter historical orders.
type OrderItem struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	ProductImage  string          `json:"productImage"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

// TrackingEvent is one immutable entry in an order's status history log.
type TrackingEvent struct {
	Status      enums.OrderStatus `json:"status"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Location    string            `json:"location"`
	Description string            `json:"description"`
}

// Order is created once; only Status and UpdatedAt mutate afterwards, and
// orders are never deleted.
type Order struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"orderNumber"`
	Items             []OrderItem         `json:"items"`
	ShippingAddress   ShippingAddress     `json:"shippingAddress"`
	PaymentMethod     enums.PaymentMethod `json:"paymentMethod"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	Shipping          decimal.Decimal     `json:"shipping"`
	Tax               decimal.Decimal     `json:"tax"`
	Discount          decimal.Decimal     `json:"discount"`
	Total             decimal.Decimal     `json:"total"`
	Status            enums.OrderStatus   `json:"status"`
	TrackingNumber    string              `json:"trackingNumber"`
	EstimatedDelivery string              `json:"estimatedDelivery"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	TrackingEvents    []TrackingEvent     `json:"trackingEvents"`
}
