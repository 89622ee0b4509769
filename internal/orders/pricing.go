package orders

import "github.com/shopspring/decimal"

var (
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingRate      = decimal.RequireFromString("9.99")
	taxRate               = decimal.RequireFromString("0.08")
)

// Pricing is the deterministic charge breakdown for a subtotal. There is no
// coupon engine, so Discount is always zero.
type Pricing struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputePricing applies the flat policy: free shipping at or above the
// threshold, 8% tax rounded to cents.
func ComputePricing(subtotal decimal.Decimal) Pricing {
	shipping := flatShippingRate
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Pricing{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: decimal.Zero,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
