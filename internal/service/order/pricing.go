package order

import "storefront/internal/domain"

// Pricing rules, all in integer cents. Orders over the free-shipping
// threshold ship for nothing; everything else pays the flat fee. Tax is 5%
// of the items subtotal, rounded half-up to the cent.
const (
	freeShippingThresholdCents = 50000
	flatShippingFeeCents       = 4000
	taxPermyriad               = 500
)

type priceBreakdown struct {
	ItemsCents    int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

func calculatePrices(items []domain.OrderItem) priceBreakdown {
	var b priceBreakdown
	for _, item := range items {
		b.ItemsCents += item.PriceCents * int64(item.Quantity)
	}
	if b.ItemsCents <= freeShippingThresholdCents {
		b.ShippingCents = flatShippingFeeCents
	}
	b.TaxCents = (b.ItemsCents*taxPermyriad + 5000) / 10000
	b.TotalCents = b.ItemsCents + b.ShippingCents + b.TaxCents
	return b
}
