package domain

import "time"

// Cart holds one user's open line items. It is created lazily on first add
// and reused across sessions; clearing empties the items, never the row.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem snapshots name/image/price at the moment of add. The snapshot is
// deliberately never refreshed when the catalog price changes later.
type CartItem struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	Image      string    `json:"image,omitempty"`
	PriceCents int64     `json:"priceCents"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"addedAt"`
}

// CartView is the derived response shape: totals are computed, not stored.
type CartView struct {
	Items         []CartItem `json:"items"`
	ItemsCount    int        `json:"itemsCount"`
	SubtotalCents int64      `json:"subtotalCents"`
}

// View computes item count and subtotal. A nil cart yields an empty view.
func (c *Cart) View() CartView {
	view := CartView{Items: []CartItem{}}
	if c == nil {
		return view
	}
	for _, item := range c.Items {
		view.Items = append(view.Items, item)
		view.ItemsCount += item.Quantity
		view.SubtotalCents += item.PriceCents * int64(item.Quantity)
	}
	return view
}
