package domain

import "testing"

func TestCartView_Totals(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "p1", PriceCents: 1299, Quantity: 2},
		{ProductID: "p2", PriceCents: 500, Quantity: 3},
	}}
	view := cart.View()
	if view.ItemsCount != 5 {
		t.Fatalf("expected 5 items, got %d", view.ItemsCount)
	}
	if view.SubtotalCents != 4098 {
		t.Fatalf("expected subtotal 4098, got %d", view.SubtotalCents)
	}
}

func TestCartView_NilCart(t *testing.T) {
	view := (*Cart)(nil).View()
	if view.Items == nil || len(view.Items) != 0 || view.ItemsCount != 0 {
		t.Fatalf("nil cart should produce an empty view, got %+v", view)
	}
}
