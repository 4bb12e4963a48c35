package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:              "order-1",
		OrderNumber:     "ORD-1-abc",
		CustomerID:      "customer-1",
		CustomerEmail:   "customer@example.com",
		ShippingAddress: "Main St 1",
		Status:          domain.OrderStatusPending,
		TotalMinor:      500,
		Items: []domain.OrderItem{
			{
				ID:            "item-1",
				ProductID:     "product-1",
				ProductName:   "Widget",
				Qty:           5,
				PriceMinor:    100,
				SubtotalMinor: 500,
				CreatedAt:     now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNewOrder_ComputesTotals(t *testing.T) {
	now := time.Now().UTC()
	inputs := []domain.NewItemInput{
		{ProductID: "p1", ProductName: "Widget", Qty: 2, PriceMinor: 5000},
		{ProductID: "p2", ProductName: "Gadget", Qty: 1, PriceMinor: 5000},
	}

	order, err := domain.NewOrder("ORD-1-abc", "customer-1", "c@example.com", "Main St 1", inputs, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected status PENDING, got %s", order.Status)
	}
	if order.TotalMinor != 15000 {
		t.Fatalf("expected total 15000, got %d", order.TotalMinor)
	}
	if order.Items[0].SubtotalMinor != 10000 {
		t.Fatalf("expected subtotal 10000, got %d", order.Items[0].SubtotalMinor)
	}
	if order.Items[1].SubtotalMinor != 5000 {
		t.Fatalf("expected subtotal 5000, got %d", order.Items[1].SubtotalMinor)
	}
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestNewOrder_Rejections(t *testing.T) {
	now := time.Now().UTC()
	validItems := []domain.NewItemInput{{ProductID: "p1", Qty: 1, PriceMinor: 100}}

	cases := []struct {
		name    string
		cust    string
		email   string
		items   []domain.NewItemInput
		wantErr error
	}{
		{name: "no customer", cust: "", email: "c@x", items: validItems, wantErr: domain.ErrCustomerRequired},
		{name: "no email", cust: "c1", email: "", items: validItems, wantErr: domain.ErrCustomerEmailRequired},
		{name: "no items", cust: "c1", email: "c@x", items: nil, wantErr: domain.ErrItemsRequired},
		{
			name: "zero qty", cust: "c1", email: "c@x",
			items:   []domain.NewItemInput{{ProductID: "p1", Qty: 0, PriceMinor: 100}},
			wantErr: domain.ErrItemQtyInvalid,
		},
		{
			name: "non-positive price", cust: "c1", email: "c@x",
			items:   []domain.NewItemInput{{ProductID: "p1", Qty: 1, PriceMinor: 0}},
			wantErr: domain.ErrItemPriceInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewOrder("ORD-1-abc", tc.cust, tc.email, "addr", tc.items, now)
			if err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no customer",
			mut: func(o *domain.Order) {
				o.CustomerID = ""
			},
		},
		{
			name: "no order number",
			mut: func(o *domain.Order) {
				o.OrderNumber = ""
			},
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
				o.TotalMinor = 0
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Qty = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].PriceMinor = -5
			},
		},
		{
			name: "subtotal mismatch",
			mut: func(o *domain.Order) {
				o.Items[0].SubtotalMinor = 1
				o.TotalMinor = 1
			},
		},
		{
			name: "total mismatch",
			mut: func(o *domain.Order) {
				o.TotalMinor = 999
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)
			if errs := order.ValidateInvariants(); len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "CONFIRMED", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		if string(status) != raw {
			t.Fatalf("expected %s, got %s", raw, status)
		}
	}

	if _, err := domain.ParseStatus("REFUNDED"); err != domain.ErrUnknownStatus {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
	if _, err := domain.ParseStatus("pending"); err != domain.ErrUnknownStatus {
		t.Fatalf("lowercase must not parse, got %v", err)
	}
}

func TestIsTerminalForCancel(t *testing.T) {
	terminal := map[domain.OrderStatus]bool{
		domain.OrderStatusPending:    false,
		domain.OrderStatusConfirmed:  false,
		domain.OrderStatusProcessing: false,
		domain.OrderStatusShipped:    true,
		domain.OrderStatusDelivered:  true,
		domain.OrderStatusCancelled:  false,
	}
	for status, want := range terminal {
		if got := status.IsTerminalForCancel(); got != want {
			t.Fatalf("%s: expected %v, got %v", status, want, got)
		}
	}
}
