package domain

import "testing"

func TestDeriveOrderStatus(t *testing.T) {
	cases := []struct {
		name         string
		hasReserved  bool
		hasBackorder bool
		want         string
	}{
		{"fully reserved", true, false, OrderStatusReserved},
		{"partially reserved", true, true, OrderStatusPartiallyReserved},
		{"fully backordered", false, true, OrderStatusBackordered},
		{"nothing ordered", false, false, OrderStatusReserved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveOrderStatus(tc.hasReserved, tc.hasBackorder)
			if got != tc.want {
				t.Errorf("DeriveOrderStatus(%v, %v) = %s, want %s", tc.hasReserved, tc.hasBackorder, got, tc.want)
			}
		})
	}
}

func TestStatusFromLines(t *testing.T) {
	cases := []struct {
		name  string
		lines []SalesOrderLine
		want  string
	}{
		{
			"all reserved",
			[]SalesOrderLine{{Quantity: 10, QtyReserved: 10}},
			OrderStatusReserved,
		},
		{
			"mixed lines",
			[]SalesOrderLine{
				{Quantity: 10, QtyReserved: 10},
				{Quantity: 5, QtyBackordered: 5},
			},
			OrderStatusPartiallyReserved,
		},
		{
			"single split line",
			[]SalesOrderLine{{Quantity: 10, QtyReserved: 4, QtyBackordered: 6}},
			OrderStatusPartiallyReserved,
		},
		{
			"all backordered",
			[]SalesOrderLine{{Quantity: 10, QtyBackordered: 10}},
			OrderStatusBackordered,
		},
		{
			"no lines",
			nil,
			OrderStatusReserved,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFromLines(tc.lines); got != tc.want {
				t.Errorf("StatusFromLines = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	allowed := map[string]bool{
		OrderStatusCreated:           true,
		OrderStatusReserved:          true,
		OrderStatusPartiallyReserved: true,
		OrderStatusBackordered:       true,
		OrderStatusShipped:           false,
		OrderStatusDelivered:         false,
		OrderStatusCanceled:          false,
	}

	for status, want := range allowed {
		if got := CanCancel(status); got != want {
			t.Errorf("CanCancel(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestCanShip(t *testing.T) {
	allowed := map[string]bool{
		OrderStatusCreated:           false,
		OrderStatusReserved:          true,
		OrderStatusPartiallyReserved: true,
		OrderStatusBackordered:       false,
		OrderStatusShipped:           false,
		OrderStatusDelivered:         false,
		OrderStatusCanceled:          false,
	}

	for status, want := range allowed {
		if got := CanShip(status); got != want {
			t.Errorf("CanShip(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{OrderStatusCanceled, OrderStatusDelivered} {
		if !IsTerminal(status) {
			t.Errorf("IsTerminal(%s) = false, want true", status)
		}
	}
	for _, status := range []string{OrderStatusCreated, OrderStatusReserved, OrderStatusPartiallyReserved, OrderStatusBackordered, OrderStatusShipped} {
		if IsTerminal(status) {
			t.Errorf("IsTerminal(%s) = true, want false", status)
		}
	}
}
