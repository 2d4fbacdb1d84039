package domain

import "testing"

func TestAvailable(t *testing.T) {
	cases := []struct {
		name     string
		onHand   int
		reserved int
		want     int
	}{
		{"unreserved", 100, 0, 100},
		{"partially reserved", 100, 60, 40},
		{"fully reserved", 100, 100, 0},
		{"drifted negative", 10, 15, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := Inventory{QtyOnHand: tc.onHand, QtyReserved: tc.reserved}
			if got := inv.Available(); got != tc.want {
				t.Errorf("Available() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestReleaseClampsAtZero(t *testing.T) {
	inv := Inventory{QtyOnHand: 100, QtyReserved: 15}

	inv.Release(20)

	if inv.QtyReserved != 0 {
		t.Errorf("QtyReserved = %d, want 0", inv.QtyReserved)
	}
	if inv.QtyOnHand != 100 {
		t.Errorf("QtyOnHand = %d, want 100 (release must not touch on-hand)", inv.QtyOnHand)
	}
}

func TestDeductClamped(t *testing.T) {
	inv := Inventory{QtyOnHand: 10, QtyReserved: 5}

	inv.DeductClamped(8)

	if inv.QtyOnHand != 2 {
		t.Errorf("QtyOnHand = %d, want 2", inv.QtyOnHand)
	}
	if inv.QtyReserved != 0 {
		t.Errorf("QtyReserved = %d, want 0", inv.QtyReserved)
	}
}

func TestDeductStrict(t *testing.T) {
	inv := Inventory{QtyOnHand: 10, QtyReserved: 10}

	if !inv.DeductStrict(10) {
		t.Fatal("DeductStrict(10) = false, want true")
	}
	if inv.QtyOnHand != 0 || inv.QtyReserved != 0 {
		t.Errorf("after deduct: onHand=%d reserved=%d, want 0/0", inv.QtyOnHand, inv.QtyReserved)
	}
}

func TestDeductStrictInsufficient(t *testing.T) {
	inv := Inventory{QtyOnHand: 5, QtyReserved: 10}

	if inv.DeductStrict(8) {
		t.Fatal("DeductStrict(8) = true, want false")
	}
	if inv.QtyOnHand != 5 || inv.QtyReserved != 10 {
		t.Errorf("failed deduct mutated record: onHand=%d reserved=%d", inv.QtyOnHand, inv.QtyReserved)
	}
}
