package calculator

import (
	"math"
	"testing"

	"github.com/splittab/splittab/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSharesEqualSplit(t *testing.T) {
	bill := &models.Bill{
		Contents: []models.OrderItem{
			{ID: "i1", Name: "Pizza", Price: 10, Quantity: 2, AssignedTo: []string{"u1", "u2"}},
			{ID: "i2", Name: "Beer", Price: 5, Quantity: 1, AssignedTo: []string{"u2"}},
		},
	}

	shares, unassigned := Shares(bill)

	if unassigned != 0 {
		t.Errorf("unassigned: expected 0, got %f", unassigned)
	}
	if !almostEqual(shares["u1"].Total, 10) {
		t.Errorf("u1 total: expected 10, got %f", shares["u1"].Total)
	}
	if !almostEqual(shares["u2"].Total, 15) {
		t.Errorf("u2 total: expected 15, got %f", shares["u2"].Total)
	}
	if len(shares["u2"].Items) != 2 {
		t.Errorf("u2 items: expected 2, got %d", len(shares["u2"].Items))
	}
}

func TestSharesUnassignedItems(t *testing.T) {
	bill := &models.Bill{
		Contents: []models.OrderItem{
			{ID: "i1", Name: "Steak", Price: 30, Quantity: 1},
			{ID: "i2", Name: "Salad", Price: 8, Quantity: 1, AssignedTo: []string{"u1"}},
		},
	}

	shares, unassigned := Shares(bill)

	if !almostEqual(unassigned, 30) {
		t.Errorf("unassigned: expected 30, got %f", unassigned)
	}
	if len(shares) != 1 {
		t.Fatalf("expected 1 member share, got %d", len(shares))
	}
	if !almostEqual(shares["u1"].Total, 8) {
		t.Errorf("u1 total: expected 8, got %f", shares["u1"].Total)
	}
}

func TestSharesThreeWay(t *testing.T) {
	bill := &models.Bill{
		Contents: []models.OrderItem{
			{ID: "i1", Name: "Platter", Price: 10, Quantity: 3, AssignedTo: []string{"a", "b", "c"}},
		},
	}

	shares, _ := Shares(bill)

	for _, id := range []string{"a", "b", "c"} {
		if !almostEqual(shares[id].Total, 10) {
			t.Errorf("%s total: expected 10, got %f", id, shares[id].Total)
		}
		if shares[id].Items[0].SplitWith != 3 {
			t.Errorf("%s split_with: expected 3, got %d", id, shares[id].Items[0].SplitWith)
		}
	}
}

func TestSharesEmptyBill(t *testing.T) {
	shares, unassigned := Shares(&models.Bill{})
	if len(shares) != 0 || unassigned != 0 {
		t.Errorf("expected empty result, got %d shares, %f unassigned", len(shares), unassigned)
	}
}
