package recon

import (
	"math"
	"testing"

	"github.com/dvloznov/stripe-recon/internal/processor"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAllocate_ProportionalAndConserving(t *testing.T) {
	entries := []Entry{
		{Product: processor.Product{ID: "prod_a", Name: "A"}, Net: 300},
		{Product: processor.Product{ID: "prod_b", Name: "B"}, Net: 700},
		{Product: processor.Product{ID: "stripe_fee", Name: "stripe_fee"}, Net: 100},
	}

	alloc, err := Allocate(entries)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if alloc.TotalRevenue != 1000 {
		t.Errorf("TotalRevenue = %d, want 1000", alloc.TotalRevenue)
	}
	if alloc.Fee != 100 {
		t.Errorf("Fee = %d, want 100", alloc.Fee)
	}
	if len(alloc.Products) != 2 {
		t.Fatalf("got %d products, want 2", len(alloc.Products))
	}

	a, b := alloc.Products[0], alloc.Products[1]
	if !almostEqual(a.AdjustedFee, 30) || !almostEqual(b.AdjustedFee, 70) {
		t.Errorf("adjusted fees = %v, %v, want 30, 70", a.AdjustedFee, b.AdjustedFee)
	}
	if !almostEqual(a.AdjustedFee+b.AdjustedFee, float64(alloc.Fee)) {
		t.Errorf("fee not conserved: %v", a.AdjustedFee+b.AdjustedFee)
	}
	if !almostEqual(a.AdjustedRevenue, 330) || !almostEqual(b.AdjustedRevenue, 770) {
		t.Errorf("adjusted revenues = %v, %v, want 330, 770", a.AdjustedRevenue, b.AdjustedRevenue)
	}
}

func TestAllocate_NetPayoutWithRate(t *testing.T) {
	entries := []Entry{
		{Product: processor.Product{
			ID:       "prod_a",
			Name:     "A",
			Metadata: map[string]string{"rate": "0.2", "email": "a@example.com"},
		}, Net: 1000},
	}

	alloc, err := Allocate(entries)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	p := alloc.Products[0]
	if !almostEqual(p.NetPayout, 800) {
		t.Errorf("NetPayout = %v, want 800", p.NetPayout)
	}
	if p.Email != "a@example.com" {
		t.Errorf("Email = %q", p.Email)
	}
	if !almostEqual(p.Rate, 0.2) {
		t.Errorf("Rate = %v, want 0.2", p.Rate)
	}
}

func TestAllocate_NoRateMeansFullPayout(t *testing.T) {
	entries := []Entry{
		{Product: processor.Product{ID: "prod_a", Name: "A"}, Net: 500},
	}

	alloc, err := Allocate(entries)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if !almostEqual(alloc.Products[0].NetPayout, 500) {
		t.Errorf("NetPayout = %v, want 500", alloc.Products[0].NetPayout)
	}
}

func TestAllocate_ZeroRevenueMonth(t *testing.T) {
	entries := []Entry{
		{Product: processor.Product{ID: "stripe_fee", Name: "stripe_fee"}, Net: -250},
	}

	alloc, err := Allocate(entries)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(alloc.Products) != 0 {
		t.Errorf("expected no products, got %+v", alloc.Products)
	}
	if alloc.Fee != -250 {
		t.Errorf("Fee = %d, want -250", alloc.Fee)
	}
}

func TestAllocate_ReservesExcluded(t *testing.T) {
	entries := []Entry{
		{Product: processor.Product{ID: "payout_minimum_balance_hold", Name: "payout_minimum_balance_hold"}, Net: -100},
		{Product: processor.Product{ID: "payout_minimum_balance_release", Name: "payout_minimum_balance_release"}, Net: 100},
		{Product: processor.Product{ID: "prod_a", Name: "A"}, Net: 400},
		{Product: processor.Product{ID: "stripe_fee", Name: "stripe_fee"}, Net: -40},
	}

	alloc, err := Allocate(entries)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if len(alloc.Reserves) != 2 {
		t.Errorf("got %d reserves, want 2", len(alloc.Reserves))
	}
	if alloc.TotalRevenue != 400 {
		t.Errorf("TotalRevenue = %d, want 400 (reserves must not count)", alloc.TotalRevenue)
	}
	p := alloc.Products[0]
	if !almostEqual(p.AdjustedFee, -40) {
		t.Errorf("AdjustedFee = %v, want -40", p.AdjustedFee)
	}
	if !almostEqual(p.AdjustedRevenue, 360) {
		t.Errorf("AdjustedRevenue = %v, want 360", p.AdjustedRevenue)
	}
}

func TestAllocate_InvalidRate(t *testing.T) {
	entries := []Entry{
		{Product: processor.Product{
			ID:       "prod_a",
			Name:     "A",
			Metadata: map[string]string{"rate": "not-a-number"},
		}, Net: 100},
	}

	if _, err := Allocate(entries); err == nil {
		t.Error("expected error for malformed rate metadata")
	}
}
