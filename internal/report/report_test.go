package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/stripe-recon/internal/recon"
)

func sampleAllocation() recon.Allocation {
	return recon.Allocation{
		Products: []recon.ProductPayout{
			{
				ProductID:       "prod_a",
				Name:            "Pro Plan",
				Email:           "dev@example.com",
				Rate:            0.2,
				Revenue:         100000,
				AdjustedFee:     -3000,
				AdjustedRevenue: 97000,
				NetPayout:       77600,
			},
		},
		Fee:          -3000,
		TotalRevenue: 100000,
	}
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2025, 12)

	if !from.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if !to.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v (must roll into the next year)", to)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(2025, 3); got != "revenue-2025-03.csv" {
		t.Errorf("Filename = %q", got)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, sampleAllocation())

	out := buf.String()
	for _, want := range []string{"Pro Plan", "1000.00", "-30.00", "970.00", "dev@example.com", "20.0", "776.00", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteCSV(dir, 2025, 7, sampleAllocation())
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if filepath.Base(path) != "revenue-2025-07.csv" {
		t.Errorf("path = %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written report: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse written report: %v", err)
	}

	// Header, one product, Total.
	if len(records) != 3 {
		t.Fatalf("got %d rows, want 3", len(records))
	}
	if records[1][0] != "Pro Plan" || records[1][6] != "776.00" {
		t.Errorf("product row = %v", records[1])
	}
	if records[2][0] != "Total" {
		t.Errorf("last row = %v, want Total", records[2])
	}
}
