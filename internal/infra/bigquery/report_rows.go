package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	bq "github.com/dvloznov/stripe-recon/internal/bigquery"
	"github.com/dvloznov/stripe-recon/internal/recon"
)

// RowsFromAllocation converts a reconciled month into insertable rows.
// Amounts are converted from minor to major units so the table matches the
// rendered report.
func RowsFromAllocation(runID string, year, month int, alloc recon.Allocation) []*bq.ProductRevenueRow {
	reportMonth := civil.Date{Year: year, Month: time.Month(month), Day: 1}
	now := time.Now().UTC()

	rows := make([]*bq.ProductRevenueRow, 0, len(alloc.Products))
	for _, p := range alloc.Products {
		row := &bq.ProductRevenueRow{
			RunID:           runID,
			ReportMonth:     reportMonth,
			ProductID:       p.ProductID,
			ProductName:     p.Name,
			Revenue:         float64(p.Revenue) / 100,
			AdjustedFee:     p.AdjustedFee / 100,
			AdjustedRevenue: p.AdjustedRevenue / 100,
			NetPayout:       p.NetPayout / 100,
			CreatedTS:       now,
			Extra:           bigquery.NullJSON{Valid: false},
		}
		if p.Email != "" {
			row.Email = bigquery.NullString{StringVal: p.Email, Valid: true}
		}
		if p.Rate != 0 {
			row.Rate = bigquery.NullFloat64{Float64: p.Rate, Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}
