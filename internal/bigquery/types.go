package bigquery

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// ProductRevenueRow is one product's reconciled month in the
// revenue.product_revenue table. Monetary columns are in major currency
// units, matching the rendered report.
type ProductRevenueRow struct {
	RunID string `bigquery:"run_id"` // REQUIRED

	ReportMonth civil.Date `bigquery:"report_month"` // first day of the month

	ProductID   string               `bigquery:"product_id"`   // REQUIRED
	ProductName string               `bigquery:"product_name"` // REQUIRED
	Email       bigquery.NullString  `bigquery:"email"`        // NULLABLE
	Rate        bigquery.NullFloat64 `bigquery:"rate"`         // NULLABLE, fraction

	Revenue         float64 `bigquery:"revenue"`
	AdjustedFee     float64 `bigquery:"adjusted_fee"`
	AdjustedRevenue float64 `bigquery:"adjusted_revenue"`
	NetPayout       float64 `bigquery:"net_payout"`

	CreatedTS time.Time         `bigquery:"created_ts"`
	Extra     bigquery.NullJSON `bigquery:"extra"` // NULLABLE JSON
}

// ReportRepository provides an interface for report persistence. This
// enables mocking in the sync layer tests.
type ReportRepository interface {
	// InsertReportRows inserts a batch of ProductRevenueRow.
	InsertReportRows(ctx context.Context, rows []*ProductRevenueRow) error

	// QueryReportRowsByMonth retrieves the rows for one reporting month,
	// most recent run only.
	QueryReportRowsByMonth(ctx context.Context, month civil.Date) ([]*ProductRevenueRow, error)
}
