// Package bigquery is the BigQuery-backed implementation of the report
// repository. It holds a shared client to avoid creating a new connection
// for each operation.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	bq "github.com/dvloznov/stripe-recon/internal/bigquery"
)

const reportTable = "product_revenue"

// Re-export the shared interface so callers can depend on this package
// alone.
type ReportRepository = bq.ReportRepository

// ReportStore is the concrete ReportRepository backed by BigQuery.
type ReportStore struct {
	client  *bigquery.Client
	dataset string
}

// NewReportStore creates a ReportStore with its own BigQuery client.
func NewReportStore(ctx context.Context, projectID, dataset string) (*ReportStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("NewReportStore: project ID is required")
	}
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewReportStore: creating client: %w", err)
	}
	return &ReportStore{client: client, dataset: dataset}, nil
}

// Close closes the BigQuery client connection.
func (s *ReportStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// InsertReportRows streams a batch of rows into the product_revenue table.
func (s *ReportStore) InsertReportRows(ctx context.Context, rows []*bq.ProductRevenueRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := s.client.Dataset(s.dataset).Table(reportTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertReportRows: inserting rows: %w", err)
	}
	return nil
}

// QueryReportRowsByMonth retrieves the rows of the latest run for the given
// month.
func (s *ReportStore) QueryReportRowsByMonth(ctx context.Context, month civil.Date) ([]*bq.ProductRevenueRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			run_id,
			report_month,
			product_id,
			product_name,
			email,
			rate,
			revenue,
			adjusted_fee,
			adjusted_revenue,
			net_payout,
			created_ts,
			extra
		FROM `+"`%s.%s`"+`
		WHERE report_month = @report_month
		AND run_id = (
			SELECT run_id FROM `+"`%s.%s`"+`
			WHERE report_month = @report_month
			ORDER BY created_ts DESC
			LIMIT 1
		)
		ORDER BY created_ts, product_id
	`, s.dataset, reportTable, s.dataset, reportTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "report_month", Value: month},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryReportRowsByMonth: reading query: %w", err)
	}

	var rows []*bq.ProductRevenueRow
	for {
		var row bq.ProductRevenueRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryReportRowsByMonth: iterating rows: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
