package notionsync

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"

	bq "github.com/dvloznov/stripe-recon/internal/bigquery"
)

// mockRepo serves canned report rows.
type mockRepo struct {
	rows []*bq.ProductRevenueRow
}

func (m *mockRepo) InsertReportRows(ctx context.Context, rows []*bq.ProductRevenueRow) error {
	return nil
}

func (m *mockRepo) QueryReportRowsByMonth(ctx context.Context, month civil.Date) ([]*bq.ProductRevenueRow, error) {
	return m.rows, nil
}

// mockNotion records create/update calls and serves existing pages.
type mockNotion struct {
	pages   []notionapi.Page
	created []notionapi.Properties
	updated map[string]notionapi.Properties
}

func newMockNotion() *mockNotion {
	return &mockNotion{updated: make(map[string]notionapi.Properties)}
}

func (m *mockNotion) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	m.created = append(m.created, properties)
	return &notionapi.Page{}, nil
}

func (m *mockNotion) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	m.updated[pageID] = properties
	return &notionapi.Page{}, nil
}

func (m *mockNotion) QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{Results: m.pages}, nil
}

func sampleRow(productID, name string) *bq.ProductRevenueRow {
	return &bq.ProductRevenueRow{
		RunID:       "run-1",
		ReportMonth: civil.Date{Year: 2025, Month: time.July, Day: 1},
		ProductID:   productID,
		ProductName: name,
		Revenue:     1000,
	}
}

func existingPage(syncKey string, pageID string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(pageID),
		Properties: notionapi.Properties{
			"Sync Key": &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: syncKey}},
			},
		},
	}
}

func TestSyncReport_CreatesNewPages(t *testing.T) {
	repo := &mockRepo{rows: []*bq.ProductRevenueRow{sampleRow("prod_a", "Pro Plan")}}
	notion := newMockNotion()

	if err := SyncReport(context.Background(), repo, notion, "db-1", 2025, 7, false); err != nil {
		t.Fatalf("SyncReport failed: %v", err)
	}

	if len(notion.created) != 1 {
		t.Fatalf("created %d pages, want 1", len(notion.created))
	}
	if len(notion.updated) != 0 {
		t.Errorf("updated %d pages, want 0", len(notion.updated))
	}
}

func TestSyncReport_UpdatesExistingPage(t *testing.T) {
	repo := &mockRepo{rows: []*bq.ProductRevenueRow{sampleRow("prod_a", "Pro Plan")}}
	notion := newMockNotion()
	notion.pages = []notionapi.Page{existingPage("prod_a@2025-07", "page-1")}

	if err := SyncReport(context.Background(), repo, notion, "db-1", 2025, 7, false); err != nil {
		t.Fatalf("SyncReport failed: %v", err)
	}

	if len(notion.created) != 0 {
		t.Errorf("created %d pages, want 0", len(notion.created))
	}
	if _, ok := notion.updated["page-1"]; !ok {
		t.Errorf("expected page-1 to be updated, got %v", notion.updated)
	}
}

func TestSyncReport_DryRunWritesNothing(t *testing.T) {
	repo := &mockRepo{rows: []*bq.ProductRevenueRow{
		sampleRow("prod_a", "Pro Plan"),
		sampleRow("prod_b", "Basic"),
	}}
	notion := newMockNotion()

	if err := SyncReport(context.Background(), repo, notion, "db-1", 2025, 7, true); err != nil {
		t.Fatalf("SyncReport failed: %v", err)
	}

	if len(notion.created) != 0 || len(notion.updated) != 0 {
		t.Errorf("dry run must not write: created=%d updated=%d", len(notion.created), len(notion.updated))
	}
}
