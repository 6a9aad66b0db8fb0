package notionsync

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"

	bq "github.com/dvloznov/stripe-recon/internal/bigquery"
	"github.com/dvloznov/stripe-recon/internal/logger"
)

// SyncReport pushes one reporting month from BigQuery into a Notion
// database. Pages are keyed by the Sync Key property (product@month), so
// re-running updates pages in place instead of duplicating them.
func SyncReport(ctx context.Context, repo bq.ReportRepository, notion NotionService, notionDBID string, year, month int, dryRun bool) error {
	log := logger.FromContext(ctx)

	reportMonth := civil.Date{Year: year, Month: time.Month(month), Day: 1}
	rows, err := repo.QueryReportRowsByMonth(ctx, reportMonth)
	if err != nil {
		return fmt.Errorf("failed to query report rows: %w", err)
	}

	log.Info().
		Int("year", year).
		Int("month", month).
		Int("row_count", len(rows)).
		Bool("dry_run", dryRun).
		Msg("Starting report sync to Notion")

	existing, err := queryAllNotionPages(ctx, notion, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	// Map sync key -> page ID for the update path.
	pageIDs := make(map[string]string)
	for _, page := range existing {
		if key := extractSyncKey(page); key != "" {
			pageIDs[key] = page.ID.String()
		}
	}

	var created, updated int
	for _, row := range rows {
		key := SyncKey(row)
		props := ReportRowToProperties(row)

		if pageID, ok := pageIDs[key]; ok {
			if !dryRun {
				if _, err := notion.UpdatePage(ctx, pageID, props); err != nil {
					return fmt.Errorf("failed to update page for %s: %w", key, err)
				}
			}
			updated++
			continue
		}

		if !dryRun {
			if _, err := notion.CreatePage(ctx, notionDBID, props); err != nil {
				return fmt.Errorf("failed to create page for %s: %w", key, err)
			}
		}
		created++
	}

	log.Info().
		Int("created", created).
		Int("updated", updated).
		Msg("Report sync to Notion finished")
	return nil
}

// queryAllNotionPages retrieves every page in the database, following the
// pagination cursor.
func queryAllNotionPages(ctx context.Context, notion NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notion.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
