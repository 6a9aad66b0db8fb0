package notionsync

import (
	"fmt"

	"github.com/jomei/notionapi"

	bq "github.com/dvloznov/stripe-recon/internal/bigquery"
)

// SyncKey is the idempotency key stored on each Notion page: one page per
// product per reporting month, stable across re-runs.
func SyncKey(row *bq.ProductRevenueRow) string {
	return fmt.Sprintf("%s@%04d-%02d", row.ProductID, row.ReportMonth.Year, int(row.ReportMonth.Month))
}

// ReportRowToProperties converts a ProductRevenueRow to Notion properties
// for the revenue database.
func ReportRowToProperties(row *bq.ProductRevenueRow) notionapi.Properties {
	props := notionapi.Properties{
		"Product": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: row.ProductName},
				},
			},
		},
		"Sync Key": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: SyncKey(row)},
				},
			},
		},
		"Month": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: fmt.Sprintf("%04d-%02d", row.ReportMonth.Year, int(row.ReportMonth.Month))},
				},
			},
		},
		"Revenue":          notionapi.NumberProperty{Number: row.Revenue},
		"Adjusted Fee":     notionapi.NumberProperty{Number: row.AdjustedFee},
		"Adjusted Revenue": notionapi.NumberProperty{Number: row.AdjustedRevenue},
		"Net Payout":       notionapi.NumberProperty{Number: row.NetPayout},
	}

	if row.Email.Valid {
		props["Email"] = notionapi.EmailProperty{Email: row.Email.StringVal}
	}
	if row.Rate.Valid {
		props["Rate"] = notionapi.NumberProperty{Number: row.Rate.Float64}
	}

	return props
}

// extractSyncKey extracts the sync key from a Notion page's properties.
// Returns empty string if not found.
func extractSyncKey(page notionapi.Page) string {
	if prop, ok := page.Properties["Sync Key"]; ok {
		if richText, ok := prop.(*notionapi.RichTextProperty); ok {
			if len(richText.RichText) > 0 {
				return richText.RichText[0].PlainText
			}
		}
	}
	return ""
}
