package notionsync

import (
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"

	bq "github.com/dvloznov/stripe-recon/internal/bigquery"
)

func TestSyncKey(t *testing.T) {
	row := &bq.ProductRevenueRow{
		ProductID:   "prod_a",
		ReportMonth: civil.Date{Year: 2025, Month: time.March, Day: 1},
	}

	if got := SyncKey(row); got != "prod_a@2025-03" {
		t.Errorf("SyncKey = %q", got)
	}
}

func TestReportRowToProperties(t *testing.T) {
	row := &bq.ProductRevenueRow{
		ProductID:       "prod_a",
		ProductName:     "Pro Plan",
		ReportMonth:     civil.Date{Year: 2025, Month: time.July, Day: 1},
		Email:           bigquery.NullString{StringVal: "dev@example.com", Valid: true},
		Rate:            bigquery.NullFloat64{Float64: 0.2, Valid: true},
		Revenue:         1000,
		AdjustedFee:     -30,
		AdjustedRevenue: 970,
		NetPayout:       776,
	}

	props := ReportRowToProperties(row)

	title, ok := props["Product"].(notionapi.TitleProperty)
	if !ok || title.Title[0].Text.Content != "Pro Plan" {
		t.Errorf("Product property = %+v", props["Product"])
	}

	key, ok := props["Sync Key"].(notionapi.RichTextProperty)
	if !ok || key.RichText[0].Text.Content != "prod_a@2025-07" {
		t.Errorf("Sync Key property = %+v", props["Sync Key"])
	}

	revenue, ok := props["Revenue"].(notionapi.NumberProperty)
	if !ok || revenue.Number != 1000 {
		t.Errorf("Revenue property = %+v", props["Revenue"])
	}

	email, ok := props["Email"].(notionapi.EmailProperty)
	if !ok || email.Email != "dev@example.com" {
		t.Errorf("Email property = %+v", props["Email"])
	}
}

func TestReportRowToProperties_OptionalFieldsOmitted(t *testing.T) {
	row := &bq.ProductRevenueRow{
		ProductID:   "prod_b",
		ProductName: "Basic",
		ReportMonth: civil.Date{Year: 2025, Month: time.July, Day: 1},
	}

	props := ReportRowToProperties(row)

	if _, ok := props["Email"]; ok {
		t.Error("Email property must be absent when NULL")
	}
	if _, ok := props["Rate"]; ok {
		t.Error("Rate property must be absent when NULL")
	}
}
