package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/stripe-recon/internal/cache"
	"github.com/dvloznov/stripe-recon/internal/config"
	"github.com/dvloznov/stripe-recon/internal/gcsuploader"
	infraBQ "github.com/dvloznov/stripe-recon/internal/infra/bigquery"
	"github.com/dvloznov/stripe-recon/internal/logger"
	"github.com/dvloznov/stripe-recon/internal/notionsync"
	"github.com/dvloznov/stripe-recon/internal/recon"
	"github.com/dvloznov/stripe-recon/internal/report"
	"github.com/dvloznov/stripe-recon/internal/resolver"
	"github.com/dvloznov/stripe-recon/internal/stripeapi"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "report":
		runReport(log)
	case "sync-notion":
		runSyncNotion(log)
	case "upload":
		runUpload(log)
	case "inspect":
		runInspect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Stripe Revenue Reconciliation CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  report       Reconcile a month's payouts and produce the revenue report")
	fmt.Println("  sync-notion  Push a month's report rows from BigQuery to Notion")
	fmt.Println("  upload       Upload a report CSV to GCS")
	fmt.Println("  inspect      Inspect the record cache")
	fmt.Println("  help         Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runReport(log zerolog.Logger) {
	now := time.Now()
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "Reporting year")
	month := fs.Int("month", int(now.Month()), "Reporting month (1-12)")
	export := fs.Bool("export", false, "Also insert the report rows into BigQuery")
	fs.Parse(os.Args[2:])

	if *month < 1 || *month > 12 {
		log.Fatal().Int("month", *month).Msg("Error: --month must be between 1 and 12")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record cache")
	}
	defer store.Close()

	from, to := report.MonthWindow(*year, *month)
	log.Info().
		Int("year", *year).
		Int("month", *month).
		Time("from", from).
		Time("to", to).
		Msg("Starting reconciliation")

	source := stripeapi.New(cfg.StripeKey)
	engine := recon.NewEngine(source, resolver.New(store, source))

	ledger, err := engine.Run(ctx, from, to)
	if err != nil {
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	alloc, err := recon.Allocate(ledger.Entries())
	if err != nil {
		log.Fatal().Err(err).Msg("Fee allocation failed")
	}

	report.Render(os.Stdout, alloc)

	path, err := report.WriteCSV(cfg.ReportDir, *year, *month, alloc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write report file")
	}
	log.Info().Str("path", path).Msg("Report written")

	if *export {
		exportReport(ctx, log, cfg, *year, *month, alloc)
	}
}

func exportReport(ctx context.Context, log zerolog.Logger, cfg config.Config, year, month int, alloc recon.Allocation) {
	if cfg.GCPProject == "" {
		log.Fatal().Msg("Error: GCP_PROJECT is required for --export")
	}

	repo, err := infraBQ.NewReportStore(ctx, cfg.GCPProject, cfg.BQDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create report store")
	}
	defer repo.Close()

	runID := uuid.NewString()
	rows := infraBQ.RowsFromAllocation(runID, year, month, alloc)
	if err := repo.InsertReportRows(ctx, rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to export report rows")
	}

	log.Info().
		Str("run_id", runID).
		Int("rows", len(rows)).
		Msg("Report exported to BigQuery")
}

func runSyncNotion(log zerolog.Logger) {
	now := time.Now()
	fs := flag.NewFlagSet("sync-notion", flag.ExitOnError)
	year := fs.Int("year", now.Year(), "Reporting year")
	month := fs.Int("month", int(now.Month()), "Reporting month (1-12)")
	dryRun := fs.Bool("dry-run", false, "Log what would change without writing to Notion")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.GCPProject == "" || cfg.NotionToken == "" || cfg.NotionRevenueDB == "" {
		log.Fatal().Msg("Error: GCP_PROJECT, NOTION_TOKEN and NOTION_REVENUE_DB are required for sync-notion")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewReportStore(ctx, cfg.GCPProject, cfg.BQDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create report store")
	}
	defer repo.Close()

	notion := notionsync.NewNotionClient(cfg.NotionToken)
	if err := notionsync.SyncReport(ctx, repo, notion, cfg.NotionRevenueDB, *year, *month, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Notion sync failed")
	}

	fmt.Println("Notion sync completed successfully.")
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name (defaults to GCS_BUCKET)")
	filePath := fs.String("file", "", "Path to the report CSV")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *bucketName == "" {
		*bucketName = cfg.GCSBucket
	}
	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	objectName := gcsuploader.ReportObjectName(*filePath)

	ctx := logger.WithContext(context.Background(), log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", objectName).
		Str("file", *filePath).
		Msg("Uploading report to GCS")

	if err := gcsuploader.UploadFile(ctx, *bucketName, objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, objectName)
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	recordID := fs.String("id", "", "Print the cached record with this ID")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record cache")
	}
	defer store.Close()

	n, err := store.Len()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count cache entries")
	}
	fmt.Printf("Cache %s: %d records\n", cfg.CachePath, n)

	if *recordID != "" {
		raw, ok, err := store.Get(*recordID)
		if err != nil {
			log.Fatal().Err(err).Msg("Cache lookup failed")
		}
		if !ok {
			fmt.Printf("Record %s: not cached\n", *recordID)
			return
		}
		fmt.Printf("Record %s: %s\n", *recordID, raw)
	}
}
