package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"airquiz/checkpoint"
	"airquiz/common"
	"airquiz/config"
	"airquiz/destination"
	"airquiz/importer"
	"airquiz/rehost"
	"airquiz/source"
	"airquiz/types"

	"github.com/joho/godotenv"
)

func main() {
	var dryRun bool
	var limit int
	var cursor string
	var resume bool
	var collection string

	flag.BoolVar(&dryRun, "dry-run", true, "Preview only: no image uploads, no destination writes.")
	flag.IntVar(&limit, "limit", importer.DefaultRunLimit, "Maximum records to process this run (1-200).")
	flag.StringVar(&cursor, "cursor", "", "Source cursor to start from (from a previous run's next_cursor).")
	flag.BoolVar(&resume, "resume", false, "Resume from the checkpointed cursor (requires REDIS_ADDR).")
	flag.StringVar(&collection, "collection", "", "Source collection id (overrides SOURCE_COLLECTION_ID).")
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.Println("=== Question Import ===")

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.ValidateSource(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if !dryRun {
		if err := cfg.ValidateDestination(); err != nil {
			log.Fatalf("configuration error: %v", err)
		}
	}
	if collection == "" {
		collection = cfg.SourceCollection
	}

	ctx := context.Background()
	orc, checkpoints := buildOrchestrator(ctx, cfg, dryRun)

	if resume {
		if checkpoints == nil {
			log.Fatalf("-resume requires a configured checkpoint store (REDIS_ADDR)")
		}
		saved, err := checkpoints.Load(ctx, collection)
		if err != nil {
			log.Fatalf("failed to load checkpoint: %v", err)
		}
		if saved == "" {
			log.Println("No checkpoint found; starting from the beginning")
		} else {
			cursor = saved
			log.Printf("Resuming from checkpointed cursor")
		}
	}

	if dryRun {
		log.Println("Mode: dry run (no side effects)")
	} else {
		log.Println("Mode: live import")
	}

	report, err := orc.Run(ctx, importer.RunOptions{
		CollectionID: collection,
		DryRun:       dryRun,
		Limit:        limit,
		StartCursor:  cursor,
	})
	if err != nil {
		log.Fatalf("import run failed: %v", err)
	}

	displayReport(report)
	log.Println("=== Import Run Complete ===")
}

// buildOrchestrator wires the pipeline clients from config. The destination
// client is only built for live runs; dry runs never touch it.
func buildOrchestrator(ctx context.Context, cfg *config.Config, dryRun bool) (*importer.Orchestrator, *checkpoint.Store) {
	srcClient, err := source.NewClient(source.ClientConfig{
		BaseURL: cfg.SourceBaseURL,
		Token:   cfg.SourceToken,
	})
	if err != nil {
		log.Fatalf("failed to create source client: %v", err)
	}

	props := source.DefaultPropertyMap()
	if cfg.MappingFile != "" {
		props, err = source.LoadPropertyMap(cfg.MappingFile)
		if err != nil {
			log.Fatalf("failed to load property mapping: %v", err)
		}
	}

	var store rehost.ObjectStore
	if !dryRun && cfg.S3Bucket != "" {
		s3c, err := common.NewS3(ctx, common.S3Config{
			Region:        cfg.S3Region,
			Profile:       cfg.S3Profile,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.Printf("Warning: failed to init S3 client: %v (rehosting in dev-stub mode)", err)
		} else {
			store = s3c
		}
	}

	orc := &importer.Orchestrator{
		Source:   srcClient,
		Mapper:   importer.NewMapper(props),
		Rehoster: rehost.New(store, rehost.Config{Bucket: cfg.S3Bucket, KeyPrefix: cfg.S3Prefix}),
	}

	if !dryRun {
		dest, err := destination.NewClient(destination.Config{
			BaseURL:    cfg.DestURL,
			ServiceKey: cfg.DestServiceKey,
		})
		if err != nil {
			log.Fatalf("failed to create destination client: %v", err)
		}
		orc.Destination = dest
	}

	var checkpoints *checkpoint.Store
	if cfg.RedisAddr != "" {
		checkpoints, err = checkpoint.NewStore(checkpoint.StoreConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: checkpoint store disabled: %v", err)
			checkpoints = nil
		} else {
			orc.Checkpoints = checkpoints
		}
	}

	return orc, checkpoints
}

func displayReport(report *types.RunReport) {
	for _, row := range report.Rows {
		switch row.Status {
		case types.RowStatusImported:
			log.Printf("  [%d] IMPORTED %s - %s", row.RowIndex, row.SourceID, row.TitlePreview)
		case types.RowStatusOK:
			log.Printf("  [%d] OK       %s - %s", row.RowIndex, row.SourceID, row.TitlePreview)
		case types.RowStatusNeedsReview:
			log.Printf("  [%d] REVIEW   %s - %s (categories: %s)",
				row.RowIndex, row.SourceID, row.TitlePreview, strings.Join(row.SuggestedCategorySlugs, ", "))
		case types.RowStatusError:
			log.Printf("  [%d] ERROR    %s - %s", row.RowIndex, row.SourceID, strings.Join(row.Errors, "; "))
		}
	}

	// Print summary to stderr
	log.Println("\n=== Import Summary ===")
	log.Printf("Total Records:   %d", report.Summary.Total)
	log.Printf("Valid Records:   %d", report.Summary.Valid)
	log.Printf("Errors:          %d", report.Summary.Errors)
	log.Printf("Needs Review:    %d", report.Summary.NeedsReview)
	if report.NextCursor != "" {
		log.Printf("Next Cursor:     %s", report.NextCursor)
	}
	log.Println("======================")
}
