package main

import (
	"context"
	"log"
	"net/http"

	"airquiz/api"
	"airquiz/checkpoint"
	"airquiz/common"
	"airquiz/config"
	"airquiz/destination"
	"airquiz/events"
	"airquiz/importer"
	"airquiz/rehost"
	"airquiz/source"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.ValidateSource(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ic, cleanup, err := buildImportController(cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	defer cleanup()

	addr := ":" + cfg.Port
	r := api.NewRouter(ic)
	log.Printf("Starting import API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/import/run")
	log.Println("  GET  /api/import/checkpoint")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildImportController constructs every pipeline client once and wires the
// orchestrator. Optional integrations log and stay disabled when not
// configured.
func buildImportController(cfg *config.Config) (*api.ImportController, func(), error) {
	ctx := context.Background()

	srcClient, err := source.NewClient(source.ClientConfig{
		BaseURL: cfg.SourceBaseURL,
		Token:   cfg.SourceToken,
	})
	if err != nil {
		return nil, nil, err
	}

	props := source.DefaultPropertyMap()
	if cfg.MappingFile != "" {
		props, err = source.LoadPropertyMap(cfg.MappingFile)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Loaded property mapping overrides from %s", cfg.MappingFile)
	}

	var store rehost.ObjectStore
	if cfg.S3Bucket != "" {
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
	} else {
		log.Printf("S3 not configured; image rehosting in dev-stub mode")
	}
	rehoster := rehost.New(store, rehost.Config{Bucket: cfg.S3Bucket, KeyPrefix: cfg.S3Prefix})

	orc := &importer.Orchestrator{
		Source:   srcClient,
		Mapper:   importer.NewMapper(props),
		Rehoster: rehoster,
	}

	liveRuns := false
	if err := cfg.ValidateDestination(); err == nil {
		dest, err := destination.NewClient(destination.Config{
			BaseURL:    cfg.DestURL,
			ServiceKey: cfg.DestServiceKey,
		})
		if err != nil {
			return nil, nil, err
		}
		orc.Destination = dest
		liveRuns = true
	} else {
		log.Printf("Destination not configured; only dry runs available (%v)", err)
	}

	cleanup := func() {}

	var checkpoints *checkpoint.Store
	if cfg.RedisAddr != "" {
		checkpoints, err = checkpoint.NewStore(checkpoint.StoreConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: checkpoint store disabled: %v", err)
		} else {
			orc.Checkpoints = checkpoints
			prev := cleanup
			cleanup = func() { checkpoints.Close(); prev() }
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewPublisher(events.PublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Printf("Warning: import events disabled: %v", err)
		} else {
			orc.Events = publisher
			prev := cleanup
			cleanup = func() { publisher.Close(); prev() }
		}
	}

	ic := &api.ImportController{
		Orchestrator:      orc,
		Checkpoints:       checkpoints,
		DefaultCollection: cfg.SourceCollection,
		LiveRunsEnabled:   liveRuns,
	}
	return ic, cleanup, nil
}
