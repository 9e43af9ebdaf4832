// cmd/tools/catalog-seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"scholarship-matcher/internal/catalog"
	"scholarship-matcher/internal/common/config"
	"scholarship-matcher/internal/common/database"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/models"
	"scholarship-matcher/pkg/catalogfile"

	"github.com/google/uuid"
)

const defaultFile = "data/scholarships.json"

func main() {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	indexCmd := flag.NewFlagSet("index", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	seedFile := seedCmd.String("file", "", "Catalog file to upsert into postgres (default: catalog.seed_file)")
	indexFile := indexCmd.String("file", "", "Catalog file to bulk index into elasticsearch (default: catalog.seed_file)")
	validateFile := validateCmd.String("file", defaultFile, "Catalog file to validate")
	exportFrom := exportCmd.String("from", config.SourcePostgres, "Source to export (postgres, elasticsearch, static)")
	exportOut := exportCmd.String("out", "", "Output file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		run(func(ctx context.Context, cfg *config.Config, log logger.Logger) error {
			return seed(ctx, cfg, log, pick(*seedFile, cfg))
		})

	case "index":
		indexCmd.Parse(os.Args[2:])
		run(func(ctx context.Context, cfg *config.Config, log logger.Logger) error {
			return index(ctx, cfg, log, pick(*indexFile, cfg))
		})

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validate(*validateFile); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}

	case "export":
		exportCmd.Parse(os.Args[2:])
		if *exportOut == "" {
			fmt.Println("Error: -out is required for export.")
			exportCmd.Usage()
			os.Exit(1)
		}
		run(func(ctx context.Context, cfg *config.Config, log logger.Logger) error {
			return export(ctx, cfg, log, *exportFrom, *exportOut)
		})

	case "help":
		fallthrough
	default:
		help()
	}
}

// run loads configuration, builds a logger tagged with a run id and executes fn.
func run(fn func(ctx context.Context, cfg *config.Config, log logger.Logger) error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.ForComponent(logger.NewZapAdapter(zapLog), "catalog-seeder").
		WithFields(map[string]interface{}{"runId": uuid.NewString()})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := fn(ctx, cfg, log); err != nil {
		log.Error("catalog seeder failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func pick(file string, cfg *config.Config) string {
	if file != "" {
		return file
	}
	if cfg.Catalog.SeedFile != "" {
		return cfg.Catalog.SeedFile
	}
	return defaultFile
}

func seed(ctx context.Context, cfg *config.Config, log logger.Logger, file string) error {
	items, err := catalogfile.LoadCatalog(file)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("postgres unreachable: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}

	n, err := catalog.NewPostgresSource(pg.GetDB(), 0, log).UpsertAll(ctx, items)
	if err != nil {
		return err
	}
	log.Info("catalog seeded", map[string]interface{}{"file": file, "upserted": n})

	invalidateCache(ctx, cfg, log)
	return nil
}

func index(ctx context.Context, cfg *config.Config, log logger.Logger, file string) error {
	items, err := catalogfile.LoadCatalog(file)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}
	if err := es.EnsureIndex(ctx, cfg.Catalog.Index); err != nil {
		return err
	}

	n, err := catalog.NewElasticsearchSource(es.Client, cfg.Catalog.Index, 0, log).IndexAll(ctx, items)
	if err != nil {
		return err
	}
	log.Info("catalog indexed", map[string]interface{}{"file": file, "index": cfg.Catalog.Index, "indexed": n})

	invalidateCache(ctx, cfg, log)
	return nil
}

// invalidateCache drops the cached snapshot so workers see the new catalog
// before the TTL runs out. Failures only warn.
func invalidateCache(ctx context.Context, cfg *config.Config, log logger.Logger) {
	if cfg.Database.Redis.Address == "" {
		return
	}
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		log.Warn("skipping cache invalidation", map[string]interface{}{"error": err.Error()})
		return
	}
	defer rdb.Close()

	cached := catalog.NewCachedSource(catalog.NewStaticSource(nil), rdb.GetClient(), cfg.Catalog.CacheDuration(), log)
	if err := cached.Invalidate(ctx); err != nil {
		log.Warn("cache invalidation failed", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("catalog cache invalidated", map[string]interface{}{"key": catalog.SnapshotKey})
}

func validate(file string) error {
	items, err := catalogfile.LoadCatalog(file)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("catalog contains no scholarships")
	}

	summary, err := json.MarshalIndent(catalogfile.Summarize(items), "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("Catalog validation passed. Found %d scholarships.\n%s\n", len(items), summary)
	return nil
}

func export(ctx context.Context, cfg *config.Config, log logger.Logger, from, out string) error {
	deps := catalog.Deps{}
	switch from {
	case config.SourcePostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()
		deps.DB = pg.GetDB()
	case config.SourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		deps.ES = es.Client
	}

	catCfg := cfg.Catalog
	catCfg.Source = from
	catCfg.CacheTTL = 0
	src, err := catalog.New(catCfg, deps, log)
	if err != nil {
		return err
	}

	items, err := src.FetchAll(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.Scholarship{}
	}
	if err := catalogfile.SaveCatalog(out, items); err != nil {
		return err
	}
	log.Info("catalog exported", map[string]interface{}{"source": src.Name(), "out": out, "count": len(items)})
	return nil
}

func help() {
	fmt.Println(`
Usage: catalog-seeder <command> [flags]

Commands:
  seed     Upsert a catalog file into postgres (by title)
  index    Bulk index a catalog file into elasticsearch
  validate Validate a catalog file against the catalog schema
  export   Write the current catalog from a source to a file
  help     Show this help message

Examples:
  catalog-seeder validate -file data/scholarships.json
  catalog-seeder seed -file data/scholarships.json
  catalog-seeder index
  catalog-seeder export -from elasticsearch -out /tmp/catalog.json

Use 'catalog-seeder <command> -h' for more information about a command.
`)
}
