// internal/catalog/source.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"scholarship-matcher/internal/common/config"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds readiness checks against a backing store.
const pingTimeout = 5 * time.Second

// Source supplies the unscored catalog snapshot for a match request.
type Source interface {
	matching.CandidateSource
	Name() string
	Ping(ctx context.Context) error
}

// Deps carries the data-store clients a Source may need. Unused ones may be nil.
type Deps struct {
	DB    *sql.DB
	ES    *elasticsearch.Client
	Redis *redis.Client
}

// New builds the Source selected by cfg.Source, wrapped in a Redis snapshot
// cache when cfg.CacheTTL is positive.
func New(cfg config.CatalogConfig, deps Deps, log logger.Logger) (Source, error) {
	var src Source
	switch cfg.Source {
	case config.SourcePostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("catalog source %q requires a postgres connection", cfg.Source)
		}
		src = NewPostgresSource(deps.DB, cfg.MaxCandidates, log)
	case config.SourceElasticsearch:
		if deps.ES == nil {
			return nil, fmt.Errorf("catalog source %q requires an elasticsearch client", cfg.Source)
		}
		src = NewElasticsearchSource(deps.ES, cfg.Index, cfg.MaxCandidates, log)
	case config.SourceStatic:
		src = NewStaticSource(nil)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}

	if cfg.CacheTTL > 0 && deps.Redis != nil {
		src = NewCachedSource(src, deps.Redis, cfg.CacheDuration(), log)
	}
	return src, nil
}

// FilterByType returns the scholarships whose type equals typ, in order.
func FilterByType(items []models.Scholarship, typ string) []models.Scholarship {
	out := make([]models.Scholarship, 0)
	for _, s := range items {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

// FindByTitle returns the first scholarship whose title matches case-insensitively.
func FindByTitle(items []models.Scholarship, title string) (models.Scholarship, bool) {
	for _, s := range items {
		if strings.EqualFold(s.Title, title) {
			return s, true
		}
	}
	return models.Scholarship{}, false
}
