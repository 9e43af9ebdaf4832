// internal/workers/data-access/query-catalog/queries/registry.go
package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarship-matcher/internal/catalog"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, src matching.CandidateSource, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeScholarshipCatalog: ScholarshipCatalog,
	models.QueryTypeScholarshipByTitle: ScholarshipByTitle,
	models.QueryTypeScholarshipByType:  ScholarshipsByType,
}

func Execute(ctx context.Context, src matching.CandidateSource, queryType models.QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, src, params)
}

func ScholarshipCatalog(ctx context.Context, src matching.CandidateSource, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()
	items, err := src.FetchAll(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, len(items), time.Since(start).Milliseconds(), nil
}

func ScholarshipByTitle(ctx context.Context, src matching.CandidateSource, params map[string]interface{}) (interface{}, int, int64, error) {
	title, ok := params["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, 0, 0, fmt.Errorf("%w: title", ErrMissingParam)
	}

	start := time.Now()
	items, err := src.FetchAll(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	s, found := catalog.FindByTitle(items, strings.TrimSpace(title))
	if !found {
		return nil, 0, time.Since(start).Milliseconds(), nil
	}
	return s, 1, time.Since(start).Milliseconds(), nil
}

func ScholarshipsByType(ctx context.Context, src matching.CandidateSource, params map[string]interface{}) (interface{}, int, int64, error) {
	typ, ok := params["type"].(string)
	if !ok || typ == "" {
		return nil, 0, 0, fmt.Errorf("%w: type", ErrMissingParam)
	}

	start := time.Now()
	items, err := src.FetchAll(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	matched := catalog.FilterByType(items, typ)
	return matched, len(matched), time.Since(start).Milliseconds(), nil
}
