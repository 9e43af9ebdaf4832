// internal/catalog/elasticsearch.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultSearchSize = 1000

// ElasticsearchSource reads the catalog from a search index.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
	size   int
	logger logger.Logger
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, size int, log logger.Logger) *ElasticsearchSource {
	if size <= 0 {
		size = defaultSearchSize
	}
	return &ElasticsearchSource{
		client: client,
		index:  index,
		size:   size,
		logger: logger.ForComponent(log, "catalog-elasticsearch"),
	}
}

func (e *ElasticsearchSource) Name() string { return "elasticsearch" }

func (e *ElasticsearchSource) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewElasticsearchConnectionFailedError(fmt.Errorf("ping: %s", res.Status()))
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string             `json:"_id"`
			Source models.Scholarship `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *ElasticsearchSource) searchBody() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":  []interface{}{map[string]interface{}{"id": map[string]interface{}{"order": "asc"}}},
		"size":  e.size,
	})
}

func (e *ElasticsearchSource) FetchAll(ctx context.Context) ([]models.Scholarship, error) {
	body, err := e.searchBody()
	if err != nil {
		return nil, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewSearchQueryFailedError(e.index, err)
		}
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(e.index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(e.index, fmt.Errorf("search: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(e.index, fmt.Errorf("decode response: %w", err))
	}

	items := make([]models.Scholarship, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		s := hit.Source
		if s.ID == 0 {
			if id, err := strconv.ParseInt(hit.ID, 10, 64); err == nil {
				s.ID = id
			}
		}
		if s.Eligibility == nil {
			s.Eligibility = []string{}
		}
		items = append(items, s)
	}

	e.logger.Debug("catalog snapshot loaded", map[string]interface{}{"count": len(items), "index": e.index})
	return items, nil
}

// IndexAll bulk-indexes items with document ids taken from Scholarship.ID,
// falling back to the 1-based position.
func (e *ElasticsearchSource) IndexAll(ctx context.Context, items []models.Scholarship) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	for i, s := range items {
		if s.ID == 0 {
			s.ID = int64(i + 1)
		}
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": e.index, "_id": strconv.FormatInt(s.ID, 10)}}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return 0, err
		}
		if err := json.NewEncoder(&buf).Encode(s); err != nil {
			return 0, err
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithContext(ctx),
		e.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, apperrors.NewSearchQueryFailedError(e.index, fmt.Errorf("bulk: %s", res.Status()))
	}

	var bulk struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err == nil && bulk.Errors {
		return 0, apperrors.NewSearchQueryFailedError(e.index, errors.New("bulk request reported item errors"))
	}

	e.logger.Info("catalog indexed", map[string]interface{}{"count": len(items), "index": e.index})
	return len(items), nil
}
