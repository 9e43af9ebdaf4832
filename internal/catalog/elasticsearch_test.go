// internal/catalog/elasticsearch_test.go
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestElasticsearchSource_FetchAll(t *testing.T) {
	var body map[string]interface{}
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scholarships/_search", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"7","_source":{"title":"STEM Innovation Grant","amount":"$5,000","type":"merit","deadline":"2025-04-01","eligibility":["CPI 6.0+"]}},
			{"_id":"8","_source":{"id":9,"title":"Creative Arts Excellence Award","type":"creative"}}
		]}}`))
	})

	src := NewElasticsearchSource(client, "scholarships", 50, logger.NewTestLogger(t))
	items, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, "2025-04-01", items[0].Deadline.String())
	assert.Equal(t, []string{"CPI 6.0+"}, items[0].Eligibility)
	assert.Equal(t, int64(9), items[1].ID)
	assert.Equal(t, []string{}, items[1].Eligibility)
	assert.True(t, items[1].Deadline.IsZero())

	assert.EqualValues(t, 50, body["size"])
	assert.Contains(t, body["query"], "match_all")
}

func TestElasticsearchSource_FetchAll_IndexMissing(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
	})

	_, err := NewElasticsearchSource(client, "missing", 0, logger.NewNoOpLogger()).FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeIndexNotFound, apperrors.Classify(err).Code)
}

func TestElasticsearchSource_FetchAll_ServerError(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})

	_, err := NewElasticsearchSource(client, "scholarships", 0, logger.NewNoOpLogger()).FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, apperrors.Classify(err).Code)
}

func TestElasticsearchSource_IndexAll(t *testing.T) {
	var lines []string
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("refresh"))
		data, _ := io.ReadAll(r.Body)
		lines = strings.Split(strings.TrimSpace(string(data)), "\n")
		_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[]}`))
	})

	items := []models.Scholarship{
		{Title: "A", Type: "merit"},
		{ID: 42, Title: "B", Type: "need"},
	}
	n, err := NewElasticsearchSource(client, "scholarships", 0, logger.NewNoOpLogger()).IndexAll(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"_id":"1"`)
	assert.Contains(t, lines[2], `"_id":"42"`)
}

func TestElasticsearchSource_IndexAll_ItemErrors(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"took":1,"errors":true,"items":[]}`))
	})

	_, err := NewElasticsearchSource(client, "scholarships", 0, logger.NewNoOpLogger()).
		IndexAll(context.Background(), []models.Scholarship{{Title: "A"}})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, apperrors.Classify(err).Code)
}
