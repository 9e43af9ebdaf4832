// internal/catalog/source_test.go
package catalog

import (
	"context"
	"testing"

	"scholarship-matcher/internal/common/config"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log := logger.NewNoOpLogger()

	src, err := New(config.CatalogConfig{Source: config.SourceStatic}, Deps{}, log)
	require.NoError(t, err)
	assert.Equal(t, "static", src.Name())

	_, err = New(config.CatalogConfig{Source: config.SourcePostgres}, Deps{}, log)
	assert.Error(t, err)

	_, err = New(config.CatalogConfig{Source: config.SourceElasticsearch}, Deps{}, log)
	assert.Error(t, err)

	_, err = New(config.CatalogConfig{Source: "mongo"}, Deps{}, log)
	assert.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	src, err = New(config.CatalogConfig{Source: config.SourcePostgres}, Deps{DB: db}, log)
	require.NoError(t, err)
	assert.Equal(t, "postgres", src.Name())
}

func TestNew_WrapsWithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src, err := New(config.CatalogConfig{Source: config.SourceStatic, CacheTTL: 60}, Deps{Redis: client}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, "cached-static", src.Name())

	items, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 6)
	assert.True(t, mr.Exists(SnapshotKey))
}

func TestStaticSource_ReturnsCopy(t *testing.T) {
	src := NewStaticSource(nil)
	items, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, items)

	items[0].Title = "changed"
	again, _ := src.FetchAll(context.Background())
	assert.NotEqual(t, "changed", again[0].Title)
}

func TestSampleCatalog_UsesGradeKeyword(t *testing.T) {
	for _, s := range SampleCatalog() {
		assert.NotEmpty(t, s.Title)
		assert.Contains(t, models.ScholarshipTypes, s.Type)
	}
}

func TestFilterByTypeAndFindByTitle(t *testing.T) {
	items := SampleCatalog()

	merit := FilterByType(items, models.TypeMerit)
	for _, s := range merit {
		assert.Equal(t, models.TypeMerit, s.Type)
	}
	assert.NotNil(t, FilterByType(items, "unknown"))
	assert.Empty(t, FilterByType(items, "unknown"))

	s, ok := FindByTitle(items, "stem innovation grant")
	require.True(t, ok)
	assert.Equal(t, "STEM Innovation Grant", s.Title)

	_, ok = FindByTitle(items, "nope")
	assert.False(t, ok)
}
