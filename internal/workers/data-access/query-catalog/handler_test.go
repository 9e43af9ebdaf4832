// internal/workers/data-access/query-catalog/handler_test.go
package querycatalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"scholarship-matcher/internal/catalog"
	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaticHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), catalog.NewStaticSource(nil), nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_Catalog(t *testing.T) {
	output, err := newStaticHandler(t).Execute(context.Background(), &Input{QueryType: string(QueryTypeScholarshipCatalog)})
	require.NoError(t, err)

	items, ok := output.Data.([]models.Scholarship)
	require.True(t, ok)
	assert.Len(t, items, 6)
	assert.Equal(t, 6, output.RowCount)
	assert.Equal(t, "static", output.Source)
}

func TestHandler_Execute_ByTitle(t *testing.T) {
	h := newStaticHandler(t)

	output, err := h.Execute(context.Background(), &Input{QueryType: string(QueryTypeScholarshipByTitle), Title: "  creative arts excellence award "})
	require.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
	s, ok := output.Data.(models.Scholarship)
	require.True(t, ok)
	assert.Equal(t, "Creative Arts Excellence Award", s.Title)

	output, err = h.Execute(context.Background(), &Input{QueryType: string(QueryTypeScholarshipByTitle), Title: "Unknown Award"})
	require.NoError(t, err)
	assert.Equal(t, 0, output.RowCount)
	assert.Nil(t, output.Data)
}

func TestHandler_Execute_ByType(t *testing.T) {
	output, err := newStaticHandler(t).Execute(context.Background(), &Input{QueryType: string(QueryTypeScholarshipByType), Type: models.TypeMerit})
	require.NoError(t, err)

	items, ok := output.Data.([]models.Scholarship)
	require.True(t, ok)
	assert.Equal(t, 4, output.RowCount)
	for _, s := range items {
		assert.Equal(t, models.TypeMerit, s.Type)
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		code  apperrors.ErrorCode
	}{
		{"unknown query type", Input{QueryType: "scholarship_by_provider"}, apperrors.ErrCodeInvalidQueryType},
		{"by title without title", Input{QueryType: string(QueryTypeScholarshipByTitle)}, apperrors.ErrCodeInvalidInput},
		{"by type without type", Input{QueryType: string(QueryTypeScholarshipByType)}, apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newStaticHandler(t).Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.Classify(err).Code)
		})
	}
}

func TestHandler_Execute_PostgresFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title")).WillReturnError(errors.New("relation does not exist"))

	src := catalog.NewPostgresSource(db, 0, logger.NewNoOpLogger())
	h := NewHandler(LoadConfig(), src, nil, logger.NewTestLogger(t))

	_, err = h.Execute(context.Background(), &Input{QueryType: string(QueryTypeScholarshipCatalog)})
	require.Error(t, err)

	stdErr := apperrors.Classify(err)
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, stdErr.Code)
	assert.Equal(t, "CANDIDATE_SOURCE_UNAVAILABLE", apperrors.ConvertToBPMNError(stdErr).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
