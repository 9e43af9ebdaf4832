// internal/workers/scholarship/match-scholarships/handler_test.go
package matchscholarships

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"scholarship-matcher/internal/catalog"
	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/common/validation"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{}

func (failingSource) Name() string                   { return "failing" }
func (failingSource) Ping(ctx context.Context) error { return errors.New("down") }
func (failingSource) FetchAll(ctx context.Context) ([]models.Scholarship, error) {
	return nil, errors.New("connection refused")
}

const engineeringProfile = `{"courseOfStudy":"engineering","gpa":"8.0-8.99"}`

func newTestHandler(t *testing.T, cfg *Config, src catalog.Source) *Handler {
	return NewHandler(cfg, src, validation.MustNewValidator(), nil, logger.NewTestLogger(t))
}

func titles(items []models.ScoredScholarship) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Title
	}
	return out
}

func TestHandler_Execute_FirstPage(t *testing.T) {
	h := newTestHandler(t, LoadConfig(), catalog.NewStaticSource(nil))

	output, err := h.Execute(context.Background(), &Input{StudentProfile: json.RawMessage(engineeringProfile)})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Women in Engineering Scholarship",
		"Merit Excellence Scholarship",
		"STEM Innovation Grant",
		"Creative Arts Excellence Award",
		"First Generation College Support",
		"Community Service Leadership Scholarship",
	}, titles(output.Scholarships))
	assert.Equal(t, 85, output.Scholarships[0].MatchScore)
	assert.Equal(t, 6, output.Count)
	assert.Equal(t, 6, output.Total)
	assert.False(t, output.HasMore)
	assert.Equal(t, "static", output.Source)
}

func TestHandler_Execute_LoadMore(t *testing.T) {
	cfg := LoadConfig()
	cfg.PageSize = 4
	h := newTestHandler(t, cfg, catalog.NewStaticSource(nil))

	first, err := h.Execute(context.Background(), &Input{StudentProfile: json.RawMessage(engineeringProfile)})
	require.NoError(t, err)
	assert.Len(t, first.Scholarships, 4)
	assert.True(t, first.HasMore)
	assert.Equal(t, 4, first.NextOffset)

	second, err := h.Execute(context.Background(), &Input{
		StudentProfile: json.RawMessage(engineeringProfile),
		Offset:         first.NextOffset,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"First Generation College Support",
		"Community Service Leadership Scholarship",
	}, titles(second.Scholarships))
	assert.False(t, second.HasMore)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	h := newTestHandler(t, LoadConfig(), catalog.NewStaticSource(nil))

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"absent profile", Input{}, ErrMissingProfile},
		{"null profile", Input{StudentProfile: json.RawMessage(`null`)}, ErrMissingProfile},
		{"schema violation", Input{StudentProfile: json.RawMessage(`{"courseOfStudy":"astronomy"}`)}, ErrInvalidProfile},
		{"negative offset", Input{StudentProfile: json.RawMessage(engineeringProfile), Offset: -1}, ErrNegativeOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, errors.Is(err, matching.ErrInvalidInput))
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Classify(err).Code)
		})
	}
}

func TestHandler_Execute_SourceUnavailable(t *testing.T) {
	h := newTestHandler(t, LoadConfig(), failingSource{})

	_, err := h.Execute(context.Background(), &Input{StudentProfile: json.RawMessage(engineeringProfile)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, matching.ErrCandidateSourceUnavailable))

	stdErr := apperrors.Classify(err)
	assert.Equal(t, apperrors.ErrCodeCandidateSourceUnavailable, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_Threshold(t *testing.T) {
	cfg := LoadConfig()
	cfg.Threshold = 60
	h := newTestHandler(t, cfg, catalog.NewStaticSource(nil))

	output, err := h.Execute(context.Background(), &Input{StudentProfile: json.RawMessage(engineeringProfile)})
	require.NoError(t, err)
	assert.Equal(t, 4, output.Total)
	for _, s := range output.Scholarships {
		assert.GreaterOrEqual(t, s.MatchScore, 60)
	}
}
