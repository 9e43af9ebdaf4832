// internal/workers/scholarship/filter-scholarships/handler_test.go
package filterscholarships

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredFixture() []models.ScoredScholarship {
	return []models.ScoredScholarship{
		{Scholarship: models.Scholarship{Title: "A", Amount: "$20,000", Type: models.TypeMerit, Deadline: models.NewDate(2025, time.January, 15)}, MatchScore: 85},
		{Scholarship: models.Scholarship{Title: "B", Amount: "$8,000", Type: models.TypeNeed, Deadline: models.NewDate(2025, time.February, 20)}, MatchScore: 70},
		{Scholarship: models.Scholarship{Title: "C", Amount: "$3,000", Type: models.TypeOther}, MatchScore: 60},
		{Scholarship: models.Scholarship{Title: "D", Amount: "Varies", Type: models.TypeMerit, Deadline: models.NewDate(2025, time.June, 1)}, MatchScore: 40},
	}
}

func newTestHandler(t *testing.T) *Handler {
	cfg := LoadConfig()
	cfg.Now = func() time.Time { return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) }
	return NewHandler(cfg, nil, logger.NewTestLogger(t))
}

func cardTitles(cards []matching.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func TestHandler_Execute_FiltersAndSorts(t *testing.T) {
	tests := []struct {
		name     string
		filters  Filters
		sortBy   string
		expected []string
	}{
		{"default relevance", Filters{}, "", []string{"A", "B", "C", "D"}},
		{"full amount", Filters{Amount: matching.AmountFull}, "", []string{"A"}},
		{"small amount", Filters{Amount: matching.AmountSmall}, "", []string{"C"}},
		{"urgent deadline", Filters{Deadline: matching.DeadlineUrgent}, "", []string{"A"}},
		{"soon deadline", Filters{Deadline: matching.DeadlineSoon}, "", []string{"B"}},
		{"later deadline", Filters{Deadline: matching.DeadlineLater}, "", []string{"D"}},
		{"merit type", Filters{Type: models.TypeMerit}, "", []string{"A", "D"}},
		{"sort by deadline", Filters{}, matching.SortDeadline, []string{"A", "B", "D", "C"}},
		{"sort by amount", Filters{}, matching.SortAmount, []string{"A", "B", "C", "D"}},
		{"merit by deadline", Filters{Type: models.TypeMerit}, matching.SortDeadline, []string{"A", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &Input{Scholarships: scoredFixture(), Filters: tt.filters, SortBy: tt.sortBy}
			output, err := newTestHandler(t).Execute(context.Background(), input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, cardTitles(output.Cards))
			assert.Equal(t, len(tt.expected), output.Count)
			assert.Equal(t, 4-len(tt.expected), output.FilteredOut)
		})
	}
}

func TestHandler_Execute_CardAnnotations(t *testing.T) {
	output, err := newTestHandler(t).Execute(context.Background(), &Input{Scholarships: scoredFixture()})
	require.NoError(t, err)
	require.Len(t, output.Cards, 4)

	assert.Equal(t, matching.MatchLevelHigh, output.Cards[0].MatchLevel)
	assert.Equal(t, matching.DeadlineStatusUrgent, output.Cards[0].DeadlineStatus)
	assert.Equal(t, "Jan 15, 2025", output.Cards[0].FormattedDeadline)

	assert.Equal(t, matching.MatchLevelMedium, output.Cards[1].MatchLevel)
	assert.Equal(t, matching.DeadlineStatusSoon, output.Cards[1].DeadlineStatus)

	assert.Equal(t, matching.DeadlineStatusNormal, output.Cards[2].DeadlineStatus)
	assert.Equal(t, "", output.Cards[2].FormattedDeadline)

	assert.Equal(t, matching.MatchLevelLow, output.Cards[3].MatchLevel)
	assert.Equal(t, matching.SortRelevance, output.AppliedView.SortBy)
}

func TestHandler_Execute_AsOf(t *testing.T) {
	input := &Input{
		Scholarships: scoredFixture(),
		Filters:      Filters{Deadline: matching.DeadlineUrgent},
		AsOf:         "2025-05-15",
	}
	output, err := newTestHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)
	// Past deadlines count as urgent.
	assert.Equal(t, []string{"A", "B", "D"}, cardTitles(output.Cards))
}

func TestHandler_Execute_InvalidFilters(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		code  apperrors.ErrorCode
	}{
		{"unknown amount", Input{Filters: Filters{Amount: "huge"}}, apperrors.ErrCodeInvalidFilterFormat},
		{"unknown deadline", Input{Filters: Filters{Deadline: "yesterday"}}, apperrors.ErrCodeInvalidFilterFormat},
		{"unknown type", Input{Filters: Filters{Type: "sports"}}, apperrors.ErrCodeInvalidFilterFormat},
		{"unknown sort", Input{SortBy: "title"}, apperrors.ErrCodeInvalidFilterFormat},
		{"bad asOf", Input{AsOf: "15/05/2025"}, apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Scholarships = scoredFixture()
			_, err := newTestHandler(t).Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.Classify(err).Code)
		})
	}
}

func TestHandler_Execute_DoesNotMutateInput(t *testing.T) {
	items := scoredFixture()
	_, err := newTestHandler(t).Execute(context.Background(), &Input{Scholarships: items, SortBy: matching.SortAmount, Filters: Filters{Type: models.TypeMerit}})
	require.NoError(t, err)
	assert.Equal(t, scoredFixture(), items)
}

func TestInput_DecodesJobVariables(t *testing.T) {
	vars := `{"scholarships":[{"title":"X","amount":"$16,000","type":"merit","deadline":"2025-01-10","matchScore":90}],
		"filters":{"amount":"full"},"sortBy":"deadline"}`

	var input Input
	require.NoError(t, json.Unmarshal([]byte(vars), &input))

	output, err := newTestHandler(t).Execute(context.Background(), &input)
	require.NoError(t, err)
	require.Len(t, output.Cards, 1)
	assert.Equal(t, 90, output.Cards[0].MatchScore)
	assert.Equal(t, matching.DeadlineStatusUrgent, output.Cards[0].DeadlineStatus)
}

func TestHandler_Execute_InvalidFilterIsSentinel(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{Filters: Filters{Amount: "huge"}})
	assert.True(t, errors.Is(err, matching.ErrInvalidFilterFormat))
}
