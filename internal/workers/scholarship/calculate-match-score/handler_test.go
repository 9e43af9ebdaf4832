// internal/workers/scholarship/calculate-match-score/handler_test.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/common/validation"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), validation.MustNewValidator(), nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		scholarship   models.Scholarship
		profile       *models.StudentProfile
		expectedScore int
		expectedLevel string
		validate      func(t *testing.T, output *Output)
	}{
		{
			name:          "no rule fires",
			scholarship:   models.Scholarship{Title: "Community Service Leadership Scholarship", Type: models.TypeOther},
			profile:       &models.StudentProfile{CourseOfStudy: models.CourseEngineering},
			expectedScore: 50,
			expectedLevel: matching.MatchLevelLow,
		},
		{
			name: "engineering with top grade tier",
			scholarship: models.Scholarship{
				Title:       "Women in Engineering Scholarship",
				Type:        models.TypeMerit,
				Eligibility: []string{"CPI 8.0+"},
			},
			profile:       &models.StudentProfile{CourseOfStudy: models.CourseEngineering, GPA: "8.0-8.99"},
			expectedScore: 85,
			expectedLevel: matching.MatchLevelHigh,
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, 20, output.MatchFactors.FieldOfStudy)
				assert.Equal(t, 15, output.MatchFactors.Grade)
			},
		},
		{
			name:          "need based",
			scholarship:   models.Scholarship{Title: "Hardship Grant", Type: models.TypeNeed},
			profile:       &models.StudentProfile{IncomeStatus: "low-income"},
			expectedScore: 65,
			expectedLevel: matching.MatchLevelMedium,
			validate: func(t *testing.T, output *Output) {
				assert.Equal(t, 15, output.MatchFactors.NeedBased)
			},
		},
		{
			name:          "empty profile scores base",
			scholarship:   models.Scholarship{Title: "STEM Innovation Grant"},
			profile:       &models.StudentProfile{},
			expectedScore: 50,
			expectedLevel: matching.MatchLevelLow,
		},
		{
			name:          "unscored course and numeric graduation year",
			scholarship:   models.Scholarship{Title: "Women in Engineering Scholarship"},
			profile:       &models.StudentProfile{CourseOfStudy: models.CourseSciences, GraduationYear: "2027"},
			expectedScore: 50,
			expectedLevel: matching.MatchLevelLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.scholarship
			output, err := newTestHandler(t).Execute(context.Background(), &Input{Scholarship: &s, StudentProfile: tt.profile})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedScore, output.MatchScore)
			assert.Equal(t, tt.expectedScore, output.MatchFactors.Total)
			assert.Equal(t, tt.expectedLevel, output.MatchLevel)
			if tt.validate != nil {
				tt.validate(t, output)
			}
		})
	}
}

func TestHandler_Execute_MissingScholarship(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{StudentProfile: &models.StudentProfile{}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, matching.ErrInvalidInput))
	assert.True(t, errors.Is(err, ErrMissingScholarship))
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Classify(err).Code)
}

func TestHandler_Execute_MissingProfile(t *testing.T) {
	tests := []struct {
		name string
		vars string
	}{
		{"absent", `{"scholarship": {"title": "STEM Innovation Grant"}}`},
		{"null", `{"scholarship": {"title": "STEM Innovation Grant"}, "studentProfile": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input Input
			require.NoError(t, json.Unmarshal([]byte(tt.vars), &input))

			output, err := newTestHandler(t).Execute(context.Background(), &input)
			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, errors.Is(err, matching.ErrInvalidInput))
			assert.True(t, errors.Is(err, ErrMissingProfile))
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Classify(err).Code)
		})
	}
}

func TestInput_DecodesJobVariables(t *testing.T) {
	vars := `{
		"scholarship": {"title": "First Generation College Support", "type": "need", "deadline": "2025-05-01"},
		"studentProfile": {"categories": ["first-generation"], "incomeStatus": "low"}
	}`

	var input Input
	require.NoError(t, json.Unmarshal([]byte(vars), &input))

	output, err := newTestHandler(t).Execute(context.Background(), &input)
	require.NoError(t, err)
	assert.Equal(t, 90, output.MatchScore)
	assert.Equal(t, 25, output.MatchFactors.FirstGeneration)
}
