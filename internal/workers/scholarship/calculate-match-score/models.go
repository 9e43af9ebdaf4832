// internal/workers/scholarship/calculate-match-score/models.go
package calculatematchscore

import (
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"
)

type Input struct {
	Scholarship    *models.Scholarship    `json:"scholarship"`
	StudentProfile *models.StudentProfile `json:"studentProfile,omitempty"`
}

type Output struct {
	MatchScore   int                `json:"matchScore"`
	MatchLevel   string             `json:"matchLevel"`
	MatchFactors matching.Breakdown `json:"matchFactors"`
}
