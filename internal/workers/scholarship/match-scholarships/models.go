// internal/workers/scholarship/match-scholarships/models.go
package matchscholarships

import (
	"encoding/json"

	"scholarship-matcher/internal/models"
)

type Input struct {
	StudentProfile json.RawMessage `json:"studentProfile"`
	Offset         int             `json:"offset,omitempty"`
}

type Output struct {
	Scholarships []models.ScoredScholarship `json:"scholarships"`
	Count        int                        `json:"count"`
	Total        int                        `json:"total"`
	NextOffset   int                        `json:"nextOffset"`
	HasMore      bool                       `json:"hasMore"`
	Source       string                     `json:"source"`
}
