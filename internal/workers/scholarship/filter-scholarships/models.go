// internal/workers/scholarship/filter-scholarships/models.go
package filterscholarships

import (
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"
)

// Input carries an already-scored list. AsOf (YYYY-MM-DD) pins the date deadline
// buckets are measured from; it defaults to today.
type Input struct {
	Scholarships []models.ScoredScholarship `json:"scholarships"`
	Filters      Filters                    `json:"filters"`
	SortBy       string                     `json:"sortBy,omitempty"`
	AsOf         string                     `json:"asOf,omitempty"`
}

type Filters struct {
	Amount   string `json:"amount,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Type     string `json:"type,omitempty"`
}

type Output struct {
	Cards       []matching.Card     `json:"cards"`
	Count       int                 `json:"count"`
	AppliedView matching.ViewConfig `json:"appliedView"`
	FilteredOut int                 `json:"filteredOut"`
}

func (in *Input) view() matching.ViewConfig {
	return matching.ViewConfig{
		Amount:   in.Filters.Amount,
		Deadline: in.Filters.Deadline,
		Type:     in.Filters.Type,
		SortBy:   in.SortBy,
	}
}
