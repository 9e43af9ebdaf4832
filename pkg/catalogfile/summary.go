// pkg/catalogfile/summary.go
package catalogfile

import (
	"strings"

	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"
)

// Summary describes a catalog for the seeder's validate command.
type Summary struct {
	Total           int            `json:"total"`
	ByType          map[string]int `json:"byType"`
	MissingDeadline int            `json:"missingDeadline"`
	GradeGated      int            `json:"gradeGated"`
	Unparseable     int            `json:"unparseableAmount"`
}

// Summarize counts entries by type and flags the ones the engine treats specially.
func Summarize(items []models.Scholarship) Summary {
	s := Summary{Total: len(items), ByType: make(map[string]int)}
	for _, it := range items {
		s.ByType[it.Type]++
		if it.Deadline.IsZero() {
			s.MissingDeadline++
		}
		if _, ok := matching.ParseAmount(it.Amount); !ok {
			s.Unparseable++
		}
		for _, req := range it.Eligibility {
			if strings.Contains(req, matching.GradeKeyword) {
				s.GradeGated++
				break
			}
		}
	}
	return s
}
