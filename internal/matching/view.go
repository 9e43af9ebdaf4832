// internal/matching/view.go
package matching

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"scholarship-matcher/internal/models"
)

const (
	AmountFull    = "full"
	AmountPartial = "partial"
	AmountSmall   = "small"

	DeadlineUrgent = "urgent"
	DeadlineSoon   = "soon"
	DeadlineLater  = "later"

	SortRelevance = "relevance"
	SortDeadline  = "deadline"
	SortAmount    = "amount"
)

const (
	fullAmountMin    = 15000
	partialAmountMin = 5000

	urgentDays = 30
	soonDays   = 60
)

var ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")

// ViewConfig selects which scored results are displayed and in what order.
// Empty filter fields are not applied; an empty SortBy means relevance.
type ViewConfig struct {
	Amount   string `json:"amount,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Type     string `json:"type,omitempty"`
	SortBy   string `json:"sortBy,omitempty"`
}

// ResetView returns the default view: no filters, sorted by relevance.
func ResetView() ViewConfig {
	return ViewConfig{SortBy: SortRelevance}
}

func (c ViewConfig) Validate() error {
	switch c.Amount {
	case "", AmountFull, AmountPartial, AmountSmall:
	default:
		return fmt.Errorf("%w: unknown amount filter %q", ErrInvalidFilterFormat, c.Amount)
	}
	switch c.Deadline {
	case "", DeadlineUrgent, DeadlineSoon, DeadlineLater:
	default:
		return fmt.Errorf("%w: unknown deadline filter %q", ErrInvalidFilterFormat, c.Deadline)
	}
	if c.Type != "" && !isScholarshipType(c.Type) {
		return fmt.Errorf("%w: unknown type filter %q", ErrInvalidFilterFormat, c.Type)
	}
	switch c.SortBy {
	case "", SortRelevance, SortDeadline, SortAmount:
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidFilterFormat, c.SortBy)
	}
	return nil
}

// ApplyView derives the displayed list from scored. The input is not modified.
func ApplyView(scored []models.ScoredScholarship, cfg ViewConfig, now time.Time) ([]models.ScoredScholarship, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := make([]models.ScoredScholarship, 0, len(scored))
	for _, s := range scored {
		if cfg.matches(&s.Scholarship, now) {
			out = append(out, s)
		}
	}
	sortView(out, cfg.SortBy)
	return out, nil
}

func (c ViewConfig) matches(s *models.Scholarship, now time.Time) bool {
	if c.Amount != "" && !inAmountBucket(s.Amount, c.Amount) {
		return false
	}
	if c.Deadline != "" && !inDeadlineBucket(s.Deadline, now, c.Deadline) {
		return false
	}
	if c.Type != "" && s.Type != c.Type {
		return false
	}
	return true
}

func inAmountBucket(amount, bucket string) bool {
	v, ok := ParseAmount(amount)
	if !ok {
		return false
	}
	switch bucket {
	case AmountFull:
		return v >= fullAmountMin
	case AmountPartial:
		return v >= partialAmountMin && v < fullAmountMin
	case AmountSmall:
		return v < partialAmountMin
	}
	return false
}

func inDeadlineBucket(deadline models.Date, now time.Time, bucket string) bool {
	days, ok := DaysUntil(deadline, now)
	if !ok {
		return false
	}
	switch bucket {
	case DeadlineUrgent:
		return days <= urgentDays
	case DeadlineSoon:
		return days > urgentDays && days <= soonDays
	case DeadlineLater:
		return days > soonDays
	}
	return false
}

func sortView(items []models.ScoredScholarship, key string) {
	switch key {
	case SortDeadline:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].Deadline, items[j].Deadline
			if a.IsZero() || b.IsZero() {
				return !a.IsZero() && b.IsZero()
			}
			return a.Before(b.Time)
		})
	case SortAmount:
		sort.SliceStable(items, func(i, j int) bool {
			a, aok := ParseAmount(items[i].Amount)
			b, bok := ParseAmount(items[j].Amount)
			if !aok || !bok {
				return aok && !bok
			}
			return a > b
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MatchScore > items[j].MatchScore
		})
	}
}

func isScholarshipType(t string) bool {
	for _, known := range models.ScholarshipTypes {
		if t == known {
			return true
		}
	}
	return false
}
