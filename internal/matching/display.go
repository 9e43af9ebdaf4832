// internal/matching/display.go
package matching

import (
	"time"

	"scholarship-matcher/internal/models"
)

const (
	MatchLevelHigh   = "high"
	MatchLevelMedium = "medium"
	MatchLevelLow    = "low"

	DeadlineStatusUrgent = "deadline-urgent"
	DeadlineStatusSoon   = "deadline-soon"
	DeadlineStatusNormal = "deadline-normal"

	DisplayDateLayout = "Jan 2, 2006"
)

// Card is a scored scholarship with its display annotations.
type Card struct {
	models.ScoredScholarship
	MatchLevel        string `json:"matchLevel"`
	DeadlineStatus    string `json:"deadlineStatus"`
	FormattedDeadline string `json:"formattedDeadline"`
}

func MatchLevel(score int) string {
	switch {
	case score >= 80:
		return MatchLevelHigh
	case score >= 60:
		return MatchLevelMedium
	default:
		return MatchLevelLow
	}
}

// DeadlineStatus classifies a deadline relative to now. A missing deadline is normal.
func DeadlineStatus(deadline models.Date, now time.Time) string {
	days, ok := DaysUntil(deadline, now)
	switch {
	case !ok:
		return DeadlineStatusNormal
	case days <= urgentDays:
		return DeadlineStatusUrgent
	case days <= soonDays:
		return DeadlineStatusSoon
	default:
		return DeadlineStatusNormal
	}
}

func FormatDeadline(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(DisplayDateLayout)
}

func Cards(items []models.ScoredScholarship, now time.Time) []Card {
	cards := make([]Card, 0, len(items))
	for _, s := range items {
		cards = append(cards, Card{
			ScoredScholarship: s,
			MatchLevel:        MatchLevel(s.MatchScore),
			DeadlineStatus:    DeadlineStatus(s.Deadline, now),
			FormattedDeadline: FormatDeadline(s.Deadline),
		})
	}
	return cards
}
