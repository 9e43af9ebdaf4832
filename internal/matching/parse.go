// internal/matching/parse.go
package matching

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"scholarship-matcher/internal/models"
)

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// GradeLowerBound returns the lower bound of a range token such as "8.0-8.99".
// The segment before the first "-" is read as a leading numeric prefix; a token
// without one yields NaN, which fails every threshold comparison.
func GradeLowerBound(token string) float64 {
	lower, _, _ := strings.Cut(token, "-")
	return parseLeadingFloat(lower)
}

func parseLeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	m := leadingFloat.FindString(s)
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// ParseAmount strips every non-digit from a currency string ("$15,000" -> 15000).
// ok is false when no digits remain.
func ParseAmount(amount string) (value int64, ok bool) {
	var b strings.Builder
	for _, r := range amount {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return math.MaxInt64, true
	}
	return v, true
}

// DaysUntil is ceil((deadline - now) / 24h). ok is false for a missing deadline.
func DaysUntil(deadline models.Date, now time.Time) (days int, ok bool) {
	if deadline.IsZero() {
		return 0, false
	}
	d := deadline.Time.Sub(now)
	return int(math.Ceil(float64(d) / float64(24*time.Hour))), true
}
