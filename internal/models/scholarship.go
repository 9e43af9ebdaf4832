// internal/models/scholarship.go
package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used for deadlines.
const DateLayout = "2006-01-02"

const (
	TypeMerit    = "merit"
	TypeNeed     = "need"
	TypeAthletic = "athletic"
	TypeCreative = "creative"
	TypeOther    = "other"
)

// ScholarshipTypes lists the accepted values for Scholarship.Type.
var ScholarshipTypes = []string{TypeMerit, TypeNeed, TypeAthletic, TypeCreative, TypeOther}

type Scholarship struct {
	ID              int64    `json:"id,omitempty"`
	Title           string   `json:"title"`
	Provider        string   `json:"provider"`
	Amount          string   `json:"amount"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	Deadline        Date     `json:"deadline"`
	Eligibility     []string `json:"eligibility"`
	ApplicationLink string   `json:"applicationLink"`
}

type ScoredScholarship struct {
	Scholarship
	MatchScore int `json:"matchScore"`
}

// Date is a calendar date. Unparseable input decodes to the zero Date rather
// than failing, so one bad catalog row never rejects the whole snapshot.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD and RFC 3339. ok is false for anything else.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date{Time: t}, true
	}
	return Date{}, false
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{}
		return nil
	}
	parsed, _ := ParseDate(s)
	*d = parsed
	return nil
}
