// internal/catalog/static.go
package catalog

import (
	"context"
	"time"

	"scholarship-matcher/internal/models"
)

// StaticSource serves a fixed in-memory catalog.
type StaticSource struct {
	items []models.Scholarship
}

// NewStaticSource serves items, or the built-in sample catalog when items is nil.
func NewStaticSource(items []models.Scholarship) *StaticSource {
	if items == nil {
		items = SampleCatalog()
	}
	return &StaticSource{items: items}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Ping(ctx context.Context) error { return nil }

func (s *StaticSource) FetchAll(ctx context.Context) ([]models.Scholarship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Scholarship, len(s.items))
	copy(out, s.items)
	return out, nil
}

// SampleCatalog is the six-listing demo catalog.
func SampleCatalog() []models.Scholarship {
	return []models.Scholarship{
		{
			ID:              1,
			Title:           "Merit Excellence Scholarship",
			Provider:        "State University Foundation",
			Amount:          "$15,000",
			Type:            models.TypeMerit,
			Description:     "Awarded to outstanding students with exceptional academic performance and leadership qualities.",
			Deadline:        models.NewDate(2025, time.August, 15),
			Eligibility:     []string{"CPI 8.0+", "Undergraduate", "US Citizen"},
			ApplicationLink: "https://example.com/apply/1",
		},
		{
			ID:              2,
			Title:           "STEM Innovation Grant",
			Provider:        "Tech Companies Alliance",
			Amount:          "$25,000",
			Type:            models.TypeMerit,
			Description:     "Supporting the next generation of innovators in Science, Technology, Engineering, and Mathematics.",
			Deadline:        models.NewDate(2025, time.July, 20),
			Eligibility:     []string{"Engineering/CS", "CPI 7.0+", "Any Nationality"},
			ApplicationLink: "https://example.com/apply/2",
		},
		{
			ID:              3,
			Title:           "First Generation College Support",
			Provider:        "Education Equity Foundation",
			Amount:          "$8,000",
			Type:            models.TypeNeed,
			Description:     "Dedicated to supporting first-generation college students in achieving their educational dreams.",
			Deadline:        models.NewDate(2025, time.September, 30),
			Eligibility:     []string{"First Generation", "Any Field", "Income < $60K"},
			ApplicationLink: "https://example.com/apply/3",
		},
		{
			ID:              4,
			Title:           "Creative Arts Excellence Award",
			Provider:        "National Arts Council",
			Amount:          "$12,000",
			Type:            models.TypeCreative,
			Description:     "Recognizing exceptional talent and creativity in visual arts, music, theater, and creative writing.",
			Deadline:        models.NewDate(2025, time.June, 30),
			Eligibility:     []string{"Arts Major", "Portfolio Required", "Any CPI"},
			ApplicationLink: "https://example.com/apply/4",
		},
		{
			ID:              5,
			Title:           "Community Service Leadership Scholarship",
			Provider:        "Volunteer Impact Network",
			Amount:          "$10,000",
			Type:            models.TypeMerit,
			Description:     "Honoring students who have made significant contributions to their communities through volunteer service.",
			Deadline:        models.NewDate(2025, time.August, 1),
			Eligibility:     []string{"100+ Volunteer Hours", "Leadership Role", "Any Major"},
			ApplicationLink: "https://example.com/apply/5",
		},
		{
			ID:              6,
			Title:           "Women in Engineering Scholarship",
			Provider:        "Society of Women Engineers",
			Amount:          "$20,000",
			Type:            models.TypeMerit,
			Description:     "Empowering women to pursue and excel in engineering careers through financial support.",
			Deadline:        models.NewDate(2025, time.July, 15),
			Eligibility:     []string{"Female", "Engineering Major", "CPI 7.5+"},
			ApplicationLink: "https://example.com/apply/6",
		},
	}
}
