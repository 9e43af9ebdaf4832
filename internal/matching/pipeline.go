// internal/matching/pipeline.go
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"scholarship-matcher/internal/models"
)

const (
	DefaultThreshold = 20
	DefaultPageSize  = 6
)

var (
	ErrInvalidInput               = errors.New("INVALID_INPUT")
	ErrCandidateSourceUnavailable = errors.New("CANDIDATE_SOURCE_UNAVAILABLE")
)

// CandidateSource returns the full, unscored catalog snapshot for one request.
type CandidateSource interface {
	FetchAll(ctx context.Context) ([]models.Scholarship, error)
}

type Options struct {
	Threshold int
	PageSize  int
	Offset    int
}

func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, PageSize: DefaultPageSize}
}

// Page is one window over the ranked, qualifying candidates.
type Page struct {
	Scholarships []models.ScoredScholarship `json:"scholarships"`
	Total        int                        `json:"total"`
	Offset       int                        `json:"offset"`
	NextOffset   int                        `json:"nextOffset"`
	HasMore      bool                       `json:"hasMore"`
}

// Match scores candidates, keeps those at or above the threshold, ranks them and
// returns the window [offset, offset+pageSize).
func Match(candidates []models.Scholarship, profile *models.StudentProfile, opts Options) ([]models.ScoredScholarship, error) {
	page, err := MatchPage(candidates, profile, opts)
	if err != nil {
		return nil, err
	}
	return page.Scholarships, nil
}

// MatchPage is Match plus the total qualifying count.
func MatchPage(candidates []models.Scholarship, profile *models.StudentProfile, opts Options) (*Page, error) {
	if err := checkRequest(profile, opts); err != nil {
		return nil, err
	}
	ranked := Rank(candidates, profile, opts.Threshold)
	return paginate(ranked, opts.Offset, pageSize(opts)), nil
}

// MatchFromSource fetches a fresh snapshot from src and runs MatchPage over it.
func MatchFromSource(ctx context.Context, src CandidateSource, profile *models.StudentProfile, opts Options) (*Page, error) {
	if err := checkRequest(profile, opts); err != nil {
		return nil, err
	}
	candidates, err := src.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCandidateSourceUnavailable, err)
	}
	return MatchPage(candidates, profile, opts)
}

// ScoreAll scores every candidate, preserving candidate order.
func ScoreAll(candidates []models.Scholarship, profile *models.StudentProfile) []models.ScoredScholarship {
	scored := make([]models.ScoredScholarship, 0, len(candidates))
	for i := range candidates {
		scored = append(scored, models.ScoredScholarship{
			Scholarship: candidates[i],
			MatchScore:  Score(&candidates[i], profile),
		})
	}
	return scored
}

// Rank returns every candidate scoring at least threshold, best first. Equal
// scores keep candidate order.
func Rank(candidates []models.Scholarship, profile *models.StudentProfile, threshold int) []models.ScoredScholarship {
	scored := ScoreAll(candidates, profile)
	qualifying := scored[:0]
	for _, s := range scored {
		if s.MatchScore >= threshold {
			qualifying = append(qualifying, s)
		}
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].MatchScore > qualifying[j].MatchScore
	})
	return qualifying
}

func checkRequest(profile *models.StudentProfile, opts Options) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is required", ErrInvalidInput)
	}
	if opts.Offset < 0 {
		return fmt.Errorf("%w: offset must be non-negative, got %d", ErrInvalidInput, opts.Offset)
	}
	return nil
}

func pageSize(opts Options) int {
	if opts.PageSize <= 0 {
		return DefaultPageSize
	}
	return opts.PageSize
}

func paginate(ranked []models.ScoredScholarship, offset, size int) *Page {
	total := len(ranked)
	start := min(offset, total)
	end := min(start+size, total)

	items := make([]models.ScoredScholarship, end-start)
	copy(items, ranked[start:end])

	return &Page{
		Scholarships: items,
		Total:        total,
		Offset:       offset,
		NextOffset:   end,
		HasMore:      end < total,
	}
}
