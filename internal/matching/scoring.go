// internal/matching/scoring.go
package matching

import (
	"strings"

	"scholarship-matcher/internal/models"
)

const (
	BaseScore            = 50
	FieldOfStudyBonus    = 20
	FirstGenerationBonus = 25
	NeedBasedBonus       = 15

	MinScore = 0
	MaxScore = 100

	// GradeKeyword must appear in an eligibility entry for the grade rule to apply.
	GradeKeyword = "CPI"
)

type gradeTier struct {
	min   float64
	bonus int
}

// 10-point scale, highest tier first.
var gradeTiers = []gradeTier{
	{min: 8.0, bonus: 15},
	{min: 6.0, bonus: 10},
	{min: 5.0, bonus: 5},
}

type fieldRule struct {
	course  string
	keyword string
}

// Evaluated in order; the first matching rule wins.
var fieldRules = []fieldRule{
	{course: models.CourseEngineering, keyword: "engineering"},
	{course: models.CourseComputerScience, keyword: "stem"},
	{course: models.CourseArts, keyword: "arts"},
}

// Breakdown is the per-rule contribution to a match score.
type Breakdown struct {
	Base            int `json:"base"`
	FieldOfStudy    int `json:"fieldOfStudy"`
	Grade           int `json:"grade"`
	FirstGeneration int `json:"firstGeneration"`
	NeedBased       int `json:"needBased"`
	Total           int `json:"total"`
}

// Score maps a (scholarship, profile) pair to an integer in [0,100].
func Score(s *models.Scholarship, p *models.StudentProfile) int {
	return Explain(s, p).Total
}

// Explain runs the same rules as Score and reports which ones fired.
func Explain(s *models.Scholarship, p *models.StudentProfile) Breakdown {
	b := Breakdown{Base: BaseScore}
	if s == nil || p == nil {
		b.Total = clamp(b.Base)
		return b
	}

	title := strings.ToLower(s.Title)

	b.FieldOfStudy = fieldOfStudyBonus(p.CourseOfStudy, title)
	b.Grade = gradeBonus(p.GPA, s.Eligibility)

	if p.HasCategory(models.CategoryFirstGeneration) && strings.Contains(title, "first generation") {
		b.FirstGeneration = FirstGenerationBonus
	}

	if p.IncomeStatus != "" && strings.Contains(p.IncomeStatus, "low") && s.Type == models.TypeNeed {
		b.NeedBased = NeedBasedBonus
	}

	b.Total = clamp(b.Base + b.FieldOfStudy + b.Grade + b.FirstGeneration + b.NeedBased)
	return b
}

func fieldOfStudyBonus(course, lowerTitle string) int {
	for _, r := range fieldRules {
		if course == r.course && strings.Contains(lowerTitle, r.keyword) {
			return FieldOfStudyBonus
		}
	}
	return 0
}

func gradeBonus(gpa string, eligibility []string) int {
	if gpa == "" || !mentionsGrade(eligibility) {
		return 0
	}
	value := GradeLowerBound(gpa)
	for _, t := range gradeTiers {
		if value >= t.min {
			return t.bonus
		}
	}
	return 0
}

func mentionsGrade(eligibility []string) bool {
	for _, req := range eligibility {
		if strings.Contains(req, GradeKeyword) {
			return true
		}
	}
	return false
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
