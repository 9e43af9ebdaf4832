// internal/models/profile.go
package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	CourseEngineering     = "engineering"
	CourseComputerScience = "computer-science"
	CourseArts            = "arts"
	CourseBusiness        = "business"
	CourseMedicine        = "medicine"
	CourseLaw             = "law"
	CourseOther           = "other"
	CourseSciences        = "sciences"
	CourseSocialSciences  = "social-sciences"
	CourseEducation       = "education"
)

const CategoryFirstGeneration = "first-generation"

// StudentProfile is the per-request matching input. Only CourseOfStudy, GPA,
// Categories and IncomeStatus take part in scoring.
type StudentProfile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	CourseOfStudy  string `json:"courseOfStudy,omitempty"`
	AcademicLevel  string `json:"academicLevel,omitempty"`
	GPA            string `json:"gpa,omitempty"`
	GraduationYear Year   `json:"graduationYear,omitempty"`

	Country     string `json:"country,omitempty"`
	State       string `json:"state,omitempty"`
	City        string `json:"city,omitempty"`
	StudyAbroad string `json:"studyAbroad,omitempty"`

	IncomeStatus string   `json:"incomeStatus,omitempty"`
	Ethnicity    string   `json:"ethnicity,omitempty"`
	Interests    string   `json:"interests,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

func (p *StudentProfile) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Year holds a year sent either as a JSON string or a number. Any other value
// decodes to the empty Year; it plays no part in scoring.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*y = ""
			return nil
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*y = ""
		return nil
	}
	*y = Year(n.String())
	return nil
}
