// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfile(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"empty object", `{}`, true},
		{"full profile", `{"courseOfStudy":"engineering","gpa":"8.0-8.99","categories":["first-generation"],"incomeStatus":"low-income","graduationYear":"2026","studyAbroad":"yes"}`, true},
		{"unknown fields allowed", `{"nickname":"sam"}`, true},
		{"null body", `null`, false},
		{"array body", `[]`, false},
		{"unscored course", `{"courseOfStudy":"social-sciences"}`, true},
		{"numeric course", `{"courseOfStudy":3}`, false},
		{"categories not array", `{"categories":"first-generation"}`, false},
		{"numeric gpa", `{"gpa":8.5}`, false},
		{"numeric graduation year", `{"graduationYear":2026}`, true},
		{"boolean graduation year", `{"graduationYear":true}`, false},
		{"malformed", `{"gpa":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateProfile([]byte(tt.doc))
			assert.Equal(t, tt.valid, res.Valid, res.Error())
			if !tt.valid {
				assert.NotEmpty(t, res.Errors)
				assert.NotEmpty(t, res.Error())
			}
		})
	}
}

func TestValidateProfileValue(t *testing.T) {
	v := MustNewValidator()

	res := v.ValidateProfileValue(map[string]interface{}{"categories": []interface{}{"first-generation"}})
	assert.True(t, res.Valid)

	res = v.ValidateProfileValue(map[string]interface{}{"incomeStatus": 12})
	assert.False(t, res.Valid)
}

func TestValidateCatalog(t *testing.T) {
	v := MustNewValidator()

	ok := `[{"title":"STEM Innovation Grant","type":"merit","deadline":"2025-08-15","eligibility":["CPI 8.0+"]}]`
	assert.True(t, v.ValidateCatalog([]byte(ok)).Valid)

	missingTitle := `[{"type":"merit"}]`
	res := v.ValidateCatalog([]byte(missingTitle))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error(), "title")

	badType := `[{"title":"x","type":"lottery"}]`
	assert.False(t, v.ValidateCatalog([]byte(badType)).Valid)
}
