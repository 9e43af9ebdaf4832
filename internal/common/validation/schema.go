// internal/common/validation/schema.go
package validation

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	SchemaStudentProfile = "schemas/student_profile.json"
	SchemaCatalog        = "schemas/catalog.json"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins the individual violations into one message.
func (r *ValidationResult) Error() string {
	if r == nil || r.Valid {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator holds the compiled request and catalog schemas. It is safe for
// concurrent use.
type Validator struct {
	profile *gojsonschema.Schema
	catalog *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	profile, err := compile(SchemaStudentProfile)
	if err != nil {
		return nil, err
	}
	catalog, err := compile(SchemaCatalog)
	if err != nil {
		return nil, err
	}
	return &Validator{profile: profile, catalog: catalog}, nil
}

// MustNewValidator panics if the embedded schemas do not compile.
func MustNewValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func compile(name string) (*gojsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return schema, nil
}

// ValidateProfile checks a raw StudentProfile document.
func (v *Validator) ValidateProfile(doc []byte) *ValidationResult {
	return validate(v.profile, gojsonschema.NewBytesLoader(doc))
}

// ValidateProfileValue checks an already-decoded profile (e.g. job variables).
func (v *Validator) ValidateProfileValue(doc interface{}) *ValidationResult {
	return validate(v.profile, gojsonschema.NewGoLoader(doc))
}

// ValidateCatalog checks a raw catalog file: a JSON array of scholarships.
func (v *Validator) ValidateCatalog(doc []byte) *ValidationResult {
	return validate(v.catalog, gojsonschema.NewBytesLoader(doc))
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) *ValidationResult {
	result, err := schema.Validate(doc)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: fmt.Sprintf("malformed JSON: %v", err),
				Code:    "MALFORMED_JSON",
			}},
		}
	}
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}
