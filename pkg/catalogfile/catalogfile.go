// pkg/catalogfile/catalogfile.go
package catalogfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scholarship-matcher/internal/common/validation"
	"scholarship-matcher/internal/models"
)

// LoadCatalog reads a JSON array of scholarships, validates it against the
// catalog schema and assigns 1-based ids to entries without one.
func LoadCatalog(path string) ([]models.Scholarship, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse is LoadCatalog over an in-memory document.
func Parse(data []byte) ([]models.Scholarship, error) {
	v, err := validation.NewValidator()
	if err != nil {
		return nil, err
	}
	if res := v.ValidateCatalog(data); !res.Valid {
		return nil, fmt.Errorf("catalog failed validation: %s", res.Error())
	}

	var items []models.Scholarship
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]int, len(items))
	for i := range items {
		key := strings.ToLower(strings.TrimSpace(items[i].Title))
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate title %q at entries %d and %d", items[i].Title, prev, i)
		}
		seen[key] = i

		if items[i].ID == 0 {
			items[i].ID = int64(i + 1)
		}
		if items[i].Eligibility == nil {
			items[i].Eligibility = []string{}
		}
	}
	return items, nil
}

// SaveCatalog writes items as an indented JSON array, creating parent directories.
func SaveCatalog(path string, items []models.Scholarship) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}
