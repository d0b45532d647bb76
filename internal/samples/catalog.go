// Package samples serves the fixed example reports shown by GET /sample-cases.
// No model call is involved.
package samples

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"bugfinder/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

// number of entries the catalog must hold
const expectedCases = 5

// SampleCase is one catalog entry with a description per mode.
type SampleCase struct {
	Language     string                 `yaml:"language"`
	Code         string                 `yaml:"code"`
	BugType      string                 `yaml:"bug_type"`
	Descriptions map[models.Mode]string `yaml:"descriptions"`
	Suggestion   string                 `yaml:"suggestion"`
}

type Catalog struct {
	cases []SampleCase
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return parse(catalogYAML)
}

func parse(data []byte) (*Catalog, error) {
	var file struct {
		Cases []SampleCase `yaml:"cases"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sample catalog: %w", err)
	}

	if len(file.Cases) != expectedCases {
		return nil, fmt.Errorf("sample catalog must hold %d cases, found %d", expectedCases, len(file.Cases))
	}
	for i, c := range file.Cases {
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("sample case %d: %w", i+1, err)
		}
	}

	return &Catalog{cases: file.Cases}, nil
}

func (c SampleCase) validate() error {
	if strings.TrimSpace(c.Code) == "" || strings.TrimSpace(c.BugType) == "" || strings.TrimSpace(c.Suggestion) == "" {
		return fmt.Errorf("code, bug_type and suggestion are required")
	}
	for mode := range models.ValidModes {
		if strings.TrimSpace(c.Descriptions[mode]) == "" {
			return fmt.Errorf("missing %s description", mode)
		}
	}
	return nil
}

// Cases returns the raw entries in catalog order.
func (c *Catalog) Cases() []SampleCase {
	out := make([]SampleCase, len(c.cases))
	copy(out, c.cases)
	return out
}

// Len is the number of entries.
func (c *Catalog) Len() int {
	return len(c.cases)
}

// Render produces the reports for mode, keeping catalog order. Any mode other
// than casual gets the developer-friendly text.
func (c *Catalog) Render(mode models.Mode) []models.BugReport {
	if mode != models.ModeCasual {
		mode = models.ModeDeveloperFriendly
	}

	reports := make([]models.BugReport, 0, len(c.cases))
	for _, sc := range c.cases {
		reports = append(reports, models.BugReport{
			Language:    sc.Language,
			BugType:     sc.BugType,
			Description: sc.Descriptions[mode],
			Suggestion:  models.StringPtr(sc.Suggestion),
		})
	}
	return reports
}
