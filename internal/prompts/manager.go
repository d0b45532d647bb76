package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"bugfinder/internal/models"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

const (
	ExplainTemplate  = "explain"
	AnalysisTemplate = "analysis"
	DefaultVariant   = "default"
)

// builds prompts from named templates; implemented by PromptManager and test fakes
type PromptProvider interface {
	BuildPrompt(name, variant string, data interface{}) (string, error)
	GetTemplates() map[string]map[string]*template.Template
}

type PromptManager struct {
	templates map[string]map[string]*template.Template // name -> variant -> template
}

// loaded prompt template file
type PromptTemplate struct {
	BasePrompt   string            `yaml:"base_prompt"`
	Variants     map[string]string `yaml:"variants"`
	SuffixPrompt string            `yaml:"suffix_prompt"`
}

// values available inside every template
type PromptData struct {
	Language string
	Code     string
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		templates: make(map[string]map[string]*template.Template),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// renders the template registered under name/variant
func (pm *PromptManager) BuildPrompt(name, variant string, data interface{}) (string, error) {
	variants, exists := pm.templates[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	tmpl, exists := variants[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for template '%s'", variant, name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render template %s/%s: %w", name, variant, err)
	}
	return sb.String(), nil
}

func (pm *PromptManager) GetTemplates() map[string]map[string]*template.Template {
	return pm.templates
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if len(promptTemplate.Variants) == 0 {
			return fmt.Errorf("template file %s declares no variants", entry.Name())
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		pm.templates[name] = make(map[string]*template.Template)

		for variant, variantPrompt := range promptTemplate.Variants {
			full := joinSections(promptTemplate.BasePrompt, variantPrompt, promptTemplate.SuffixPrompt)

			tmpl, err := template.New(name + "/" + variant).Option("missingkey=error").Parse(full)
			if err != nil {
				return fmt.Errorf("failed to compile template %s/%s: %w", name, variant, err)
			}
			pm.templates[name][variant] = tmpl
		}
	}

	return nil
}

// joins the non-empty sections with a blank line
func joinSections(sections ...string) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// BuildExplanationPrompt renders the tone-dependent explanation prompt.
func BuildExplanationPrompt(p PromptProvider, language, code string, mode models.Mode) (string, error) {
	variant := string(models.ModeCasual)
	if mode == models.ModeDeveloperFriendly {
		variant = string(models.ModeDeveloperFriendly)
	}
	return p.BuildPrompt(ExplainTemplate, variant, PromptData{Language: language, Code: code})
}

// BuildAnalysisPrompt renders the fixed JSON analysis prompt.
func BuildAnalysisPrompt(p PromptProvider, language, code string) (string, error) {
	return p.BuildPrompt(AnalysisTemplate, DefaultVariant, PromptData{Language: language, Code: code})
}
