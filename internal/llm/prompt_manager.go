package llm

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// ModelProvider names the backend a prompt variant is tuned for.
type ModelProvider string

// PromptKey names a prompt task.
type PromptKey string

const (
	DefaultProvider  ModelProvider = "default"
	CodeReviewPrompt PromptKey     = "code_review"
)

// ReviewPromptData is the template input for CodeReviewPrompt.
type ReviewPromptData struct {
	Title string
	Diff  string
}

// PromptManager holds the embedded prompt templates, indexed by task and
// provider. Files are named key_provider.prompt.
type PromptManager struct {
	prompts map[PromptKey]map[ModelProvider]*template.Template
}

func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{prompts: make(map[PromptKey]map[ModelProvider]*template.Template)}

	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, provider, err := parsePromptFileName(entry.Name())
		if err != nil {
			return nil, err
		}
		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", entry.Name(), err)
		}
		if err := pm.register(key, provider, string(content)); err != nil {
			return nil, fmt.Errorf("failed to register prompt from file %s: %w", entry.Name(), err)
		}
	}
	return pm, nil
}

func parsePromptFileName(name string) (PromptKey, ModelProvider, error) {
	base := strings.TrimSuffix(name, path.Ext(name))
	i := strings.LastIndex(base, "_")
	if i <= 0 || i == len(base)-1 {
		return "", "", fmt.Errorf("invalid prompt filename %s: expected key_provider.prompt", name)
	}
	return PromptKey(base[:i]), ModelProvider(base[i+1:]), nil
}

func (pm *PromptManager) register(key PromptKey, provider ModelProvider, content string) error {
	tmpl, err := template.New(string(key) + "_" + string(provider)).Option("missingkey=error").Parse(content)
	if err != nil {
		return fmt.Errorf("could not parse template: %w", err)
	}
	if pm.prompts[key] == nil {
		pm.prompts[key] = make(map[ModelProvider]*template.Template)
	}
	pm.prompts[key][provider] = tmpl
	return nil
}

// Get returns the provider-specific template, falling back to the default variant.
func (pm *PromptManager) Get(key PromptKey, provider ModelProvider) (*template.Template, error) {
	variants, ok := pm.prompts[key]
	if !ok {
		return nil, fmt.Errorf("no prompts found for key '%s'", key)
	}
	if tmpl, ok := variants[provider]; ok {
		return tmpl, nil
	}
	if tmpl, ok := variants[DefaultProvider]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("no template found for key '%s' and provider '%s', and no default was available", key, provider)
}

// Render executes the template for key and provider with data.
func (pm *PromptManager) Render(key PromptKey, provider ModelProvider, data any) (string, error) {
	tmpl, err := pm.Get(key, provider)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
