// Package prompts stores the LLM prompt templates as embedded JSON files,
// one file per concern, each mapping prompt keys to template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

const (
	enhanceFile            = "enhance.json"
	keyRewriteDescriptions = "rewrite-descriptions"
)

// store caches parsed prompt files so each is unmarshalled once per run.
type store struct {
	mu    sync.RWMutex
	files map[string]map[string]string
}

var prompts = &store{files: make(map[string]map[string]string)}

func (s *store) file(filename string) (map[string]string, error) {
	s.mu.RLock()
	cached, ok := s.files[filename]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var parsed map[string]string
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	s.mu.Lock()
	s.files[filename] = parsed
	s.mu.Unlock()

	return parsed, nil
}

// EnhancementPrompt returns the batched description rewrite prompt with the
// given template data applied. Expected keys: SiteTitle, Category, Pages.
func EnhancementPrompt(data map[string]string) (string, error) {
	template, err := Get(enhanceFile, keyRewriteDescriptions)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

// Get retrieves one prompt template by filename and key. The filename is
// bare, without a path (e.g. "enhance.json").
func Get(filename, key string) (string, error) {
	file, err := prompts.file(filename)
	if err != nil {
		return "", err
	}

	prompt, ok := file[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// MustGet is Get for prompts required at initialization time; it panics
// when the file or key is missing.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with values from data.
// Placeholders with no matching key are left in place.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}

// List returns the prompt keys available in a file.
func List(filename string) ([]string, error) {
	file, err := prompts.file(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(file))
	for key := range file {
		keys = append(keys, key)
	}
	return keys, nil
}

// ClearCache drops all cached prompt files. Test hook.
func ClearCache() {
	prompts.mu.Lock()
	prompts.files = make(map[string]map[string]string)
	prompts.mu.Unlock()
}
