package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OtherCategory collects pages that match no pattern.
const OtherCategory = "Other"

// CategoryPattern binds a category name to its matching keywords.
// Declaration order is precedence: when two categories tie on score, the
// earlier one wins, so the table's order is part of its meaning.
type CategoryPattern struct {
	Category string   `yaml:"category" json:"category"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// DefaultPatterns is the built-in table, tuned for clinic and practice
// sites. Callers replace or merge over it; nothing here is load-bearing
// beyond being a sensible default.
func DefaultPatterns() []CategoryPattern {
	return []CategoryPattern{
		{Category: "Services", Keywords: []string{
			"services", "therapy", "treatment", "procedure", "injection",
			"prp", "bmac", "decompression", "ablation", "stimulation",
			"surgery", "surgical", "operation", "removal", "repair",
		}},
		{Category: "Areas Treated", Keywords: []string{
			"areas-we-treat", "conditions", "pain", "sciatica", "shoulder",
			"hip", "back", "neck", "knee", "ankle", "elbow", "spine",
			"joint", "muscle", "tendon", "ligament",
		}},
		{Category: "Blog", Keywords: []string{
			"blog", "article", "post", "news", "education", "learn",
			"guide", "tips", "advice", "resource", "insights", "update",
			"announcement", "featured", "interview",
		}},
		{Category: "Providers", Keywords: []string{
			"physician", "provider", "doctor", "team", "staff",
			"pa-c", "nurse", "therapist", "surgeon", "specialist", "expert",
		}},
		{Category: "Locations", Keywords: []string{
			"location", "office", "clinic", "contact", "directions",
			"address", "map", "hours", "parking", "facility",
		}},
		{Category: "Patient Resources", Keywords: []string{
			"patient", "form", "insurance", "download", "faq",
			"appointment", "schedule", "privacy", "policy",
			"billing", "payment", "testimonial", "review",
		}},
		{Category: "About", Keywords: []string{
			"about", "mission", "vision", "values", "history",
			"career", "culture", "story", "welcome", "who-we-are",
		}},
	}
}

// patternsFile is the on-disk YAML shape for a custom table.
type patternsFile struct {
	Merge      bool              `yaml:"merge"`
	Categories []CategoryPattern `yaml:"categories"`
}

// LoadPatterns reads a YAML pattern table. With merge true the entries
// overlay the defaults; otherwise they replace the table entirely.
func LoadPatterns(path string) ([]CategoryPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patterns file: %w", err)
	}

	var file patternsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse patterns file: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("patterns file %s defines no categories", path)
	}
	for _, entry := range file.Categories {
		if entry.Category == "" {
			return nil, fmt.Errorf("patterns file %s has an entry without a category name", path)
		}
	}

	if file.Merge {
		return MergePatterns(DefaultPatterns(), file.Categories), nil
	}
	return file.Categories, nil
}

// MergePatterns overlays entries onto a base table. An existing category
// keeps its position but takes the overlay's keyword list; new categories
// append in overlay order.
func MergePatterns(base, overlay []CategoryPattern) []CategoryPattern {
	merged := make([]CategoryPattern, len(base))
	copy(merged, base)

	position := make(map[string]int, len(base))
	for i, entry := range base {
		position[entry.Category] = i
	}

	for _, entry := range overlay {
		if i, ok := position[entry.Category]; ok {
			merged[i].Keywords = entry.Keywords
			continue
		}
		position[entry.Category] = len(merged)
		merged = append(merged, entry)
	}
	return merged
}
