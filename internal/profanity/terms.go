package profanity

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed terms.yaml
var embeddedTerms []byte

// TermGroup is one locale/category slice of the blocklist.
type TermGroup struct {
	Locale   string   `yaml:"locale"`
	Category string   `yaml:"category"`
	Terms    []string `yaml:"terms"`
}

type termFile struct {
	Groups []TermGroup `yaml:"groups"`
}

// LoadTerms parses a YAML term file and returns every term, de-duplicated,
// in file order.
func LoadTerms(data []byte) ([]string, error) {
	var file termFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse term list: %w", err)
	}

	seen := make(map[string]bool)
	terms := make([]string, 0, 128)
	for _, g := range file.Groups {
		for _, t := range g.Terms {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			terms = append(terms, t)
		}
	}
	return terms, nil
}

// EmbeddedTerms returns the blocklist compiled into the binary.
func EmbeddedTerms() ([]string, error) {
	return LoadTerms(embeddedTerms)
}
