// Package catalog holds the built-in seasonal pattern and discount rule
// tables, embedded in the binary and parsed on first use.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed data/*.json
var dataFS embed.FS

// Pattern is a seed entry for a seasonal distribution pattern.
type Pattern struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Distribution map[string]float64 `json:"distribution"`
}

// Rule is a seed entry for a discount rule. Modification metadata is not
// part of the catalog; it is stamped when the rule table is built.
type Rule struct {
	ID                 string  `json:"id"`
	Category           string  `json:"category"`
	Brand              string  `json:"brand"`
	DiscountPercentage float64 `json:"discountPercentage"`
	IsEditable         bool    `json:"isEditable"`
}

var (
	patternsOnce sync.Once
	patterns     []Pattern
	patternsErr  error

	rulesOnce sync.Once
	rules     []Rule
	rulesErr  error
)

// Patterns returns the pattern catalog in file order.
func Patterns() ([]Pattern, error) {
	patternsOnce.Do(func() {
		patternsErr = load("patterns.json", &patterns)
	})
	return patterns, patternsErr
}

// Rules returns the discount rule catalog in file order.
func Rules() ([]Rule, error) {
	rulesOnce.Do(func() {
		rulesErr = load("discount_rules.json", &rules)
	})
	return rules, rulesErr
}

// MustPatterns panics on a catalog parse failure (for initialization paths).
func MustPatterns() []Pattern {
	p, err := Patterns()
	if err != nil {
		panic(fmt.Sprintf("failed to load pattern catalog: %v", err))
	}
	return p
}

// MustRules panics on a catalog parse failure (for initialization paths).
func MustRules() []Rule {
	r, err := Rules()
	if err != nil {
		panic(fmt.Sprintf("failed to load rule catalog: %v", err))
	}
	return r
}

// load parses one embedded data file.
func load(name string, v interface{}) error {
	content, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", name, err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("failed to parse catalog file %s: %w", name, err)
	}
	return nil
}
