// Package knowledge holds the troubleshooting knowledge base: per-category
// lists of known-good steps and the phrases that should trigger escalation.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// maxSearchResults bounds how many steps a search returns.
const maxSearchResults = 5

// Category is one troubleshooting domain in the knowledge base.
type Category struct {
	CommonSteps        []string `json:"common_steps"`
	EscalationTriggers []string `json:"escalation_triggers"`
}

// Base is an in-memory knowledge base. Load it once at startup; reads are
// safe for concurrent use as long as nothing mutates the maps afterwards.
type Base struct {
	categories map[string]Category
}

// Default returns the built-in knowledge base used when no file is
// configured or the configured file cannot be read.
func Default() *Base {
	return &Base{categories: map[string]Category{
		"network_issues": {
			CommonSteps: []string{
				"Verify MAC address registration with ISP",
				"Check DHCP settings and assign static IP",
				"Run network diagnostics (ping/traceroute)",
				"Power cycle modem and router",
				"Check cable connections",
			},
			EscalationTriggers: []string{"intermittent connectivity", "packet loss", "ISP issues"},
		},
		"hardware_issues": {
			CommonSteps: []string{
				"Perform device restart",
				"Check physical connections",
				"Verify power supply",
				"Test with different cables",
				"Factory reset if necessary",
			},
			EscalationTriggers: []string{"hardware failure", "device not responding", "multiple device issues"},
		},
		"software_issues": {
			CommonSteps: []string{
				"Clear cache and cookies",
				"Update software/firmware",
				"Check system requirements",
				"Reinstall application",
				"Reset to default settings",
			},
			EscalationTriggers: []string{"software bug", "compatibility issues", "system crashes"},
		},
	}}
}

// LoadFile reads a knowledge base from a JSON file mapping category names to
// Category objects.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}
	var categories map[string]Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}
	return &Base{categories: categories}, nil
}

// Categories returns the category names in sorted order.
func (b *Base) Categories() []string {
	names := make([]string, 0, len(b.categories))
	for name := range b.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Triggers returns the escalation trigger phrases for a category, or nil if
// the category is unknown.
func (b *Base) Triggers(category string) []string {
	return b.categories[normalize(category)].EscalationTriggers
}

// Search returns up to five steps relevant to query. A non-empty category
// restricts the search to that category's steps; otherwise all categories are
// pooled. With a query, steps containing any query word rank in; without one,
// the first steps in category order are returned.
func (b *Base) Search(query, category string) []string {
	var steps []string
	if cat, ok := b.categories[normalize(category)]; ok && category != "" {
		steps = cat.CommonSteps
	} else {
		for _, name := range b.Categories() {
			steps = append(steps, b.categories[name].CommonSteps...)
		}
	}

	if query != "" {
		words := strings.Fields(strings.ToLower(query))
		var matched []string
		for _, step := range steps {
			lower := strings.ToLower(step)
			for _, word := range words {
				if strings.Contains(lower, word) {
					matched = append(matched, step)
					break
				}
			}
		}
		steps = matched
	}

	if len(steps) > maxSearchResults {
		steps = steps[:maxSearchResults]
	}
	return steps
}

func normalize(category string) string {
	return strings.ReplaceAll(strings.ToLower(category), " ", "_")
}
