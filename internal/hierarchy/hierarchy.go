// Package hierarchy describes the product ranges, projects and components
// an assessment walks.
package hierarchy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Names substituted for unnamed nodes.
const (
	UnknownRange     = "Unknown Range"
	UnknownProject   = "Unknown Project"
	UnknownComponent = "Unknown Component"
)

var ErrInvalid = errors.New("invalid hierarchy")

// Component is a leaf of the hierarchy, assessed at the operational level.
type Component struct {
	Name string `json:"name"`
}

// Project is assessed at the project level.
type Project struct {
	Name       string      `json:"name"`
	Components []Component `json:"components"`
}

// Range is a product range, assessed at the strategic level.
type Range struct {
	Name     string    `json:"name"`
	Projects []Project `json:"projects"`
}

// Hierarchy is the read-only input of an assessment.
type Hierarchy struct {
	Ranges []Range `json:"ranges"`
}

// UnmarshalJSON accepts "product_range" as an alias of "ranges".
// When both keys are present "ranges" wins.
func (h *Hierarchy) UnmarshalJSON(data []byte) error {
	var raw struct {
		Ranges       []Range `json:"ranges"`
		ProductRange []Range `json:"product_range"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.Ranges = raw.Ranges
	if h.Ranges == nil {
		h.Ranges = raw.ProductRange
	}
	return nil
}

// DisplayName returns the range name or UnknownRange.
func (r Range) DisplayName() string {
	return nameOr(r.Name, UnknownRange)
}

// DisplayName returns the project name or UnknownProject.
func (p Project) DisplayName() string {
	return nameOr(p.Name, UnknownProject)
}

// DisplayName returns the component name or UnknownComponent.
func (c Component) DisplayName() string {
	return nameOr(c.Name, UnknownComponent)
}

// Empty reports whether the hierarchy has no ranges.
func (h *Hierarchy) Empty() bool {
	return h == nil || len(h.Ranges) == 0
}

// Nodes counts the ranges, projects and components of the hierarchy.
func (h *Hierarchy) Nodes() (ranges, projects, components int) {
	if h == nil {
		return 0, 0, 0
	}
	for _, r := range h.Ranges {
		ranges++
		for _, p := range r.Projects {
			projects++
			components += len(p.Components)
		}
	}
	return ranges, projects, components
}

// Parse decodes a hierarchy from JSON.
func Parse(data []byte) (*Hierarchy, error) {
	var h Hierarchy
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &h, nil
}

// Load reads a hierarchy from a JSON file.
func Load(path string) (*Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy: %w", err)
	}
	return Parse(data)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
