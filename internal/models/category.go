package models

import (
	"errors"
	"fmt"
	"strings"
)

// Thresholds are the registry-level score cut-offs for a category. They must be
// strictly descending: Excellent > Good > Acceptable > Poor.
type Thresholds struct {
	Excellent  float64 `yaml:"excellent" json:"excellent"`
	Good       float64 `yaml:"good" json:"good"`
	Acceptable float64 `yaml:"acceptable" json:"acceptable"`
	Poor       float64 `yaml:"poor" json:"poor"`
}

// Validate checks that the thresholds are in (0, 1] and strictly descending.
func (t Thresholds) Validate() error {
	values := []struct {
		name  string
		value float64
	}{
		{"excellent", t.Excellent},
		{"good", t.Good},
		{"acceptable", t.Acceptable},
		{"poor", t.Poor},
	}

	for i, v := range values {
		if v.value <= 0 || v.value > 1 {
			return fmt.Errorf("threshold '%s' must be in (0, 1], got %g", v.name, v.value)
		}
		if i > 0 && v.value >= values[i-1].value {
			return fmt.Errorf("threshold '%s' (%g) must be lower than '%s' (%g)", v.name, v.value, values[i-1].name, values[i-1].value)
		}
	}

	return nil
}

// Category is a named quality dimension being scored.
type Category struct {
	Name          string     `yaml:"name" json:"name"`
	OverallWeight float64    `yaml:"weight" json:"weight"`
	Description   string     `yaml:"description,omitempty" json:"description,omitempty"`
	Thresholds    Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Validate checks a single category definition.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category name must not be empty")
	}
	if c.OverallWeight <= 0 || c.OverallWeight > 1 {
		return fmt.Errorf("category '%s': weight must be in (0, 1], got %g", c.Name, c.OverallWeight)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("category '%s': %w", c.Name, err)
	}
	return nil
}

// Registry is the fixed set of categories for a run. It is immutable once
// built; every accessor hands out copies.
type Registry struct {
	categories []Category
	index      map[string]int
}

// NewRegistry validates categories and builds a registry that preserves
// declaration order.
func NewRegistry(categories ...Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, errors.New("category registry must contain at least one category")
	}

	r := &Registry{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate category '%s'", c.Name)
		}
		r.index[c.Name] = len(r.categories)
		r.categories = append(r.categories, c)
	}

	return r, nil
}

// Categories returns the categories in declaration order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Names returns the category names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.categories))
	for i, c := range r.categories {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the category with the given name.
func (r *Registry) Lookup(name string) (Category, bool) {
	i, ok := r.index[name]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// Position returns the declaration index of a category, or -1 if it isn't
// registered.
func (r *Registry) Position(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.categories)
}

// TotalWeight is the sum of every category's overall weight.
func (r *Registry) TotalWeight() float64 {
	total := 0.0
	for _, c := range r.categories {
		total += c.OverallWeight
	}
	return total
}
