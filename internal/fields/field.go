// Package fields manages the reference list of extracted field names and which
// of them must meet the confidence threshold.
package fields

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/confidence"
)

// Field is one entry in the field reference list.
type Field struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Required  bool      `json:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to add a field definition.
// Required defaults to true when omitted.
type CreateCommand struct {
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label" yaml:"label"`
	Required *bool  `json:"required,omitempty" yaml:"required"`
}

// UpdateCommand replaces a field definition's mutable attributes.
type UpdateCommand struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// RequiredSetOf returns the names in defs flagged required. An empty reference
// list yields nil, meaning every field counts; a list with nothing flagged
// required yields an empty set, meaning no field counts.
func RequiredSetOf(defs []Field) *confidence.RequiredSet {
	if len(defs) == 0 {
		return nil
	}

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		if d.Required {
			names = append(names, d.Name)
		}
	}
	return confidence.NewRequiredSet(names...)
}

func (c CreateCommand) required() bool {
	return c.Required == nil || *c.Required
}

func (c *CreateCommand) normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Label = strings.TrimSpace(c.Label)
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.Label == "" {
		c.Label = c.Name
	}
	return nil
}

func (c *UpdateCommand) normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Label = strings.TrimSpace(c.Label)
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.Label == "" {
		c.Label = c.Name
	}
	return nil
}
