package fields

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/docket/pkg/query"
	"github.com/JaimeStill/docket/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "field_definitions", "f").
	Project("id", "ID").
	Project("name", "Name").
	Project("label", "Label").
	Project("required", "Required").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

const returning = "RETURNING id, name, label, required, created_at, updated_at"

// Filters contains optional filtering criteria for field queries.
// Name uses case-insensitive contains matching; Required is exact.
type Filters struct {
	Name     *string `json:"name,omitempty"`
	Required *bool   `json:"required,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("Required", f.Required)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if r := values.Get("required"); r != "" {
		if v, err := strconv.ParseBool(r); err == nil {
			f.Required = &v
		}
	}

	return f
}

func scanField(s repository.Scanner) (Field, error) {
	var f Field
	err := s.Scan(
		&f.ID,
		&f.Name,
		&f.Label,
		&f.Required,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}
