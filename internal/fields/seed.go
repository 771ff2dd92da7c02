package fields

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSeed is returned when a seed document cannot be decoded.
var ErrInvalidSeed = errors.New("invalid field seed")

// Seed is the YAML document accepted by the field import tooling:
//
//	fields:
//	  - name: InvoiceTotal
//	    label: Invoice total
//	    required: true
type Seed struct {
	Fields []CreateCommand `yaml:"fields"`
}

// ParseSeed decodes a YAML seed document. Names must be present and unique.
func ParseSeed(r io.Reader) ([]CreateCommand, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSeed)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	seen := make(map[string]struct{}, len(seed.Fields))
	for i := range seed.Fields {
		if err := seed.Fields[i].normalize(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidSeed, i, err)
		}
		name := seed.Fields[i].Name
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidSeed, name)
		}
		seen[name] = struct{}{}
	}

	return seed.Fields, nil
}
