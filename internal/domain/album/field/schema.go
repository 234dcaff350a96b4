package field

import (
	"fmt"
	"strings"
)

// Schema is the fixed set of searchable fields plus the ordered list of
// fields that free text is tested against.
type Schema struct {
	fields   []Field
	byName   map[string]Field
	defaults []Field
}

// NewSchema validates and creates a Schema.
// Field names must be unique; every default must name a declared field.
func NewSchema(fields []Field, defaults []string) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("schema requires at least one field")
	}
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		if _, dup := byName[f.name]; dup {
			return Schema{}, fmt.Errorf("duplicate field %q", f.name)
		}
		byName[f.name] = f
	}

	defs := make([]Field, 0, len(defaults))
	for _, name := range defaults {
		f, ok := byName[name]
		if !ok {
			return Schema{}, fmt.Errorf("default field %q is not declared", name)
		}
		defs = append(defs, f)
	}

	return Schema{
		fields:   append([]Field(nil), fields...),
		byName:   byName,
		defaults: defs,
	}, nil
}

// Fields returns the declared fields in declaration order.
func (s Schema) Fields() []Field { return s.fields }

// Defaults returns the free-text fields in the order they are tested.
func (s Schema) Defaults() []Field { return s.defaults }

// Lookup finds a field by name, ignoring case.
func (s Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[strings.ToLower(name)]
	return f, ok
}

// Known reports whether name is a declared field, ignoring case.
func (s Schema) Known(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}
