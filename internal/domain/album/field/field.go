package field

import (
	"fmt"
	"strings"
)

// Mode is how a predicate value is compared against a field value.
type Mode string

// Field match modes.
const (
	// Substring matches when the field contains the value, case-insensitively.
	Substring Mode = "substring"
	// Exact matches categorical fields by case-insensitive equality.
	Exact Mode = "exact"
)

// Field is an immutable value object describing a searchable album field.
type Field struct {
	name string
	mode Mode
}

// New validates and creates a Field.
// Name must be a non-empty lower-case word, max 32 chars.
func New(name string, mode Mode) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 32 {
		return Field{}, fmt.Errorf("field name %q too long (max 32)", name)
	}
	if name != strings.ToLower(name) {
		return Field{}, fmt.Errorf("field name %q must be lower-case", name)
	}
	for _, r := range name {
		if !isWordRune(r) {
			return Field{}, fmt.Errorf("field name %q must contain only letters, digits and underscores", name)
		}
	}
	if mode != Substring && mode != Exact {
		return Field{}, fmt.Errorf("invalid match mode %q for %q", mode, name)
	}
	return Field{name: name, mode: mode}, nil
}

// Reconstruct creates a Field without validation.
func Reconstruct(name string, mode Mode) Field {
	return Field{name: name, mode: mode}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Mode returns the field's match mode.
func (f Field) Mode() Mode { return f.mode }

// Matches compares a record value against a predicate value using the field's mode.
func (f Field) Matches(value, want string) bool {
	if f.mode == Exact {
		return strings.EqualFold(value, want)
	}
	return ContainsFold(value, want)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
