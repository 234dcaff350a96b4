package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOrder signals an order key that is not in the registry.
	ErrUnknownOrder = errors.New("unknown order")
	// ErrInvalidAlbum signals an album that fails validation.
	ErrInvalidAlbum = errors.New("invalid album")
	// ErrUnknownField signals a predicate on a field outside the album schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrFieldMissing signals a predicate on a field the record does not carry.
	ErrFieldMissing = errors.New("field missing")
)

// FieldMissingError wraps ErrFieldMissing with the record and field involved.
type FieldMissingError struct {
	AlbumID string
	Field   string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("%s: album %q has no %q", ErrFieldMissing.Error(), e.AlbumID, e.Field)
}

func (e *FieldMissingError) Unwrap() error { return ErrFieldMissing }

// NewFieldMissing creates a field missing error.
func NewFieldMissing(albumID, field string) error {
	return &FieldMissingError{AlbumID: albumID, Field: field}
}
