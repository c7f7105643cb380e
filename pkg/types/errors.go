package types

import "errors"

// Lookup and identity errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrInvalidID = errors.New("invalid entity ID")
)

// Validation errors.
var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrEmptyLabel       = errors.New("label must not be empty")
	ErrInvalidFieldType = errors.New("invalid field type")
)

// ErrConflict is returned when a uniqueness retry loop (slug or field name)
// exhausts its attempts without finding a free value.
var ErrConflict = errors.New("uniqueness conflict not resolved")

// Image ingestion rejections.
var (
	ErrFileTooLarge     = errors.New("file exceeds maximum upload size")
	ErrUnsupportedImage = errors.New("unsupported image type")
)
