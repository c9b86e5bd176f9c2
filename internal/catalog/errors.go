package catalog

import (
	"errors"
	"fmt"
)

// Error codes for catalog loading.
const (
	ErrCodeNotFound    = "E_NOT_FOUND"    // Catalog file missing or unreadable
	ErrCodeParse       = "E_PARSE"        // Not valid YAML, JSON or CUE
	ErrCodeSchema      = "E_SCHEMA"       // A card violates #Card
	ErrCodeDuplicateID = "E_DUPLICATE_ID" // Two cards share an id
)

// LoadError describes why a catalog file could not be loaded.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a LoadError for a missing catalog file.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsSchemaError reports whether err is a LoadError for a card that violates
// the schema.
func IsSchemaError(err error) bool {
	return hasCode(err, ErrCodeSchema)
}

// IsDuplicateID reports whether err is a LoadError for a repeated card id.
func IsDuplicateID(err error) bool {
	return hasCode(err, ErrCodeDuplicateID)
}

func hasCode(err error, code string) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}
