// Package errors provides the shared error taxonomy for the Grantha codebase.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrSchema indicates a proofing or TEI schema violation
	ErrSchema = errors.New("schema violation")
	// ErrFilterSyntax indicates a malformed filter expression
	ErrFilterSyntax = errors.New("filter syntax error")
	// ErrMergeMismatch indicates an impossible cross-page continuation
	ErrMergeMismatch = errors.New("merge mismatch")
	// ErrOrderingKey indicates a block with no derivable ordering key
	ErrOrderingKey = errors.New("no ordering key")
)

// schemaErrorDisplayCap bounds how many violations Error() prints before
// summarizing the remainder by count. The full list is always retained.
const schemaErrorDisplayCap = 10

// SchemaError reports every structural or attribute violation found while
// validating a page document. It is always a complete list, never just the
// first failure.
type SchemaError struct {
	Violations []string
}

func NewSchemaError(violations []string) *SchemaError {
	return &SchemaError{Violations: violations}
}

func (e *SchemaError) Error() string {
	n := len(e.Violations)
	if n == 0 {
		return "schema violation"
	}
	shown := e.Violations
	var suffix string
	if n > schemaErrorDisplayCap {
		shown = e.Violations[:schemaErrorDisplayCap]
		suffix = fmt.Sprintf("; (+%d more)", n-schemaErrorDisplayCap)
	}
	return fmt.Sprintf("%d schema violation(s): %s%s", n, strings.Join(shown, "; "), suffix)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// FilterSyntaxError reports a malformed filter expression. Parsing fails
// fast; a bad expression is never partially evaluated.
type FilterSyntaxError struct {
	Expr    string // The expression that failed to parse
	Message string // Human-readable error message
}

func (e *FilterSyntaxError) Error() string {
	return fmt.Sprintf("invalid filter %q: %s", e.Expr, e.Message)
}

func (e *FilterSyntaxError) Unwrap() error {
	return ErrFilterSyntax
}

// MergeMismatchError reports a cross-page continuation between incompatible
// blocks. The assembler surfaces these instead of silently dropping the
// continuation.
type MergeMismatchError struct {
	PageID  int    // Page on which the mismatched continuation was found
	Key     string // Ordering key of the open block
	WantTag string // Block type of the open block
	GotTag  string // Block type actually found
	GotKey  string // Ordering key actually found
}

func (e *MergeMismatchError) Error() string {
	return fmt.Sprintf(
		"page %d: block %s/%q marked merge-next but next block is %s/%q",
		e.PageID, e.WantTag, e.Key, e.GotTag, e.GotKey)
}

func (e *MergeMismatchError) Unwrap() error {
	return ErrMergeMismatch
}

// OrderingKeyError reports a block whose ordering key cannot be derived
// because no preceding block of its type carries an explicit key.
type OrderingKeyError struct {
	PageID int    // Page the block appears on
	Tag    string // Block type
}

func (e *OrderingKeyError) Error() string {
	return fmt.Sprintf(
		"page %d: %s block has no ordering key and no preceding key to derive one from",
		e.PageID, e.Tag)
}

func (e *OrderingKeyError) Unwrap() error {
	return ErrOrderingKey
}

// ParseError represents a parsing or deserialization error.
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "TOML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}
