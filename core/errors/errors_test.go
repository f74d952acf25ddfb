package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSchemaErrorList(t *testing.T) {
	err := NewSchemaError([]string{"unknown element 'foo'", "unexpected attribute 'bar'"})
	msg := err.Error()
	if !strings.Contains(msg, "unknown element 'foo'") {
		t.Errorf("message should contain first violation: %s", msg)
	}
	if !strings.Contains(msg, "unexpected attribute 'bar'") {
		t.Errorf("message should contain second violation: %s", msg)
	}
	if !errors.Is(err, ErrSchema) {
		t.Error("SchemaError should unwrap to ErrSchema")
	}
}

func TestSchemaErrorDisplayCap(t *testing.T) {
	var violations []string
	for i := 0; i < 25; i++ {
		violations = append(violations, fmt.Sprintf("violation %d", i))
	}
	err := NewSchemaError(violations)
	msg := err.Error()
	if !strings.Contains(msg, "(+15 more)") {
		t.Errorf("message should summarize overflow by count: %s", msg)
	}
	if strings.Contains(msg, "violation 12") {
		t.Errorf("message should not list violations past the cap: %s", msg)
	}
	if len(err.Violations) != 25 {
		t.Errorf("full list must be retained, got %d", len(err.Violations))
	}
}

func TestFilterSyntaxError(t *testing.T) {
	err := &FilterSyntaxError{Expr: "(image 1", Message: "missing closing parenthesis"}
	if !errors.Is(err, ErrFilterSyntax) {
		t.Error("FilterSyntaxError should unwrap to ErrFilterSyntax")
	}
	if !strings.Contains(err.Error(), "missing closing parenthesis") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestMergeMismatchError(t *testing.T) {
	err := &MergeMismatchError{PageID: 3, Key: "1", WantTag: "p", GotTag: "verse", GotKey: "2"}
	if !errors.Is(err, ErrMergeMismatch) {
		t.Error("MergeMismatchError should unwrap to ErrMergeMismatch")
	}
	for _, want := range []string{"page 3", "merge-next", `p/"1"`, `verse/"2"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message should contain %q: %s", want, err.Error())
		}
	}
}

func TestOrderingKeyError(t *testing.T) {
	err := &OrderingKeyError{PageID: 1, Tag: "p"}
	if !errors.Is(err, ErrOrderingKey) {
		t.Error("OrderingKeyError should unwrap to ErrOrderingKey")
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ParseError{Format: "XML", Message: "bad token", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ParseError should unwrap to the underlying error")
	}
	bare := &ParseError{Format: "TOML", Message: "bad token"}
	if !errors.Is(bare, ErrInvalidInput) {
		t.Error("ParseError without cause should unwrap to ErrInvalidInput")
	}
}
