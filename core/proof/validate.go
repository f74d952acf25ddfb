package proof

import (
	"fmt"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"

	gerrors "github.com/sahitya-io/grantha/core/errors"
)

// Level classifies a validation result.
type Level string

// Validation levels.
const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Result is a single validation finding.
type Result struct {
	Level   Level
	Message string
}

func errorf(format string, args ...any) Result {
	return Result{Level: LevelError, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a proofing XML document against the schema tables and
// returns every violation found, never just the first. An empty slice
// means the document is valid.
func Validate(content string) []Result {
	doc, err := xmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return []Result{errorf("XML parse error: %v", err)}
	}
	root := firstElement(doc)
	if root == nil {
		return []Result{errorf("document has no root element")}
	}
	if root.Data != "page" {
		return []Result{errorf("root tag must be 'page', got '%s'", root.Data)}
	}

	results := validateElement(root, proofingSpec, nil)

	for el := root.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == xmlquery.ElementNode && el.Data == string(BlockMetadata) {
			results = append(results, ValidateMetadata(el.InnerText())...)
		}
	}
	return results
}

// ValidateTEI checks a rewritten TEI fragment against the output
// vocabulary tables. Used by the publish pipeline to re-validate its own
// output before persisting.
func ValidateTEI(fragment string) []Result {
	doc, err := xmlquery.Parse(strings.NewReader(fragment))
	if err != nil {
		return []Result{errorf("XML parse error: %v", err)}
	}
	root := firstElement(doc)
	if root == nil {
		return []Result{errorf("fragment has no root element")}
	}
	return validateElement(root, teiSpec, nil)
}

// validateElement walks one element against the given spec table,
// collecting violations for unknown tags, illegal attributes, and illegal
// children. An unknown tag is terminal for its subtree; its children are
// not inspected further.
func validateElement(el *xmlquery.Node, specs map[string]Spec, path []string) []Result {
	tag := qualifiedName(el.Prefix, el.Data)
	current := append(path, tag)
	loc := strings.Join(current, "/")

	spec, ok := specs[tag]
	if !ok {
		return []Result{errorf("Unknown element '%s' at %s", tag, loc)}
	}

	var results []Result
	for _, a := range el.Attr {
		name := qualifiedName(a.Name.Space, a.Name.Local)
		if !spec.Attrib[name] {
			results = append(results, errorf(
				"Unexpected attribute '%s' on element '%s' at %s", name, tag, loc))
		}
	}

	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		childTag := qualifiedName(child.Prefix, child.Data)
		if !spec.Children[childTag] {
			results = append(results, errorf(
				"Unexpected child element '%s' in '%s' at %s", childTag, tag, loc))
		}
		results = append(results, validateElement(child, specs, current)...)
	}
	return results
}

func qualifiedName(space, local string) string {
	if space == "" {
		return local
	}
	return space + ":" + local
}

// ValidateMetadata checks metadata block content: one key=value pair per
// line, keys restricted to the metadata field whitelist.
func ValidateMetadata(text string) []Result {
	var results []Result
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, _, found := strings.Cut(line, "=")
		if !found {
			results = append(results, errorf(
				"Metadata line %d: expected 'key=value' format, got '%s'", i+1, line))
			continue
		}
		key = strings.TrimSpace(key)
		if !metadataFields[key] {
			results = append(results, errorf(
				"Metadata line %d: unknown field '%s' (allowed: %s)",
				i+1, key, strings.Join(sortedKeys(metadataFields), ", ")))
		}
	}
	return results
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Messages extracts the message strings from a result list.
func Messages(results []Result) []string {
	msgs := make([]string, len(results))
	for i, r := range results {
		msgs[i] = r.Message
	}
	return msgs
}

// AsError converts a non-empty result list into a SchemaError, or returns
// nil for an empty list.
func AsError(results []Result) error {
	if len(results) == 0 {
		return nil
	}
	return gerrors.NewSchemaError(Messages(results))
}
