// Package config loads and validates project publish configuration from
// TOML. A project config lists the output texts a proofing project
// publishes: each target names a slug, a title, and a filter expression
// selecting the blocks that flow into it.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	gerrors "github.com/sahitya-io/grantha/core/errors"
	"github.com/sahitya-io/grantha/core/filter"
)

// Language is an output text's language code.
type Language string

const (
	LanguageSanskrit Language = "sa"
	LanguagePrakrit  Language = "pra"
	LanguageHindi    Language = "hi"
	LanguageEnglish  Language = "en"
)

var languageLabels = map[Language]string{
	LanguageSanskrit: "Sanskrit",
	LanguagePrakrit:  "Prakrit",
	LanguageHindi:    "Hindi",
	LanguageEnglish:  "English",
}

// IsValid returns true if the language code is valid.
func (l Language) IsValid() bool {
	_, ok := languageLabels[l]
	return ok
}

// Label returns the language's display name.
func (l Language) Label() string {
	return languageLabels[l]
}

var slugRE = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateSlug checks a text slug against the URL-safe slug rules.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required: %w", gerrors.ErrInvalidInput)
	}
	if !slugRE.MatchString(slug) {
		return fmt.Errorf(
			"invalid slug %q: must contain only lowercase letters, digits, and hyphens, "+
				"and must start and end with a letter or digit: %w",
			slug, gerrors.ErrInvalidInput)
	}
	if strings.Contains(slug, "--") {
		return fmt.Errorf("invalid slug %q: consecutive dashes are not allowed: %w",
			slug, gerrors.ErrInvalidInput)
	}
	return nil
}

// PublishTarget configures one output text.
type PublishTarget struct {
	Slug       string   `toml:"slug"`
	Title      string   `toml:"title"`
	Author     string   `toml:"author,omitempty"`
	Genre      string   `toml:"genre,omitempty"`
	Language   Language `toml:"language,omitempty"`
	Target     string   `toml:"target,omitempty"`
	ParentSlug string   `toml:"parent_slug,omitempty"`
}

// Filter compiles the target's filter expression.
func (t *PublishTarget) Filter() (*filter.Filter, error) {
	return filter.New(t.Target)
}

// Project is a proofing project's publish configuration.
type Project struct {
	Publish []PublishTarget `toml:"publish"`
}

// Parse decodes and validates a TOML project config, applying defaults:
// language "sa" and an everything-matching target.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, &gerrors.ParseError{Format: "TOML", Message: err.Error()}
	}
	for i := range p.Publish {
		t := &p.Publish[i]
		if t.Language == "" {
			t.Language = LanguageSanskrit
		}
		if t.Target == "" {
			t.Target = "(and)"
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses a project config file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		if perr, ok := err.(*gerrors.ParseError); ok {
			perr.Path = path
		}
		return nil, err
	}
	return p, nil
}

// Validate checks every publish target: slug shape and uniqueness,
// title presence, language code, and filter syntax.
func (p *Project) Validate() error {
	seen := make(map[string]bool)
	for _, t := range p.Publish {
		if err := ValidateSlug(t.Slug); err != nil {
			return err
		}
		if seen[t.Slug] {
			return fmt.Errorf("duplicate publish slug %q: %w", t.Slug, gerrors.ErrInvalidInput)
		}
		seen[t.Slug] = true
		if t.Title == "" {
			return fmt.Errorf("publish target %q: title is required: %w",
				t.Slug, gerrors.ErrInvalidInput)
		}
		if !t.Language.IsValid() {
			return fmt.Errorf("publish target %q: unknown language %q: %w",
				t.Slug, t.Language, gerrors.ErrInvalidInput)
		}
		if _, err := filter.New(t.Target); err != nil {
			return fmt.Errorf("publish target %q: %w", t.Slug, err)
		}
		if t.ParentSlug != "" {
			if err := ValidateSlug(t.ParentSlug); err != nil {
				return err
			}
		}
	}
	return nil
}

// Target returns the publish target with the given slug.
func (p *Project) Target(slug string) (*PublishTarget, error) {
	for i := range p.Publish {
		if p.Publish[i].Slug == slug {
			return &p.Publish[i], nil
		}
	}
	return nil, fmt.Errorf("no publish target %q: %w", slug, gerrors.ErrNotFound)
}
