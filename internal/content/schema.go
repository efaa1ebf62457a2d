// Package content describes the editable sections of the marketing site.
// Every section is a flat set of string fields rendered by one generic
// editor, so adding a field only touches sections.yaml.
package content

import (
	_ "embed"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FieldKind selects the editor control and value rules for a field
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindURL      FieldKind = "url"
)

// Field is one editable value of a section
type Field struct {
	Key         string    `yaml:"key"`
	Label       string    `yaml:"label"`
	Kind        FieldKind `yaml:"type"`
	Placeholder string    `yaml:"placeholder"`
	HelpText    string    `yaml:"helpText"`
}

// Section is an editable block of the site
type Section struct {
	Key    string  `yaml:"key"`
	Label  string  `yaml:"label"`
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

// Schema is the ordered list of editable sections
type Schema struct {
	Sections []Section `yaml:"sections"`
	index    map[string]int
}

//go:embed sections.yaml
var sectionsYAML []byte

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
	defaultErr    error
)

// Default returns the schema embedded in the binary
func Default() (*Schema, error) {
	defaultOnce.Do(func() {
		defaultSchema, defaultErr = Parse(sectionsYAML)
	})
	return defaultSchema, defaultErr
}

// Parse decodes and checks a schema document
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse section schema: %w", err)
	}

	s.index = make(map[string]int, len(s.Sections))
	for i, sec := range s.Sections {
		if sec.Key == "" {
			return nil, fmt.Errorf("section %d has no key", i)
		}
		if _, dup := s.index[sec.Key]; dup {
			return nil, fmt.Errorf("duplicate section %q", sec.Key)
		}
		seen := make(map[string]bool, len(sec.Fields))
		for _, f := range sec.Fields {
			switch f.Kind {
			case KindText, KindTextarea, KindURL:
			default:
				return nil, fmt.Errorf("section %q field %q: unknown type %q", sec.Key, f.Key, f.Kind)
			}
			if f.Key == "" || seen[f.Key] {
				return nil, fmt.Errorf("section %q: missing or duplicate field key %q", sec.Key, f.Key)
			}
			seen[f.Key] = true
		}
		s.index[sec.Key] = i
	}
	return &s, nil
}

// Section looks up a section by key
func (s *Schema) Section(key string) (*Section, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return &s.Sections[i], true
}

// Field looks up a field by key
func (sec *Section) Field(key string) (*Field, bool) {
	for i := range sec.Fields {
		if sec.Fields[i].Key == key {
			return &sec.Fields[i], true
		}
	}
	return nil, false
}

// Merge returns stored over empty defaults for every schema field. Stored
// keys no longer in the schema are kept.
func (sec *Section) Merge(stored map[string]any) map[string]any {
	out := make(map[string]any, len(sec.Fields)+len(stored))
	for _, f := range sec.Fields {
		out[f.Key] = ""
	}
	for k, v := range stored {
		out[k] = v
	}
	return out
}

// FieldError describes invalid content for one field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a content update
type ValidationError struct {
	Section string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("invalid content for section %s: %s", e.Section, strings.Join(parts, "; "))
}

// Validate checks an update against the section's fields. Values must be
// strings; url fields must be empty or absolute http(s) URLs.
func (sec *Section) Validate(values map[string]any) error {
	var errs []FieldError

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, ok := sec.Field(k)
		if !ok {
			errs = append(errs, FieldError{Field: k, Message: "unknown field"})
			continue
		}
		str, ok := values[k].(string)
		if !ok {
			errs = append(errs, FieldError{Field: k, Message: "must be a string"})
			continue
		}
		if f.Kind == KindURL && str != "" && !isHTTPURL(str) {
			errs = append(errs, FieldError{Field: k, Message: "must be an absolute http or https URL"})
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Section: sec.Key, Fields: errs}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
