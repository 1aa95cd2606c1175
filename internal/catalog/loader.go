package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned by LoadFile when the path does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrEmptyDocument is returned for a file with no YAML content.
	ErrEmptyDocument = errors.New("empty document")
)

// NotMappingError reports a document whose root is not a mapping.
type NotMappingError struct {
	Kind string
}

func (e *NotMappingError) Error() string {
	return fmt.Sprintf("check document must be a mapping, got %s", e.Kind)
}

// LoadFile reads and parses a single check file.
func LoadFile(path string) (*Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a check document.
//
// A *yaml.TypeError is returned together with the partially decoded check
// when a section has the wrong shape; the caller decides whether to keep
// going. Any other error leaves the check nil.
func Parse(data []byte) (*Check, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || KindOf(doc.Content[0]) == KindNull {
		return nil, ErrEmptyDocument
	}
	if kind := KindOf(doc.Content[0]); kind != KindMapping {
		return nil, &NotMappingError{Kind: kind}
	}

	var c Check
	if err := doc.Decode(&c); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return &c, typeErr
		}
		return nil, err
	}
	return &c, nil
}
