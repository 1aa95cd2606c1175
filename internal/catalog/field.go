package catalog

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// YAML value kinds, named the way they are reported in diagnostics.
const (
	KindString    = "string"
	KindInteger   = "integer"
	KindFloat     = "float"
	KindBoolean   = "boolean"
	KindNull      = "null"
	KindTimestamp = "timestamp"
	KindMapping   = "mapping"
	KindSequence  = "sequence"
)

// Field is a value whose YAML type is judged by the validator rather than the
// decoder. A value of the wrong type does not fail the load: the decode error
// and the kind actually seen are kept for the rule that owns the field.
type Field[T any] struct {
	Value T

	set  bool
	kind string
	raw  string
	err  error
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Field[T]) UnmarshalYAML(n *yaml.Node) error {
	f.set = true
	f.kind = KindOf(n)
	f.raw = n.Value
	if err := n.Decode(&f.Value); err != nil {
		f.err = err
	}
	return nil
}

// Set reports whether the key carried a non-null value.
func (f Field[T]) Set() bool { return f.set }

// OK reports whether the value is present and decoded into T.
func (f Field[T]) OK() bool { return f.set && f.err == nil }

// Kind is the YAML kind of the raw value, empty when unset.
func (f Field[T]) Kind() string { return f.kind }

// Raw is the scalar text as written in the document.
func (f Field[T]) Raw() string { return f.raw }

// IsNumber reports whether the raw value is an integer or float scalar.
func (f Field[T]) IsNumber() bool {
	return f.kind == KindInteger || f.kind == KindFloat
}

// KindOf names the YAML kind of a node.
func KindOf(n *yaml.Node) string {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		return KindMapping
	case yaml.SequenceNode:
		return KindSequence
	}
	switch n.ShortTag() {
	case "!!str":
		return KindString
	case "!!int":
		return KindInteger
	case "!!float":
		return KindFloat
	case "!!bool":
		return KindBoolean
	case "!!null":
		return KindNull
	case "!!timestamp":
		return KindTimestamp
	}
	return n.ShortTag()
}

// List is a sequence decoded one element at a time so that every element
// keeps its position. yaml.v3 never calls an element's unmarshaler for a null
// item; List does, which leaves a null element in place with kind null.
type List[T any] struct {
	Value []T

	set  bool
	kind string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List[T]) UnmarshalYAML(n *yaml.Node) error {
	l.set = true
	l.kind = KindOf(n)
	if l.kind != KindSequence {
		return nil
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	l.Value = make([]T, len(n.Content))
	for i, el := range n.Content {
		var err error
		if u, ok := any(&l.Value[i]).(yaml.Unmarshaler); ok {
			err = u.UnmarshalYAML(el)
		} else {
			err = el.Decode(&l.Value[i])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Set reports whether the key carried a non-null value.
func (l List[T]) Set() bool { return l.set }

// OK reports whether the value is a sequence.
func (l List[T]) OK() bool { return l.set && l.kind == KindSequence }

// Kind is the YAML kind of the raw value, empty when unset.
func (l List[T]) Kind() string { return l.kind }

// presence is the set of keys written in a mapping node.
type presence map[string]bool

func keysOf(n *yaml.Node) presence {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	keys := make(presence, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys[n.Content[i].Value] = true
	}
	return keys
}

func isMapping(n *yaml.Node) bool {
	return KindOf(n) == KindMapping
}

// section is the bookkeeping shared by nested mappings: the keys written, the
// YAML kind actually found and any type errors below it. Type errors are kept
// on the section rather than returned, because yaml.v3 drops list elements
// whose unmarshaler fails and the element index must survive for diagnostics.
type section struct {
	present  presence
	kind     string
	problems []string
}

// Has reports whether key is written in the mapping.
func (s *section) Has(key string) bool { return s.present[key] }

// Kind is the YAML kind of the value; only KindMapping is usable.
func (s *section) Kind() string { return s.kind }

// Problems lists type errors found while decoding the section's fields.
func (s *section) Problems() []string { return s.problems }

func (s *section) accept(n *yaml.Node) bool {
	s.kind = KindOf(n)
	return s.kind == KindMapping
}

func (s *section) record(n *yaml.Node, err error) error {
	s.present = keysOf(n)
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		s.problems = typeErr.Errors
		return nil
	}
	return err
}
