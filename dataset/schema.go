package dataset

import (
	"fmt"
)

/*
Schema is the set of keys every example of a dataset is expected to
provide. It is established once where examples enter the program (a
parsed header, a table's columns, the keys of a first document) and
used to validate the rest.
*/
type Schema struct {
	names   []string
	indices map[string]int
}

/*
NewSchema takes a list of key names and returns a Schema with them or
an error if one of them is empty or repeated, or if ClassKey is not
among them.
*/
func NewSchema(names []string) (*Schema, error) {
	s := &Schema{indices: make(map[string]int, len(names))}
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("building schema: empty name at position %d", i+1)
		}
		if _, ok := s.indices[n]; ok {
			return nil, fmt.Errorf("building schema: repeated name %q", n)
		}
		s.indices[n] = i
		s.names = append(s.names, n)
	}
	if _, ok := s.indices[ClassKey]; !ok {
		return nil, fmt.Errorf("building schema: %w", &MissingAttributeError{Attribute: ClassKey})
	}
	return s, nil
}

// SchemaFor returns the schema of the first example in the given slice
func SchemaFor(examples []Example) (*Schema, error) {
	if len(examples) == 0 {
		return nil, ErrEmptyDataset
	}
	names := append(examples[0].Attributes(), ClassKey)
	return NewSchema(names)
}

// Names returns every key in the schema in declaration order
func (s *Schema) Names() []string {
	return s.names
}

// Attributes returns the keys in the schema other than ClassKey
func (s *Schema) Attributes() []string {
	result := make([]string, 0, len(s.names)-1)
	for _, n := range s.names {
		if n != ClassKey {
			result = append(result, n)
		}
	}
	return result
}

// Has returns whether the given key belongs to the schema
func (s *Schema) Has(name string) bool {
	_, ok := s.indices[name]
	return ok
}

/*
Validate takes an example and returns an error if it lacks a key in
the schema or has a key outside of it.
*/
func (s *Schema) Validate(e Example) error {
	for _, n := range s.names {
		if _, ok := e[n]; !ok {
			return &MissingAttributeError{Attribute: n}
		}
	}
	if len(e) != len(s.names) {
		for k := range e {
			if !s.Has(k) {
				return fmt.Errorf("unknown attribute %q", k)
			}
		}
	}
	return nil
}

/*
ValidateAll validates every example in the given slice, returning
an error naming the position of the first invalid one.
*/
func (s *Schema) ValidateAll(examples []Example) error {
	for i, e := range examples {
		if err := s.Validate(e); err != nil {
			return fmt.Errorf("validating example #%d: %w", i+1, err)
		}
	}
	return nil
}

/*
Example takes a row of values in the order of the schema names and
returns the example they form.
*/
func (s *Schema) Example(row []string) (Example, error) {
	if len(row) != len(s.names) {
		return nil, fmt.Errorf("expected %d values, got %d", len(s.names), len(row))
	}
	e := make(Example, len(row))
	for i, n := range s.names {
		e[n] = row[i]
	}
	return e, nil
}

/*
Row takes an example and returns its values in the order of the
schema names.
*/
func (s *Schema) Row(e Example) ([]string, error) {
	row := make([]string, len(s.names))
	for i, n := range s.names {
		v, err := e.ValueFor(n)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}
