package dataset

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// ClassKey is the key under which examples hold their label
	ClassKey = "Class"
	// MissingValue is the value examples use for unknown attribute values
	MissingValue = "?"
)

/*
Example represents an item from which to learn or to classify: a mapping
of attribute names to categorical values. The label of the example is held
under the ClassKey key.
*/
type Example map[string]string

/*
NewExample takes a map of attribute names to values of any type and
returns an example with the values formatted as strings. Nil values
become MissingValue.
*/
func NewExample(values map[string]interface{}) Example {
	e := make(Example, len(values))
	for k, v := range values {
		switch v := v.(type) {
		case nil:
			e[k] = MissingValue
		case string:
			e[k] = v
		default:
			e[k] = fmt.Sprint(v)
		}
	}
	return e
}

/*
ValueFor takes an attribute name and returns the value the example
has for it or a *MissingAttributeError if the example does not
define the attribute at all.
*/
func (e Example) ValueFor(attribute string) (string, error) {
	v, ok := e[attribute]
	if !ok {
		return "", &MissingAttributeError{Attribute: attribute}
	}
	return v, nil
}

// Class returns the label of the example
func (e Example) Class() (string, error) {
	return e.ValueFor(ClassKey)
}

// Copy returns a shallow copy of the example
func (e Example) Copy() Example {
	c := make(Example, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

/*
Without takes a list of attribute names and returns a copy of the example
that lacks them.
*/
func (e Example) Without(attributes ...string) Example {
	c := e.Copy()
	for _, a := range attributes {
		delete(c, a)
	}
	return c
}

// Attributes returns the sorted names of the attributes of the example, Class excluded
func (e Example) Attributes() []string {
	result := make([]string, 0, len(e))
	for k := range e {
		if k != ClassKey {
			result = append(result, k)
		}
	}
	sort.Strings(result)
	return result
}

func (e Example) String() string {
	parts := make([]string, 0, len(e))
	for _, a := range e.Attributes() {
		parts = append(parts, fmt.Sprintf("%s=%s", a, e[a]))
	}
	if c, ok := e[ClassKey]; ok {
		parts = append(parts, fmt.Sprintf("%s=%s", ClassKey, c))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
