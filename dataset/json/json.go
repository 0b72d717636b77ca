/*
Package json reads and writes examples as JSON arrays of objects, one
object per example with a property per attribute plus Class.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/grove/dataset"
)

/*
ReadExamples takes an io.Reader with a JSON array of objects and returns
the examples decoded from it along with their schema, taken from the
first object. Non-string values are formatted as strings and null values
are read as missing. It fails if the stream cannot be decoded, if it has
no examples or if an example does not match the schema.
*/
func ReadExamples(r io.Reader) ([]dataset.Example, *dataset.Schema, error) {
	var docs []map[string]interface{}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	err := dec.Decode(&docs)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding JSON examples: %v", err)
	}
	examples := make([]dataset.Example, 0, len(docs))
	for _, doc := range docs {
		examples = append(examples, dataset.NewExample(doc))
	}
	schema, err := dataset.SchemaFor(examples)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding JSON examples: %w", err)
	}
	err = schema.ValidateAll(examples)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding JSON examples: %w", err)
	}
	return examples, schema, nil
}

// WriteExamples encodes the given examples on the writer as a JSON array
func WriteExamples(w io.Writer, examples []dataset.Example) error {
	if examples == nil {
		examples = []dataset.Example{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(examples)
	if err != nil {
		return fmt.Errorf("encoding JSON examples: %v", err)
	}
	return nil
}
