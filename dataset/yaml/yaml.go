/*
Package yaml reads and writes examples as YAML sequences of mappings.
*/
package yaml

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pbanos/grove/dataset"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadExamples takes an io.Reader with a YAML sequence of mappings and
returns the examples parsed from it along with their schema, taken from
the first mapping. Scalars are kept as written, so y and n stay letters
rather than booleans; null and empty values are read as missing.
*/
func ReadExamples(r io.Reader) ([]dataset.Example, *dataset.Schema, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading YAML examples: %v", err)
	}
	var docs []map[string]string
	err = yaml.Unmarshal(data, &docs)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing YAML examples: %v", err)
	}
	examples := make([]dataset.Example, 0, len(docs))
	for _, doc := range docs {
		e := make(dataset.Example, len(doc))
		for k, v := range doc {
			if v == "" {
				v = dataset.MissingValue
			}
			e[k] = v
		}
		examples = append(examples, e)
	}
	schema, err := dataset.SchemaFor(examples)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing YAML examples: %w", err)
	}
	err = schema.ValidateAll(examples)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing YAML examples: %w", err)
	}
	return examples, schema, nil
}

// WriteExamples dumps the given examples on the writer as a YAML sequence
func WriteExamples(w io.Writer, examples []dataset.Example) error {
	docs := make([]map[string]string, len(examples))
	for i, e := range examples {
		docs[i] = e
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encoding YAML examples: %v", err)
	}
	_, err = w.Write(data)
	return err
}
