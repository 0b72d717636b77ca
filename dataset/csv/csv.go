/*
Package csv reads and writes examples as CSV streams whose header names
the attributes and the Class column.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/grove/dataset"
)

/*
Writer is an interface for a destination to which examples
can be written.
*/
type Writer interface {
	// Write will attempt to write the given examples
	// and will return the actually written number of
	// examples and an error (if not all examples could
	// be written)
	Write(context.Context, []dataset.Example) (int, error)
	// Count returns the total number of examples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count  int
	schema *dataset.Schema
	w      *csv.Writer
}

/*
ReadExamples takes an io.Reader for a CSV stream and returns the examples
parsed from it along with the schema declared by its header, or an error.

The header or first row of the CSV content is expected to name the
attributes and the Class column, in any order. The rest of the rows must
have one value per header column, with the '?' string for unknown values.
*/
func ReadExamples(reader io.Reader) ([]dataset.Example, *dataset.Schema, error) {
	var examples []dataset.Example
	schema, err := ReadExamplesByRow(reader, func(_ int, e dataset.Example) (bool, error) {
		examples = append(examples, e)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return examples, schema, nil
}

/*
ReadExamplesByRow takes an io.Reader for a CSV stream and a lambda function
on an integer and an example that returns a boolean value. It parses the
examples from the reader and for each it calls the lambda function with
the example and its index as parameters. If the lambda function returns
true, it will continue processing the next example, otherwise it will stop.
It returns the schema declared by the header, or an error if something
goes wrong when reading the stream or parsing an example.
*/
func ReadExamplesByRow(reader io.Reader, lambda func(int, dataset.Example) (bool, error)) (*dataset.Schema, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	schema, err := dataset.NewSchema(header)
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		e, err := schema.Example(row)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, e)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return schema, nil
}

/*
ReadExamplesFromFilePath takes a filepath string, opens the file to which
it points and uses ReadExamples to return the examples and schema read
from it. If the filepath is "" os.Stdin is read instead.
*/
func ReadExamplesFromFilePath(filepath string) ([]dataset.Example, *dataset.Schema, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading examples: %v", err)
		}
		defer f.Close()
	}
	examples, schema, err := ReadExamples(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return examples, schema, nil
}

/*
NewWriter takes an io.Writer and a schema and returns a Writer that will
write examples on the io.Writer, with a header naming the schema keys.
*/
func NewWriter(writer io.Writer, schema *dataset.Schema) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(schema.Names())
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{schema: schema, w: w}, nil
}

/*
WriteExamples takes a context, a writer, a schema and a slice of examples
and dumps the examples to the writer in CSV format. It returns an error
if something went wrong when writing, or if an example does not conform
to the schema.
*/
func WriteExamples(ctx context.Context, writer io.Writer, schema *dataset.Schema, examples []dataset.Example) error {
	cw, err := NewWriter(writer, schema)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, examples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, examples []dataset.Example) (int, error) {
	for n, e := range examples {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		err := cw.writeExample(e)
		if err != nil {
			return n, err
		}
	}
	return len(examples), nil
}

func (cw *csvWriter) writeExample(e dataset.Example) error {
	if err := cw.schema.Validate(e); err != nil {
		return fmt.Errorf("writing CSV row for example %d: %w", cw.count+1, err)
	}
	record, err := cw.schema.Row(e)
	if err != nil {
		return err
	}
	err = cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for example %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
