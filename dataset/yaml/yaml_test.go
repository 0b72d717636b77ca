package yaml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const votes = `
- handicapped-infants: n
  crime: y
  Class: republican
- handicapped-infants: "?"
  crime:
  Class: democrat
`

func TestReadExamples(t *testing.T) {
	examples, schema, err := ReadExamples(strings.NewReader(votes))
	require.NoError(t, err)
	assert.Equal(t, []string{"crime", "handicapped-infants"}, schema.Attributes())
	assert.Equal(t, []dataset.Example{
		{"handicapped-infants": "n", "crime": "y", "Class": "republican"},
		{"handicapped-infants": "?", "crime": "?", "Class": "democrat"},
	}, examples)
}

func TestReadExamplesErrors(t *testing.T) {
	for _, input := range []string{"a: b", "", "- a: b", "- a: b\n  Class: x\n- c: d\n  Class: y\n"} {
		_, _, err := ReadExamples(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestWriteExamples(t *testing.T) {
	examples := []dataset.Example{{"crime": "?", "vote": "y", "Class": "democrat"}}
	var buf bytes.Buffer
	require.NoError(t, WriteExamples(&buf, examples))
	read, _, err := ReadExamples(&buf)
	require.NoError(t, err)
	assert.Equal(t, examples, read)
}
