package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadExamples(t *testing.T) {
	examples, schema, err := ReadExamples(strings.NewReader(`[
		{"color": "red", "legs": 4, "Class": "dog"},
		{"color": null, "legs": 2, "Class": "bird"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"color", "legs"}, schema.Attributes())
	assert.Equal(t, []dataset.Example{
		{"color": "red", "legs": "4", "Class": "dog"},
		{"color": "?", "legs": "2", "Class": "bird"},
	}, examples)
}

func TestReadExamplesErrors(t *testing.T) {
	for _, input := range []string{
		`{"color": "red"}`,
		`[]`,
		`[{"color": "red"}]`,
		`[{"color": "red", "Class": "dog"}, {"legs": "2", "Class": "bird"}]`,
	} {
		_, _, err := ReadExamples(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestWriteExamples(t *testing.T) {
	examples := []dataset.Example{{"color": "?", "Class": "dog"}}
	var buf bytes.Buffer
	require.NoError(t, WriteExamples(&buf, examples))
	read, _, err := ReadExamples(&buf)
	require.NoError(t, err)
	assert.Equal(t, examples, read)
}
