package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const votes = `handicapped-infants,water-project-cost-sharing,Class
n,y,republican
?,y,democrat
y,?,democrat
`

func TestReadExamples(t *testing.T) {
	examples, schema, err := ReadExamples(strings.NewReader(votes))
	require.NoError(t, err)
	assert.Equal(t, []string{"handicapped-infants", "water-project-cost-sharing"}, schema.Attributes())
	require.Len(t, examples, 3)
	assert.Equal(t, dataset.Example{
		"handicapped-infants":        "?",
		"water-project-cost-sharing": "y",
		dataset.ClassKey:             "democrat",
	}, examples[1])
}

func TestReadExamplesByRowStops(t *testing.T) {
	var read int
	_, err := ReadExamplesByRow(strings.NewReader(votes), func(i int, _ dataset.Example) (bool, error) {
		read++
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, read)
}

func TestReadExamplesErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no class column", "a,b\n1,2\n"},
		{"repeated column", "a,a,Class\n1,2,x\n"},
		{"short row", "a,Class\n1,x\n2\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadExamples(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestWriteExamples(t *testing.T) {
	examples, schema, err := ReadExamples(strings.NewReader(votes))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteExamples(context.Background(), &buf, schema, examples))
	assert.Equal(t, votes, buf.String())

	w, err := NewWriter(&buf, schema)
	require.NoError(t, err)
	n, err := w.Write(context.Background(), []dataset.Example{examples[0], {"Class": "x"}})
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, w.Count())
}
