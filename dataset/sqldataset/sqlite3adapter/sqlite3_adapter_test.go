package sqlite3adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/sqldataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	a := &adapter{}
	id, err := a.Identifier("handicapped-infants")
	require.NoError(t, err)
	assert.Equal(t, `"handicapped-infants"`, id)
	_, err = a.Identifier(`bad"name`)
	assert.Error(t, err)
	_, err = a.Identifier("")
	assert.Error(t, err)
	assert.Equal(t, "?", a.Placeholder(3))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, err := New(filepath.Join(t.TempDir(), "examples.db"))
	require.NoError(t, err)
	store, err := sqldataset.Open(a, "votes")
	require.NoError(t, err)
	defer store.Close()

	schema, err := dataset.NewSchema([]string{"crime", "budget", dataset.ClassKey})
	require.NoError(t, err)
	var examples []dataset.Example
	for i := 0; i < 2*sqldataset.MaxExampleInsertionsPerStatement+3; i++ {
		e := dataset.Example{
			"crime":          fmt.Sprintf("c%d", i%3),
			"budget":         "y",
			dataset.ClassKey: "democrat",
		}
		if i%4 == 0 {
			e["budget"] = dataset.MissingValue
		}
		examples = append(examples, e)
	}
	n, err := store.Write(ctx, schema, examples)
	require.NoError(t, err)
	assert.Equal(t, len(examples), n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(examples), count)

	read, readSchema, err := store.Examples(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.Names(), readSchema.Names())
	assert.Equal(t, examples, read)
}

func TestStoreRejectsInvalidExamples(t *testing.T) {
	a, err := New(filepath.Join(t.TempDir(), "examples.db"))
	require.NoError(t, err)
	store, err := sqldataset.Open(a, "votes")
	require.NoError(t, err)
	defer store.Close()
	schema, err := dataset.NewSchema([]string{"crime", dataset.ClassKey})
	require.NoError(t, err)
	_, err = store.Write(context.Background(), schema, []dataset.Example{{"crime": "y"}})
	assert.Error(t, err)

	_, _, err = store.Examples(context.Background())
	assert.Error(t, err, "the table was never created")
}
