package mongodataset

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFieldNames(t *testing.T) {
	assert.NoError(t, ensureFieldNames([]string{"crime", dataset.ClassKey}))
	assert.Error(t, ensureFieldNames([]string{"_id"}))
	assert.Error(t, ensureFieldNames([]string{"a.b"}))
	assert.Error(t, ensureFieldNames([]string{"$a"}))
}

func TestStoreRoundTrip(t *testing.T) {
	url := os.Getenv("GROVE_TEST_MONGO_URL")
	if url == "" {
		t.Skip("GROVE_TEST_MONGO_URL not set")
	}
	ctx := context.Background()
	store, err := Dial(url, fmt.Sprintf("grove_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	defer func() {
		store.c().DropCollection()
		store.Close()
	}()
	schema, err := dataset.NewSchema([]string{"crime", dataset.ClassKey})
	require.NoError(t, err)
	examples := []dataset.Example{
		{"crime": "y", dataset.ClassKey: "republican"},
		{"crime": "?", dataset.ClassKey: "democrat"},
	}
	n, err := store.Write(ctx, schema, examples)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	read, readSchema, err := store.Examples(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"crime", dataset.ClassKey}, readSchema.Names())
	assert.ElementsMatch(t, examples, read)
}
