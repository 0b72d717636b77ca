package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		location string
		kind     Kind
	}{
		{"", CSV},
		{"votes.csv", CSV},
		{"house_votes_84.data", CSV},
		{"votes.json", JSON},
		{"votes.YML", YAML},
		{"votes.yaml", YAML},
		{"votes.db", SQLite3},
		{"postgresql://grove@localhost/grove", PostgreSQL},
		{"mongodb://localhost/grove", MongoDB},
	}
	for _, tc := range testCases {
		kind, err := KindOf(tc.location)
		require.NoError(t, err, tc.location)
		assert.Equal(t, tc.kind, kind, tc.location)
	}
	_, err := KindOf("votes.xlsx")
	assert.Error(t, err)
	assert.Equal(t, "sqlite3", SQLite3.String())
}

func TestWriteThenOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	schema, err := dataset.NewSchema([]string{"crime", "budget", dataset.ClassKey})
	require.NoError(t, err)
	examples := []dataset.Example{
		{"crime": "y", "budget": "n", dataset.ClassKey: "republican"},
		{"crime": "?", "budget": "y", dataset.ClassKey: "democrat"},
		{"crime": "n", "budget": "?", dataset.ClassKey: "democrat"},
	}
	for _, name := range []string{"votes.csv", "votes.json", "votes.yml", "votes.db"} {
		location := filepath.Join(dir, name)
		require.NoError(t, Write(ctx, location, schema, examples), name)
		read, readSchema, err := Open(ctx, location)
		require.NoError(t, err, name)
		assert.ElementsMatch(t, schema.Names(), readSchema.Names(), name)
		assert.Equal(t, examples, read, name)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, _, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
