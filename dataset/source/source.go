/*
Package source opens example sets from the locations accepted on the
command line: CSV, JSON and YAML files, SQLite3 database files, and
PostgreSQL or MongoDB URLs.
*/
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/csv"
	"github.com/pbanos/grove/dataset/json"
	"github.com/pbanos/grove/dataset/mongodataset"
	"github.com/pbanos/grove/dataset/sqldataset"
	"github.com/pbanos/grove/dataset/sqldataset/pgadapter"
	"github.com/pbanos/grove/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/grove/dataset/yaml"
)

// DefaultTable is the table examples are kept in on SQL databases
const DefaultTable = "examples"

/*
Kind identifies the format of a location
*/
type Kind int

// Kinds of locations
const (
	CSV Kind = iota
	JSON
	YAML
	SQLite3
	PostgreSQL
	MongoDB
)

var kindNames = []string{"csv", "json", "yaml", "sqlite3", "postgresql", "mongodb"}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

/*
KindOf takes a location and returns the kind of set found there.
The empty location stands for STDIN or STDOUT and is read as CSV.
*/
func KindOf(location string) (Kind, error) {
	switch {
	case strings.HasPrefix(location, "postgresql://"), strings.HasPrefix(location, "postgres://"):
		return PostgreSQL, nil
	case strings.HasPrefix(location, "mongodb://"):
		return MongoDB, nil
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case "", ".csv", ".data":
		return CSV, nil
	case ".json":
		return JSON, nil
	case ".yml", ".yaml":
		return YAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return SQLite3, nil
	}
	return 0, fmt.Errorf("unknown set format for %q", location)
}

/*
Open takes a context and a location and returns the examples read from
it along with their schema. Every example returned satisfies the schema.
*/
func Open(ctx context.Context, location string) ([]dataset.Example, *dataset.Schema, error) {
	kind, err := KindOf(location)
	if err != nil {
		return nil, nil, err
	}
	switch kind {
	case SQLite3, PostgreSQL:
		store, err := openSQL(kind, location)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		return store.Examples(ctx)
	case MongoDB:
		store, err := mongodataset.Dial(location, "")
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		return store.Examples(ctx)
	}
	var r io.Reader = os.Stdin
	if location != "" {
		f, err := os.Open(location)
		if err != nil {
			return nil, nil, fmt.Errorf("opening set at %s: %v", location, err)
		}
		defer f.Close()
		r = f
	}
	var examples []dataset.Example
	var schema *dataset.Schema
	switch kind {
	case JSON:
		examples, schema, err = json.ReadExamples(r)
	case YAML:
		examples, schema, err = yaml.ReadExamples(r)
	default:
		examples, schema, err = csv.ReadExamples(r)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading set from %s: %v", describe(location), err)
	}
	return examples, schema, nil
}

/*
Write takes a context, a location, a schema and a slice of examples and
writes the examples to the location in the format it corresponds to.
*/
func Write(ctx context.Context, location string, schema *dataset.Schema, examples []dataset.Example) error {
	kind, err := KindOf(location)
	if err != nil {
		return err
	}
	switch kind {
	case SQLite3, PostgreSQL:
		store, err := openSQL(kind, location)
		if err != nil {
			return err
		}
		defer store.Close()
		_, err = store.Write(ctx, schema, examples)
		return err
	case MongoDB:
		store, err := mongodataset.Dial(location, "")
		if err != nil {
			return err
		}
		defer store.Close()
		_, err = store.Write(ctx, schema, examples)
		return err
	}
	var w io.Writer = os.Stdout
	if location != "" {
		f, err := os.Create(location)
		if err != nil {
			return fmt.Errorf("creating set at %s: %v", location, err)
		}
		defer f.Close()
		w = f
	}
	switch kind {
	case JSON:
		err = json.WriteExamples(w, examples)
	case YAML:
		err = yaml.WriteExamples(w, examples)
	default:
		err = csv.WriteExamples(ctx, w, schema, examples)
	}
	if err != nil {
		return fmt.Errorf("writing set to %s: %v", describe(location), err)
	}
	return nil
}

func openSQL(kind Kind, location string) (*sqldataset.Store, error) {
	var adapter sqldataset.Adapter
	var err error
	if kind == PostgreSQL {
		adapter, err = pgadapter.New(location)
	} else {
		adapter, err = sqlite3adapter.New(location)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %v", kind, err)
	}
	return sqldataset.Open(adapter, DefaultTable)
}

func describe(location string) string {
	if location == "" {
		return "standard stream"
	}
	return location
}
