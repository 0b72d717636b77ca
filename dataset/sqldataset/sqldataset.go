package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/grove/dataset"
)

/*
MaxExampleInsertionsPerStatement is the maximum number of examples
inserted with a single insert command by Write. Writing more will
result in more insertion commands.
*/
const MaxExampleInsertionsPerStatement = 10

/*
Adapter is an interface providing what a Store needs from a
specific SQL engine.
*/
type Adapter interface {
	// DB returns the database the adapter works on
	DB() *sql.DB
	// Identifier takes an attribute or table name and returns it
	// quoted for use in statements, or an error if it cannot be used
	Identifier(string) (string, error)
	// Placeholder returns the bind parameter for the nth (1-based)
	// argument of a statement
	Placeholder(int) string
	// Columns returns the column names of the given table in order
	Columns(ctx context.Context, table string) ([]string, error)
}

/*
Store is a table of examples on an SQL database.
*/
type Store struct {
	adapter Adapter
	table   string
}

/*
Open takes an adapter and a table name and returns a Store for the
table, or an error if the name cannot be used as identifier.
*/
func Open(adapter Adapter, table string) (*Store, error) {
	if _, err := adapter.Identifier(table); err != nil {
		return nil, fmt.Errorf("opening table %q: %v", table, err)
	}
	return &Store{adapter: adapter, table: table}, nil
}

/*
Create takes a context and a schema and creates the table for the
schema if it does not exist yet.
*/
func (s *Store) Create(ctx context.Context, schema *dataset.Schema) error {
	table, columns, err := s.identifiers(schema.Names())
	if err != nil {
		return err
	}
	var stmt bytes.Buffer
	stmt.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (", table))
	for i, c := range columns {
		if i > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString(fmt.Sprintf("%s TEXT NULL", c))
	}
	stmt.WriteString(")")
	_, err = s.adapter.DB().ExecContext(ctx, stmt.String())
	if err != nil {
		return fmt.Errorf("creating table %q: %v", s.table, err)
	}
	return nil
}

/*
Write takes a context, a schema and a slice of examples, creates the
table if needed and inserts the examples in it. It returns the number
of examples inserted and an error if not all of them could be.
*/
func (s *Store) Write(ctx context.Context, schema *dataset.Schema, examples []dataset.Example) (int, error) {
	err := schema.ValidateAll(examples)
	if err != nil {
		return 0, err
	}
	err = s.Create(ctx, schema)
	if err != nil {
		return 0, err
	}
	table, columns, err := s.identifiers(schema.Names())
	if err != nil {
		return 0, err
	}
	names := schema.Names()
	var written int
	for written < len(examples) {
		end := written + MaxExampleInsertionsPerStatement
		if end > len(examples) {
			end = len(examples)
		}
		chunk := examples[written:end]
		var stmt bytes.Buffer
		stmt.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", ")))
		args := make([]interface{}, 0, len(chunk)*len(names))
		for i, e := range chunk {
			if i > 0 {
				stmt.WriteString(", ")
			}
			stmt.WriteString("(")
			for j, n := range names {
				if j > 0 {
					stmt.WriteString(", ")
				}
				args = append(args, nullable(e[n]))
				stmt.WriteString(s.adapter.Placeholder(len(args)))
			}
			stmt.WriteString(")")
		}
		_, err = s.adapter.DB().ExecContext(ctx, stmt.String(), args...)
		if err != nil {
			return written, fmt.Errorf("inserting examples %d to %d: %v", written+1, end, err)
		}
		written = end
	}
	return written, nil
}

/*
Examples takes a context and returns every example in the table along
with the schema given by its columns.
*/
func (s *Store) Examples(ctx context.Context) ([]dataset.Example, *dataset.Schema, error) {
	var examples []dataset.Example
	schema, err := s.IterateOnExamples(ctx, func(_ int, e dataset.Example) (bool, error) {
		examples = append(examples, e)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return examples, schema, nil
}

/*
IterateOnExamples takes a context and a lambda function on an integer
and an example that returns a boolean value, and calls it with every
example in the table and its index until it returns false or an error.
It returns the schema given by the table columns.
*/
func (s *Store) IterateOnExamples(ctx context.Context, lambda func(int, dataset.Example) (bool, error)) (*dataset.Schema, error) {
	names, err := s.adapter.Columns(ctx, s.table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %q: %v", s.table, err)
	}
	schema, err := dataset.NewSchema(names)
	if err != nil {
		return nil, fmt.Errorf("reading table %q: %w", s.table, err)
	}
	table, columns, err := s.identifiers(names)
	if err != nil {
		return nil, err
	}
	rows, err := s.adapter.DB().QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table))
	if err != nil {
		return nil, fmt.Errorf("querying %q: %v", s.table, err)
	}
	defer rows.Close()
	values := make([]sql.NullString, len(names))
	dest := make([]interface{}, len(names))
	for i := range values {
		dest[i] = &values[i]
	}
	for j := 0; rows.Next(); j++ {
		err = rows.Scan(dest...)
		if err != nil {
			return nil, err
		}
		e := make(dataset.Example, len(names))
		for i, n := range names {
			if values[i].Valid {
				e[n] = values[i].String
			} else {
				e[n] = dataset.MissingValue
			}
		}
		ok, err := lambda(j, e)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// Count returns the number of examples in the table
func (s *Store) Count(ctx context.Context) (int, error) {
	table, err := s.adapter.Identifier(s.table)
	if err != nil {
		return 0, err
	}
	var count int
	err = s.adapter.DB().QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting examples in %q: %v", s.table, err)
	}
	return count, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.adapter.DB().Close()
}

func (s *Store) identifiers(names []string) (string, []string, error) {
	table, err := s.adapter.Identifier(s.table)
	if err != nil {
		return "", nil, err
	}
	columns := make([]string, len(names))
	for i, n := range names {
		columns[i], err = s.adapter.Identifier(n)
		if err != nil {
			return "", nil, fmt.Errorf("column for %q: %v", n, err)
		}
	}
	return table, columns, nil
}

func nullable(v string) interface{} {
	if v == dataset.MissingValue {
		return nil
	}
	return v
}
