/*
Package mongodataset stores examples on a MongoDB collection, one
document per example with a field per attribute plus Class. Missing
values are left out of the documents.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/grove/dataset"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	// DefaultCollection is the collection examples are kept in when none is given
	DefaultCollection = "examples"
	idField           = "_id"
)

/*
Store is a collection of examples on a MongoDB database
*/
type Store struct {
	session    *mgo.Session
	collection string
}

/*
Open takes a MongoDB database session and a collection name and returns
a Store that works on that collection of the default database for the
session.
*/
func Open(session *mgo.Session, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{session: session, collection: collection}
}

/*
Dial takes a MongoDB URL and a collection name, connects to the
database and returns a Store for the collection of the database named
in the URL.
*/
func Dial(url, collection string) (*Store, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %v", url, err)
	}
	return Open(session, collection), nil
}

/*
Write takes a context, a schema and a slice of examples and inserts the
examples on the collection. It returns the number of examples written.
*/
func (s *Store) Write(ctx context.Context, schema *dataset.Schema, examples []dataset.Example) (int, error) {
	err := ensureFieldNames(schema.Names())
	if err != nil {
		return 0, err
	}
	err = schema.ValidateAll(examples)
	if err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, len(examples))
	for _, e := range examples {
		doc := make(bson.M, len(e))
		for k, v := range e {
			if v != dataset.MissingValue {
				doc[k] = v
			}
		}
		docs = append(docs, doc)
	}
	if err = ctx.Err(); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err = s.c().Insert(docs...)
	if err != nil {
		return 0, fmt.Errorf("inserting examples in %q: %v", s.collection, err)
	}
	return len(examples), nil
}

/*
Examples takes a context and returns the examples in the collection
and a schema with every field found among them. Fields a document lacks
are read as missing values.
*/
func (s *Store) Examples(ctx context.Context) ([]dataset.Example, *dataset.Schema, error) {
	var docs []bson.M
	iter := s.c().Find(nil).Iter()
	var doc bson.M
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return nil, nil, err
		}
		delete(doc, idField)
		docs = append(docs, doc)
		doc = nil
	}
	if err := iter.Close(); err != nil {
		return nil, nil, fmt.Errorf("reading examples from %q: %v", s.collection, err)
	}
	examples := make([]dataset.Example, 0, len(docs))
	for _, d := range docs {
		examples = append(examples, dataset.NewExample(d))
	}
	names := append(dataset.Attributes(examples), dataset.ClassKey)
	schema, err := dataset.NewSchema(names)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range examples {
		for _, n := range names {
			if _, ok := e[n]; !ok {
				e[n] = dataset.MissingValue
			}
		}
	}
	for i, e := range examples {
		if _, ok := e[dataset.ClassKey]; !ok || e[dataset.ClassKey] == dataset.MissingValue {
			return nil, nil, fmt.Errorf("example #%d: %w", i+1, &dataset.MissingAttributeError{Attribute: dataset.ClassKey})
		}
	}
	return examples, schema, nil
}

// Count returns the number of examples in the collection
func (s *Store) Count(context.Context) (int, error) {
	return s.c().Count()
}

// Close closes the session of the store
func (s *Store) Close() {
	s.session.Close()
}

func (s *Store) c() *mgo.Collection {
	return s.session.DB("").C(s.collection)
}

func ensureFieldNames(names []string) error {
	for _, n := range names {
		if n == idField {
			return fmt.Errorf("invalid attribute name %q: reserved collection field", idField)
		}
		if strings.ContainsAny(n, ".$") {
			return fmt.Errorf("invalid attribute name %q: contains reserved characters %q or %q", n, ".", "$")
		}
	}
	return nil
}
