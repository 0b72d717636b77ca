package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/source"
	"github.com/sirupsen/logrus"
)

const inputFlagUsage = "path to a CSV (.csv, .data), JSON (.json), YAML (.yml) or SQLite3 (.db) file, or a PostgreSQL or MongoDB URL"

func readSet(ctx context.Context, logger logrus.FieldLogger, location, name string) ([]dataset.Example, *dataset.Schema, error) {
	where := location
	if where == "" {
		where = "STDIN"
	}
	logger.Debugf("Reading %s set from %s...", name, where)
	examples, schema, err := source.Open(ctx, location)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s set: %v", name, err)
	}
	logger.WithFields(logrus.Fields{
		"examples":   len(examples),
		"attributes": len(schema.Attributes()),
	}).Debugf("%s set read", name)
	return examples, schema, nil
}

// newRand returns a source seeded with seed, or with the time if it is 0
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
