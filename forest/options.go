package forest

import (
	"io"
	"math/rand"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLabel is the default label member trees are grown with
const DefaultLabel = "0"

// Option configures how Train builds a forest
type Option func(*config)

type config struct {
	rand         *rand.Rand
	workers      int
	logger       logrus.FieldLogger
	defaultLabel string
}

// WithRand sets the source for every random draw Train makes
func WithRand(r *rand.Rand) Option {
	return func(c *config) {
		c.rand = r
	}
}

// WithSeed makes Train draw from a source seeded with the given value
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rand = rand.New(rand.NewSource(seed))
	}
}

/*
WithWorkers limits the number of trees grown at the same time. Values
below 1 are ignored.
*/
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets a logger to report the progress of training
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithDefaultLabel sets the default label member trees are grown with
func WithDefaultLabel(label string) Option {
	return func(c *config) {
		c.defaultLabel = label
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		workers:      runtime.NumCPU(),
		defaultLabel: DefaultLabel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}
	return c
}
