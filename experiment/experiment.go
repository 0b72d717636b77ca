/*
Package experiment measures trees and forests on a set of examples by
running many randomised trials, either locally or through a shared
queue, and summarises their scores.

Two experiments are provided. A learning curve grows trees on training
sets of increasing size and scores them on a held out test set before
and after pruning them with a validation set carved from the training
examples. A comparison repeatedly splits the examples 80/20 and scores
a single tree against a forest on the smaller part.
*/
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/queue"
	"github.com/sirupsen/logrus"
)

// Score names
const (
	Unpruned = "unpruned"
	Pruned   = "pruned"
	Single   = "single"
	Ensemble = "forest"
)

/*
Curve describes a learning curve experiment. Trials are run for every
training size from MinTrainSize to MaxTrainSize in steps of Step,
Repeats times each. A fifth of each training size is set apart for
validation, so sizes below 5 are invalid. The examples beyond
MaxTrainSize form the test set.
*/
type Curve struct {
	MinTrainSize int
	MaxTrainSize int
	Step         int
	Repeats      int
	DefaultLabel string
}

// DefaultCurve returns the curve run on the house votes data
func DefaultCurve() Curve {
	return Curve{
		MinTrainSize: 10,
		MaxTrainSize: 300,
		Step:         2,
		Repeats:      100,
		DefaultLabel: "democrat",
	}
}

// Validate returns an error if the curve cannot be run
func (c Curve) Validate() error {
	if c.MinTrainSize < 5 || c.MaxTrainSize < c.MinTrainSize {
		return fmt.Errorf("invalid train sizes from %d to %d", c.MinTrainSize, c.MaxTrainSize)
	}
	if c.Step < 1 {
		return fmt.Errorf("invalid train size step %d", c.Step)
	}
	if c.Repeats < 1 {
		return fmt.Errorf("invalid number of repeats %d", c.Repeats)
	}
	return nil
}

/*
Tasks takes a source of randomness and returns a task per trial of the
curve. All of them share a data seed so that they agree on the test set.
*/
func (c Curve) Tasks(r *rand.Rand) []*queue.Task {
	dataSeed := r.Int63()
	var tasks []*queue.Task
	for size := c.MinTrainSize; size <= c.MaxTrainSize; size += c.Step {
		for i := 0; i < c.Repeats; i++ {
			t := queue.NewTask(queue.CurveTrial, dataSeed, r.Int63())
			t.TrainSize = size
			tasks = append(tasks, t)
		}
	}
	return tasks
}

/*
Comparison describes an experiment comparing single trees against
forests of Trees trees over Iterations random splits.
*/
type Comparison struct {
	Iterations   int
	Trees        int
	DefaultLabel string
}

// DefaultComparison returns the comparison run on the candy data
func DefaultComparison() Comparison {
	return Comparison{
		Iterations:   500,
		Trees:        50,
		DefaultLabel: forest.DefaultLabel,
	}
}

// Validate returns an error if the comparison cannot be run
func (c Comparison) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("invalid number of iterations %d", c.Iterations)
	}
	if c.Trees < 1 {
		return fmt.Errorf("invalid number of trees %d", c.Trees)
	}
	return nil
}

// Tasks takes a source of randomness and returns a task per iteration
func (c Comparison) Tasks(r *rand.Rand) []*queue.Task {
	tasks := make([]*queue.Task, c.Iterations)
	for i := range tasks {
		tasks[i] = queue.NewTask(queue.CompareTrial, 0, r.Int63())
		tasks[i].Trees = c.Trees
	}
	return tasks
}

/*
Runner runs the trials of experiments on a set of examples. It is safe
for concurrent use by multiple workers.
*/
type Runner struct {
	examples   []dataset.Example
	curve      Curve
	comparison Comparison
	logger     logrus.FieldLogger
	lock       sync.Mutex
	holdouts   map[int64]*holdout
}

type holdout struct {
	pool []dataset.Example
	test []dataset.Example
}

// NewRunner returns a Runner for the given examples and experiments
func NewRunner(examples []dataset.Example, curve Curve, comparison Comparison, logger logrus.FieldLogger) *Runner {
	return &Runner{
		examples:   examples,
		curve:      curve,
		comparison: comparison,
		logger:     logger,
		holdouts:   make(map[int64]*holdout),
	}
}

/*
RunTask takes a context and a task, runs its trial and sets its scores.
The examples of the runner are never modified.
*/
func (r *Runner) RunTask(ctx context.Context, t *queue.Task) error {
	var scores map[string]float64
	var err error
	switch t.Kind {
	case queue.CurveTrial:
		scores, err = r.curveTrial(ctx, t)
	case queue.CompareTrial:
		scores, err = r.compareTrial(ctx, t)
	default:
		err = fmt.Errorf("unknown kind of trial %q", t.Kind)
	}
	if err != nil {
		return fmt.Errorf("running task %s: %w", t.ID, err)
	}
	t.Scores = scores
	r.logger.WithFields(logrus.Fields{
		"task":   t.ID,
		"kind":   t.Kind,
		"scores": scores,
	}).Debug("trial completed")
	return nil
}

func (r *Runner) holdout(seed int64) (*holdout, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if h, ok := r.holdouts[seed]; ok {
		return h, nil
	}
	if len(r.examples) <= r.curve.MaxTrainSize {
		return nil, fmt.Errorf("need more than %d examples to leave a test set, got %d", r.curve.MaxTrainSize, len(r.examples))
	}
	shuffled := dataset.Shuffle(r.examples, rand.New(rand.NewSource(seed)))
	h := &holdout{
		pool: shuffled[:r.curve.MaxTrainSize],
		test: shuffled[r.curve.MaxTrainSize:],
	}
	r.holdouts[seed] = h
	return h, nil
}

func (r *Runner) curveTrial(ctx context.Context, t *queue.Task) (map[string]float64, error) {
	if t.TrainSize < 5 || t.TrainSize > r.curve.MaxTrainSize {
		return nil, fmt.Errorf("invalid train size %d", t.TrainSize)
	}
	h, err := r.holdout(t.DataSeed)
	if err != nil {
		return nil, err
	}
	shuffled := dataset.Shuffle(h.pool, rand.New(rand.NewSource(t.Seed)))
	train, valid := SplitSets(shuffled[:t.TrainSize], t.TrainSize/5)
	root, err := grove.Grow(ctx, dataset.Clone(train), r.curve.DefaultLabel)
	if err != nil {
		return nil, err
	}
	unpruned, err := root.Accuracy(h.test)
	if err != nil {
		return nil, err
	}
	report, err := grove.Prune(ctx, root, valid)
	if err != nil {
		return nil, err
	}
	pruned, err := root.Accuracy(h.test)
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{
		"task":   t.ID,
		"size":   t.TrainSize,
		"pruned": report.Pruned,
	}).Debug("tree pruned")
	return map[string]float64{Unpruned: unpruned, Pruned: pruned}, nil
}

func (r *Runner) compareTrial(ctx context.Context, t *queue.Task) (map[string]float64, error) {
	rng := rand.New(rand.NewSource(t.Seed))
	shuffled := dataset.Shuffle(r.examples, rng)
	train, test := SplitSets(shuffled, len(shuffled)-4*len(shuffled)/5)
	if len(train) == 0 || len(test) == 0 {
		return nil, fmt.Errorf("cannot split %d examples into training and test sets", len(r.examples))
	}
	single, err := grove.Grow(ctx, dataset.Clone(train), r.comparison.DefaultLabel)
	if err != nil {
		return nil, err
	}
	singleAcc, err := single.Accuracy(test)
	if err != nil {
		return nil, err
	}
	trees := t.Trees
	if trees < 1 {
		trees = r.comparison.Trees
	}
	f, err := forest.Train(ctx, train, trees,
		forest.WithRand(rng),
		forest.WithDefaultLabel(r.comparison.DefaultLabel),
		forest.WithWorkers(1),
	)
	if err != nil {
		return nil, err
	}
	forestAcc, err := f.Accuracy(test)
	if err != nil {
		return nil, err
	}
	return map[string]float64{Single: singleAcc, Ensemble: forestAcc}, nil
}

/*
SplitSets takes a slice of examples and a size n and returns the
examples before the last n and the last n examples. Sizes beyond the
bounds of the slice are clamped.
*/
func SplitSets(examples []dataset.Example, n int) ([]dataset.Example, []dataset.Example) {
	if n < 0 {
		n = 0
	}
	if n > len(examples) {
		n = len(examples)
	}
	cut := len(examples) - n
	return examples[:cut], examples[cut:]
}
