/*
Package forest implements random forests of ID3 trees: every member
tree is grown on a bootstrap sample of the training examples restricted
to a random subset of their attributes, and the forest predicts the
label most member trees vote for.
*/
package forest

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/tree"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Forest is a trained random forest
type Forest struct {
	trees []*tree.Node
}

// Vote is the number of member trees that predicted a label
type Vote struct {
	Label string
	Count int
}

/*
KeptAttributes takes a number of attributes and returns how many of
them each member tree is trained with: ceil(sqrt(n)) + 1.
*/
func KeptAttributes(n int) int {
	return int(math.Ceil(math.Sqrt(float64(n)))) + 1
}

/*
Train takes a context, a slice of training examples, a number of trees
and options and returns a forest of that many trees.

The attributes are taken from the first example. For each tree Train
draws a bootstrap sample as large as the training set and picks the
attributes to drop so that KeptAttributes of them remain (none are
dropped when there are fewer). All draws are made in order from a
single source of randomness before any tree is grown, so a seeded
source gives the same forest regardless of how the trees are then
grown concurrently. Trees are grown without pruning.

The training examples are not modified. Train fails with
dataset.ErrEmptyDataset when given no examples.
*/
func Train(ctx context.Context, examples []dataset.Example, nTrees int, opts ...Option) (*Forest, error) {
	if len(examples) == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	if nTrees < 1 {
		return nil, fmt.Errorf("training forest: invalid number of trees %d", nTrees)
	}
	c := newConfig(opts)
	attributes := examples[0].Attributes()
	drop := len(attributes) - KeptAttributes(len(attributes))
	if drop < 0 {
		drop = 0
	}
	samples := make([][]dataset.Example, nTrees)
	for i := range samples {
		sample := dataset.Bootstrap(examples, len(examples), c.rand)
		dropped := pick(attributes, drop, c.rand)
		for _, e := range sample {
			for _, a := range dropped {
				delete(e, a)
			}
		}
		samples[i] = sample
	}
	c.logger.WithFields(logrus.Fields{
		"trees":      nTrees,
		"attributes": len(attributes),
		"dropped":    drop,
	}).Debug("growing forest")
	trees := make([]*tree.Node, nTrees)
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)
	for i := range samples {
		i := i
		eg.Go(func() error {
			t, err := grove.Grow(ectx, samples[i], c.defaultLabel)
			if err != nil {
				return fmt.Errorf("growing tree #%d: %w", i+1, err)
			}
			trees[i] = t
			c.logger.WithField("tree", i+1).Debug("tree grown")
			return nil
		})
	}
	err := eg.Wait()
	if err != nil {
		return nil, err
	}
	return &Forest{trees: trees}, nil
}

// pick draws n of the given values uniformly without replacement
func pick(values []string, n int, r *rand.Rand) []string {
	pool := append([]string(nil), values...)
	for i := 0; i < n; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// New returns a forest with the given trees
func New(trees ...*tree.Node) *Forest {
	return &Forest{trees: trees}
}

// Trees returns the member trees of the forest in the order they were drawn
func (f *Forest) Trees() []*tree.Node {
	return f.trees
}

/*
Votes takes an example and returns the labels the member trees predict
for it with their counts, in the order each label was first predicted.
*/
func (f *Forest) Votes(e dataset.Example) ([]Vote, error) {
	tally, err := f.tally(e)
	if err != nil {
		return nil, err
	}
	votes := make([]Vote, 0, tally.Len())
	for _, l := range tally.Values() {
		votes = append(votes, Vote{l, tally.Count(l)})
	}
	return votes, nil
}

func (f *Forest) tally(e dataset.Example) (*dataset.Tally, error) {
	tally := dataset.NewTally()
	for i, t := range f.trees {
		l, err := t.Predict(e)
		if err != nil {
			return nil, fmt.Errorf("tree #%d: %w", i+1, err)
		}
		tally.Add(l)
	}
	return tally, nil
}

/*
Predict takes an example and returns the label most member trees
predict for it. On ties the label that was predicted first wins.
*/
func (f *Forest) Predict(e dataset.Example) (string, error) {
	if f == nil || len(f.trees) == 0 {
		return "", tree.ErrNilTree
	}
	tally, err := f.tally(e)
	if err != nil {
		return "", err
	}
	l, _ := tally.Plurality()
	return l, nil
}

/*
Accuracy takes a slice of examples and returns the fraction of them
whose Class the forest predicts correctly. It returns
dataset.ErrEmptyDataset when given no examples.
*/
func (f *Forest) Accuracy(examples []dataset.Example) (float64, error) {
	if len(examples) == 0 {
		return 0.0, dataset.ErrEmptyDataset
	}
	var correct int
	for _, e := range examples {
		c, err := e.Class()
		if err != nil {
			return 0.0, err
		}
		p, err := f.Predict(e)
		if err != nil {
			return 0.0, err
		}
		if p == c {
			correct++
		}
	}
	return float64(correct) / float64(len(examples)), nil
}

var _ grove.Model = (*Forest)(nil)
