/*
Package grove grows ID3 decision trees from categorical examples,
prunes them with reduced-error pruning against validation examples and
defines the Model contract shared by trees and forests.
*/
package grove

import (
	"context"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/tree"
	"golang.org/x/sync/errgroup"
)

/*
Model is a trained classifier. Its Predict method returns the label
for an example and its Accuracy method the fraction of the given
examples whose Class it predicts, failing with dataset.ErrEmptyDataset
when given none.

Both *tree.Node and *forest.Forest satisfy it.
*/
type Model interface {
	Predict(dataset.Example) (string, error)
	Accuracy([]dataset.Example) (float64, error)
}

// Option configures how Grow develops a tree
type Option func(*pot)

// Sequential makes Grow develop sibling subtrees one after another
func Sequential() Option {
	return func(p *pot) {
		p.concurrent = false
	}
}

type pot struct {
	defaultLabel string
	concurrent   bool
}

/*
Grow takes a context, a slice of examples, a default label and options
and returns the root of an ID3 tree trained on the examples.

Missing values in the examples are imputed in place before the tree is
built, so the caller's examples are modified. Each node is split on the
attribute selected by SelectSplit and gets one child per value observed
for it. Sibling subtrees are developed concurrently unless the
Sequential option is given; the resulting tree is the same either way.

The default label would label a branch without examples, which cannot
occur as branches only exist for observed values.

Grow returns dataset.ErrEmptyDataset when given no examples, a
*dataset.MissingAttributeError when an example lacks its Class and the
context error if it is cancelled before the tree is complete.
*/
func Grow(ctx context.Context, examples []dataset.Example, defaultLabel string, opts ...Option) (*tree.Node, error) {
	if len(examples) == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	p := &pot{defaultLabel: defaultLabel, concurrent: true}
	for _, opt := range opts {
		opt(p)
	}
	Impute(examples)
	return p.develop(ctx, examples)
}

func (p *pot) develop(ctx context.Context, examples []dataset.Example) (*tree.Node, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return &tree.Node{Label: p.defaultLabel}, nil
	}
	n, err := tree.New(examples)
	if err != nil {
		return nil, err
	}
	if n.IsLeaf() || len(n.Attributes) == 0 {
		return n, nil
	}
	part, err := SelectSplit(n)
	if err != nil {
		return nil, err
	}
	n.SplitAttribute = part.Attribute
	children := make([]*tree.Node, len(part.Values))
	if p.concurrent && len(part.Values) > 1 {
		eg, ectx := errgroup.WithContext(ctx)
		for i, v := range part.Values {
			i, subset := i, part.Subsets[v]
			eg.Go(func() error {
				c, err := p.develop(ectx, subset)
				children[i] = c
				return err
			})
		}
		err = eg.Wait()
		if err != nil {
			return nil, err
		}
	} else {
		for i, v := range part.Values {
			children[i], err = p.develop(ctx, part.Subsets[v])
			if err != nil {
				return nil, err
			}
		}
	}
	for i, v := range part.Values {
		n.AddChild(v, children[i])
	}
	return n, nil
}

