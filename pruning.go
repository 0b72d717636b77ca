package grove

import (
	"context"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/tree"
)

// PruneReport summarizes a run of Prune
type PruneReport struct {
	// Trials is the number of children whose pruning was tried
	Trials int
	// Pruned is the number of children left pruned
	Pruned int
	// AccuracyBefore is the validation accuracy before pruning
	AccuracyBefore float64
	// AccuracyAfter is the validation accuracy after pruning
	AccuracyAfter float64
}

// PruneOption configures Prune
type PruneOption func(*pruner)

/*
StrictImprovement makes Prune keep a pruned child only when validation
accuracy strictly improves with it pruned. By default a child stays
pruned when accuracy does not decrease.
*/
func StrictImprovement() PruneOption {
	return func(p *pruner) {
		p.strict = true
	}
}

type pruner struct {
	strict bool
}

/*
Prune takes a context, the root of a tree, a slice of validation
examples and options and applies reduced-error pruning to the tree in
place.

Nodes are visited in reverse level order, so deeper nodes come before
shallower ones. For every child of a visited node, pruned or not, the
validation accuracy of the whole tree is measured, the child is marked
as pruned and the accuracy is measured again. If the accuracy dropped
the child is restored. Decisions accumulate: later measurements are
taken with earlier prunings in effect.

Validation accuracy after Prune is never lower than before it. Prune
returns dataset.ErrEmptyDataset when given no validation examples and
the context error if it is cancelled, leaving the decisions taken so far
in place.
*/
func Prune(ctx context.Context, root *tree.Node, validation []dataset.Example, opts ...PruneOption) (*PruneReport, error) {
	if len(validation) == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	p := &pruner{}
	for _, opt := range opts {
		opt(p)
	}
	accuracy, err := root.Accuracy(validation)
	if err != nil {
		return nil, err
	}
	report := &PruneReport{AccuracyBefore: accuracy}
	for _, n := range root.BottomUp() {
		for _, c := range n.Children() {
			err = ctx.Err()
			if err != nil {
				return report, err
			}
			wasPruned := c.Pruned
			c.Pruned = true
			pruned, err := root.Accuracy(validation)
			if err != nil {
				c.Pruned = wasPruned
				return report, err
			}
			report.Trials++
			if pruned < accuracy || (p.strict && pruned == accuracy) {
				c.Pruned = false
				if wasPruned {
					accuracy, err = root.Accuracy(validation)
					if err != nil {
						return report, err
					}
				}
				continue
			}
			accuracy = pruned
		}
	}
	for _, n := range root.LevelOrder() {
		if n.Pruned {
			report.Pruned++
		}
	}
	report.AccuracyAfter = accuracy
	return report, nil
}
