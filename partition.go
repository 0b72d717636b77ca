package grove

import (
	"fmt"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/tree"
)

/*
Partition represents the split of a node's examples according to the
values of one of their attributes, with the information gain the split
provides to predict their Class.

Subsets hold copies of the examples without the partitioning attribute,
keyed by its value. Values lists those keys in the order in which they
were first found among the examples.
*/
type Partition struct {
	Attribute       string
	Values          []string
	Subsets         map[string][]dataset.Example
	InformationGain float64
}

/*
NewPartition takes a node and one of its attributes and returns the
partition of the node's examples for the attribute. It fails with a
*dataset.MissingAttributeError if an example lacks the attribute.
*/
func NewPartition(n *tree.Node, attribute string) (*Partition, error) {
	p := &Partition{
		Attribute: attribute,
		Subsets:   make(map[string][]dataset.Example),
	}
	for _, e := range n.Examples {
		v, err := e.ValueFor(attribute)
		if err != nil {
			return nil, err
		}
		if _, ok := p.Subsets[v]; !ok {
			p.Values = append(p.Values, v)
		}
		p.Subsets[v] = append(p.Subsets[v], e.Without(attribute))
	}
	total := float64(len(n.Examples))
	p.InformationGain = n.Information
	for _, v := range p.Values {
		subset := p.Subsets[v]
		h, err := tree.Entropy(subset)
		if err != nil {
			return nil, err
		}
		p.InformationGain -= float64(len(subset)) / total * h
	}
	return p, nil
}

/*
NonTrivial returns whether the partition leaves at most one of its
branches empty, that is, whether it separates the examples into at
least two non-empty branches.
*/
func (p *Partition) NonTrivial() bool {
	var empty int
	for _, v := range p.Values {
		if len(p.Subsets[v]) == 0 {
			empty++
		}
	}
	return empty < len(p.Values)-1
}

// InformationGain returns the information gain of splitting the node on the attribute
func InformationGain(n *tree.Node, attribute string) (float64, error) {
	p, err := NewPartition(n, attribute)
	if err != nil {
		return 0.0, err
	}
	return p.InformationGain, nil
}

/*
SelectSplit takes a node and returns the partition of its examples on
the attribute that best predicts their Class. Attributes are considered
in the order of the node's Attributes: the first one is taken, and a
later one replaces the current best if its information gain is strictly
greater, or if the best gain so far is exactly 0 and the later partition
is non-trivial.
*/
func SelectSplit(n *tree.Node) (*Partition, error) {
	if len(n.Attributes) == 0 {
		return nil, fmt.Errorf("selecting split: node has no attributes")
	}
	var best *Partition
	for _, a := range n.Attributes {
		p, err := NewPartition(n, a)
		if err != nil {
			return nil, fmt.Errorf("partitioning on %q: %w", a, err)
		}
		if best == nil || p.InformationGain > best.InformationGain || (best.InformationGain == 0 && p.NonTrivial()) {
			best = p
		}
	}
	return best, nil
}
