package tree

import (
	"math"

	"github.com/pbanos/grove/dataset"
)

/*
Node is a node of a decision tree. It keeps the training examples that
reached it, the majority label among them, the attributes still
available to split on below it and the entropy of its examples.

Interior nodes name the attribute they split on and hold one child per
value of that attribute observed among their examples. Children keep
the order in which their values were first observed.

Pruned marks a node as logically removed: its parent treats it as
absent when predicting, but it stays in place so that a pruning
decision can be reverted.
*/
type Node struct {
	Examples       []dataset.Example
	Label          string
	Attributes     []string
	Information    float64
	SplitAttribute string
	Pruned         bool
	values         []string
	children       map[string]*Node
}

/*
New takes a slice of examples and returns a node built from them, with
its label, attributes and information computed, and no children.
It returns dataset.ErrEmptyDataset if there are no examples, and a
*dataset.MissingAttributeError if an example has no Class.
*/
func New(examples []dataset.Example) (*Node, error) {
	if len(examples) == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	classes, err := tallyClasses(examples)
	if err != nil {
		return nil, err
	}
	return &Node{
		Examples:    examples,
		Label:       majorityLabel(classes),
		Attributes:  dataset.Attributes(examples),
		Information: entropy(classes, len(examples)),
	}, nil
}

/*
Entropy takes a slice of examples and returns the base-2 Shannon entropy
of their Class values: -Σ p·log2(p) over the relative frequency p of
each class. It returns 0 for an empty slice.
*/
func Entropy(examples []dataset.Example) (float64, error) {
	classes, err := tallyClasses(examples)
	if err != nil {
		return 0, err
	}
	return entropy(classes, len(examples)), nil
}

func entropy(classes *dataset.Tally, total int) float64 {
	var result float64
	for _, c := range classes.Values() {
		p := float64(classes.Count(c)) / float64(total)
		result -= p * math.Log2(p)
	}
	return result
}

func tallyClasses(examples []dataset.Example) (*dataset.Tally, error) {
	t := dataset.NewTally()
	for _, e := range examples {
		c, err := e.Class()
		if err != nil {
			return nil, err
		}
		t.Add(c)
	}
	return t, nil
}

// majorityLabel returns the first class whose running count strictly
// exceeds the highest count seen so far.
func majorityLabel(classes *dataset.Tally) string {
	label, _ := classes.Mode()
	return label
}

// IsLeaf returns whether all of the node's examples share one class
func (n *Node) IsLeaf() bool {
	if len(n.Examples) == 0 {
		return false
	}
	first := n.Examples[0][dataset.ClassKey]
	for _, e := range n.Examples[1:] {
		if e[dataset.ClassKey] != first {
			return false
		}
	}
	return true
}

/*
AddChild takes a value of the node's split attribute and a node and
sets the node as the child for that value. Adding a child for a value
that already has one replaces it in place.
*/
func (n *Node) AddChild(value string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, ok := n.children[value]; !ok {
		n.values = append(n.values, value)
	}
	n.children[value] = child
}

// Child returns the child for the given value of the split attribute
func (n *Node) Child(value string) (*Node, bool) {
	c, ok := n.children[value]
	return c, ok
}

// Values returns the split attribute values with a child, in insertion order
func (n *Node) Values() []string {
	return n.values
}

// Children returns the children of the node in insertion order
func (n *Node) Children() []*Node {
	result := make([]*Node, 0, len(n.values))
	for _, v := range n.values {
		result = append(result, n.children[v])
	}
	return result
}

// HasTraversableChild returns whether at least one child is not pruned
func (n *Node) HasTraversableChild() bool {
	for _, c := range n.children {
		if !c.Pruned {
			return true
		}
	}
	return false
}

/*
Depth returns the number of levels of the subtree under the node,
ignoring pruned nodes. A single node has depth 1.
*/
func (n *Node) Depth() int {
	var max int
	for _, c := range n.Children() {
		if c.Pruned {
			continue
		}
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

/*
Size returns the number of nodes and leaves in the subtree under the
node that are reachable for predictions, that is, not pruned.
*/
func (n *Node) Size() (nodes, leaves int) {
	nodes = 1
	var traversable bool
	for _, c := range n.Children() {
		if c.Pruned {
			continue
		}
		traversable = true
		cn, cl := c.Size()
		nodes += cn
		leaves += cl
	}
	if !traversable {
		leaves = 1
	}
	return nodes, leaves
}
