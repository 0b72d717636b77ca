package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/grove/dataset"
)

// ErrNilTree is returned when asking a nil tree for predictions
const ErrNilTree = TreeError("nil tree cannot predict examples")

// TreeError represents an error related with trees
type TreeError string

func (te TreeError) Error() string {
	return string(te)
}

/*
Predict takes an example and returns the label the tree under the node
assigns to it. Walking down from the node:
  * a leaf, a node without attributes or a node whose children are all
    pruned answers with its own label,
  * a missing value for the split attribute follows the non-pruned child
    with most training examples (the first one on ties),
  * a value without a child, or whose child is pruned, gets the node's label,
  * any other value follows its child.

It returns a *dataset.MissingAttributeError if the example does not
define an attribute the tree splits on along the way.
*/
func (n *Node) Predict(e dataset.Example) (string, error) {
	if n == nil {
		return "", ErrNilTree
	}
	for {
		if n.IsLeaf() || len(n.Attributes) == 0 || !n.HasTraversableChild() {
			return n.Label, nil
		}
		v, err := e.ValueFor(n.SplitAttribute)
		if err != nil {
			return "", fmt.Errorf("predicting example %v: %w", e, err)
		}
		if v == dataset.MissingValue {
			next := n.mostPopulousChild()
			if next == nil {
				return n.Label, nil
			}
			n = next
			continue
		}
		c, ok := n.children[v]
		if !ok || c.Pruned {
			return n.Label, nil
		}
		n = c
	}
}

func (n *Node) mostPopulousChild() *Node {
	var result *Node
	var size int
	for _, c := range n.Children() {
		if c.Pruned {
			continue
		}
		if len(c.Examples) > size {
			result = c
			size = len(c.Examples)
		}
	}
	return result
}

/*
Accuracy takes a slice of examples and returns the fraction of them
whose Class the tree predicts correctly. It returns
dataset.ErrEmptyDataset when given no examples.
*/
func (n *Node) Accuracy(examples []dataset.Example) (float64, error) {
	if len(examples) == 0 {
		return 0.0, dataset.ErrEmptyDataset
	}
	var correct int
	for _, e := range examples {
		c, err := e.Class()
		if err != nil {
			return 0.0, err
		}
		p, err := n.Predict(e)
		if err != nil {
			return 0.0, err
		}
		if p == c {
			correct++
		}
	}
	return float64(correct) / float64(len(examples)), nil
}

/*
LevelOrder returns every node in the tree under n, pruned ones
included, in breadth-first order with siblings in child order.
*/
func (n *Node) LevelOrder() []*Node {
	if n == nil {
		return nil
	}
	result := []*Node{n}
	for i := 0; i < len(result); i++ {
		result = append(result, result[i].Children()...)
	}
	return result
}

// BottomUp returns the reverse of LevelOrder: deepest nodes first, root last
func (n *Node) BottomUp() []*Node {
	nodes := n.LevelOrder()
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes depth-first through the tree
// running the function with the context and every node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
func (n *Node) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	for _, c := range n.Children() {
		err = c.Traverse(ctx, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

func (n *Node) String() string {
	return n.subtreeString("")
}

func (n *Node) subtreeString(branch string) string {
	var result string
	if branch != "" {
		result = fmt.Sprintf("[%s]", branch)
		if n.Pruned {
			result += " (pruned)"
		}
		result += "\n"
	}
	result = fmt.Sprintf("%s{ label: %s, examples: %d, information: %.4f }\n", result, n.Label, len(n.Examples), n.Information)
	values := n.Values()
	if len(values) > 0 {
		result = fmt.Sprintf("%s| %s?\n", result, n.SplitAttribute)
	}
	for i, v := range values {
		c := n.children[v]
		for j, line := range strings.Split(c.subtreeString(fmt.Sprintf("%s = %s", n.SplitAttribute, v)), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case i == len(values)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
