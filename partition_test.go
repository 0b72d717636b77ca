package grove

import (
	"math/rand"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(t *testing.T, examples []dataset.Example) *tree.Node {
	n, err := tree.New(examples)
	require.NoError(t, err)
	return n
}

func TestNewPartition(t *testing.T) {
	n := node(t, abExamples())
	p, err := NewPartition(n, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Attribute)
	assert.Equal(t, []string{"x", "y"}, p.Values)
	require.Len(t, p.Subsets["x"], 2)
	for _, e := range p.Subsets["x"] {
		assert.NotContains(t, e, "A")
		assert.Equal(t, "yes", e[dataset.ClassKey])
	}
	assert.InDelta(t, 1.0, p.InformationGain, 1e-12)
	assert.True(t, p.NonTrivial())
	assert.Equal(t, "x", n.Examples[0]["A"], "partitioning copies examples")

	gain, err := InformationGain(n, "B")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, gain, 1e-12)
}

func TestNewPartitionMissingAttribute(t *testing.T) {
	n := node(t, []dataset.Example{ex("A", "x", "Class", "yes"), ex("B", "y", "Class", "no")})
	_, err := NewPartition(n, "A")
	assert.IsType(t, &dataset.MissingAttributeError{}, err)
}

func TestNonTrivial(t *testing.T) {
	p := &Partition{
		Values:  []string{"a"},
		Subsets: map[string][]dataset.Example{"a": {ex("Class", "x")}},
	}
	assert.False(t, p.NonTrivial())
	p.Values = append(p.Values, "b")
	p.Subsets["b"] = nil
	assert.False(t, p.NonTrivial())
	p.Subsets["b"] = []dataset.Example{ex("Class", "y")}
	assert.True(t, p.NonTrivial())
}

func TestSelectSplit(t *testing.T) {
	testCases := []struct {
		name      string
		examples  []dataset.Example
		attribute string
	}{
		{
			name:      "highest gain",
			examples:  abExamples(),
			attribute: "A",
		},
		{
			name: "later attribute with strictly greater gain",
			examples: []dataset.Example{
				ex("A", "1", "B", "x", "Class", "yes"),
				ex("A", "2", "B", "x", "Class", "yes"),
				ex("A", "1", "B", "y", "Class", "no"),
				ex("A", "2", "B", "y", "Class", "no"),
			},
			attribute: "B",
		},
		{
			name: "zero gain prefers a later non-trivial split",
			examples: []dataset.Example{
				ex("A", "k", "B", "b1", "Class", "yes"),
				ex("A", "k", "B", "b2", "Class", "yes"),
				ex("A", "k", "B", "b1", "Class", "no"),
				ex("A", "k", "B", "b2", "Class", "no"),
			},
			attribute: "B",
		},
		{
			name: "zero gain keeps the first split against a trivial one",
			examples: []dataset.Example{
				ex("A", "a1", "B", "k", "Class", "yes"),
				ex("A", "a2", "B", "k", "Class", "yes"),
				ex("A", "a1", "B", "k", "Class", "no"),
				ex("A", "a2", "B", "k", "Class", "no"),
			},
			attribute: "A",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := SelectSplit(node(t, tc.examples))
			require.NoError(t, err)
			assert.Equal(t, tc.attribute, p.Attribute)
		})
	}
}

func TestSelectSplitWithoutAttributes(t *testing.T) {
	_, err := SelectSplit(node(t, []dataset.Example{ex("Class", "yes")}))
	assert.Error(t, err)
}

func TestInformationGainIsNotNegative(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		examples := randomExamples(r, 1+r.Intn(40), 3, func(dataset.Example) string {
			return []string{"a", "b", "c", "d"}[r.Intn(4)]
		})
		n := node(t, examples)
		for _, a := range n.Attributes {
			gain, err := InformationGain(n, a)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, gain, -1e-9)
		}
	}
}
