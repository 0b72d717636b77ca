package dataset

import (
	"math/rand"
	"sort"
)

/*
Attributes takes a slice of examples and returns the sorted names of
every attribute present in any of them, Class excluded.
*/
func Attributes(examples []Example) []string {
	seen := make(map[string]struct{})
	for _, e := range examples {
		for k := range e {
			if k != ClassKey {
				seen[k] = struct{}{}
			}
		}
	}
	result := make([]string, 0, len(seen))
	for k := range seen {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// Clone returns a copy of the given examples that shares no maps with them
func Clone(examples []Example) []Example {
	result := make([]Example, len(examples))
	for i, e := range examples {
		result[i] = e.Copy()
	}
	return result
}

/*
Shuffle takes a slice of examples and a source of randomness and
returns a new slice with the same examples in a random order. The
examples themselves are not copied.
*/
func Shuffle(examples []Example, r *rand.Rand) []Example {
	result := make([]Example, len(examples))
	copy(result, examples)
	r.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

/*
Bootstrap takes a slice of examples, a size n and a source of randomness
and returns n copies of examples drawn uniformly with replacement.
*/
func Bootstrap(examples []Example, n int, r *rand.Rand) []Example {
	if len(examples) == 0 {
		return nil
	}
	result := make([]Example, n)
	for i := range result {
		result[i] = examples[r.Intn(len(examples))].Copy()
	}
	return result
}

/*
Tally counts occurrences of values remembering the order in which each
value was first seen and which value first reached the highest count.
*/
type Tally struct {
	values []string
	counts map[string]int
	leader string
	max    int
}

// NewTally returns an empty Tally
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add counts one more occurrence of the given value and returns its count
func (t *Tally) Add(v string) int {
	c, ok := t.counts[v]
	if !ok {
		t.values = append(t.values, v)
	}
	c++
	t.counts[v] = c
	if c > t.max {
		t.leader, t.max = v, c
	}
	return c
}

// Count returns the occurrences of the given value
func (t *Tally) Count(v string) int {
	return t.counts[v]
}

// Values returns the counted values in first-seen order
func (t *Tally) Values() []string {
	return t.values
}

// Len returns the number of distinct values counted
func (t *Tally) Len() int {
	return len(t.values)
}

/*
Mode returns the most frequent value: the first one whose count
strictly exceeded every count before it, which is the first to reach
the highest count in the order values were added. The boolean result
is false when nothing has been counted.
*/
func (t *Tally) Mode() (string, bool) {
	return t.leader, t.max > 0
}

/*
Plurality returns the most frequent value breaking ties by the order
in which values were first seen, or false when nothing has been counted.
*/
func (t *Tally) Plurality() (string, bool) {
	var result string
	var max int
	for _, v := range t.values {
		if c := t.counts[v]; c > max {
			result, max = v, c
		}
	}
	return result, max > 0
}
