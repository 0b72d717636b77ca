package dataset

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExample(t *testing.T) {
	e := Example{"b": "1", "a": "?", ClassKey: "yes"}
	c, err := e.Class()
	require.NoError(t, err)
	assert.Equal(t, "yes", c)
	assert.Equal(t, []string{"a", "b"}, e.Attributes())
	assert.Equal(t, "[a=? b=1 Class=yes]", e.String())

	_, err = e.ValueFor("z")
	var mae *MissingAttributeError
	require.True(t, errors.As(err, &mae))
	assert.Equal(t, "z", mae.Attribute)

	w := e.Without("a", "missing")
	assert.Equal(t, Example{"b": "1", ClassKey: "yes"}, w)
	assert.Contains(t, e, "a")
}

func TestAttributes(t *testing.T) {
	examples := []Example{
		{"z": "1", ClassKey: "a"},
		{"m": "1", "b": "2", ClassKey: "b"},
	}
	assert.Equal(t, []string{"b", "m", "z"}, Attributes(examples))
	assert.Empty(t, Attributes(nil))
}

func TestCloneShuffleBootstrap(t *testing.T) {
	examples := []Example{{"a": "1", ClassKey: "x"}, {"a": "2", ClassKey: "y"}, {"a": "3", ClassKey: "z"}}
	clone := Clone(examples)
	clone[0]["a"] = "changed"
	assert.Equal(t, "1", examples[0]["a"])

	shuffled := Shuffle(examples, rand.New(rand.NewSource(1)))
	assert.ElementsMatch(t, examples, shuffled)
	assert.Equal(t, "1", examples[0]["a"], "the input order is kept")

	r1 := Bootstrap(examples, 10, rand.New(rand.NewSource(2)))
	r2 := Bootstrap(examples, 10, rand.New(rand.NewSource(2)))
	assert.Len(t, r1, 10)
	assert.Equal(t, r1, r2)
	r1[0]["a"] = "changed"
	for _, e := range examples {
		assert.NotEqual(t, "changed", e["a"])
	}
	assert.Nil(t, Bootstrap(nil, 3, rand.New(rand.NewSource(2))))
}

func TestTally(t *testing.T) {
	tally := NewTally()
	_, ok := tally.Mode()
	assert.False(t, ok)
	for _, v := range []string{"a", "b", "b", "a", "c"} {
		tally.Add(v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, tally.Values())
	assert.Equal(t, 3, tally.Len())
	assert.Equal(t, 2, tally.Count("a"))
	assert.Equal(t, 0, tally.Count("d"))
	mode, ok := tally.Mode()
	require.True(t, ok)
	assert.Equal(t, "b", mode, "b reached two occurrences first")
	plurality, ok := tally.Plurality()
	require.True(t, ok)
	assert.Equal(t, "a", plurality, "a was seen first")
}

func TestSchema(t *testing.T) {
	_, err := NewSchema([]string{"a", "b"})
	assert.Error(t, err)
	_, err = NewSchema([]string{"a", "a", ClassKey})
	assert.Error(t, err)
	_, err = NewSchema([]string{"a", "", ClassKey})
	assert.Error(t, err)

	s, err := NewSchema([]string{"a", ClassKey, "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", ClassKey, "b"}, s.Names())
	assert.Equal(t, []string{"a", "b"}, s.Attributes())

	e, err := s.Example([]string{"1", "yes", "?"})
	require.NoError(t, err)
	assert.Equal(t, Example{"a": "1", "b": "?", ClassKey: "yes"}, e)
	_, err = s.Example([]string{"1"})
	assert.Error(t, err)

	row, err := s.Row(e)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "yes", "?"}, row)

	assert.NoError(t, s.Validate(e))
	err = s.Validate(Example{"a": "1", ClassKey: "yes"})
	var mae *MissingAttributeError
	require.True(t, errors.As(err, &mae))
	assert.Equal(t, "b", mae.Attribute)
	assert.Error(t, s.Validate(Example{"a": "1", "b": "2", "c": "3", ClassKey: "yes"}))
	assert.Error(t, s.ValidateAll([]Example{e, {"a": "1"}}))
}

func TestSchemaFor(t *testing.T) {
	_, err := SchemaFor(nil)
	assert.Equal(t, ErrEmptyDataset, err)
	s, err := SchemaFor([]Example{{"b": "1", "a": "2", ClassKey: "x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", ClassKey}, s.Names())
}

func TestNewExample(t *testing.T) {
	e := NewExample(map[string]interface{}{"a": nil, "b": 3, "c": true, ClassKey: "x"})
	assert.Equal(t, Example{"a": "?", "b": "3", "c": "true", ClassKey: "x"}, e)
}
