package grove

import (
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
)

func TestImpute(t *testing.T) {
	examples := []dataset.Example{
		ex("A", "x", "B", "?", "C", "k", "Class", "yes"),
		ex("A", "?", "B", "?", "C", "?", "Class", "?"),
		ex("A", "y", "B", "?", "C", "k", "Class", "no"),
		ex("A", "y", "B", "?", "C", "j", "Class", "no"),
		ex("A", "x", "B", "?", "C", "j", "Class", "yes"),
	}
	modes := Impute(examples)
	assert.Equal(t, map[string]string{"A": "y", "C": "k"}, modes)
	assert.Equal(t, "y", examples[1]["A"], "the value first reaching the top count wins")
	assert.Equal(t, "k", examples[1]["C"])
	for _, e := range examples {
		assert.Equal(t, dataset.MissingValue, e["B"], "attributes without known values stay missing")
	}
	assert.Equal(t, dataset.MissingValue, examples[1][dataset.ClassKey])
	assert.Equal(t, "x", examples[0]["A"])
}

func TestImputeSingleMode(t *testing.T) {
	examples := []dataset.Example{
		ex("A", "?", "Class", "yes"),
		ex("A", "z", "Class", "yes"),
		ex("A", "w", "Class", "no"),
		ex("A", "z", "Class", "no"),
	}
	Impute(examples)
	assert.Equal(t, "z", examples[0]["A"])
}
