package grove

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overfitValidation() []dataset.Example {
	return []dataset.Example{
		ex("A", "y", "B", "b1", "Class", "yes"),
		ex("A", "y", "B", "b2", "Class", "yes"),
		ex("A", "x", "B", "b1", "Class", "yes"),
	}
}

func TestPrune(t *testing.T) {
	root, err := Grow(context.Background(), abExamples(), "yes")
	require.NoError(t, err)
	require.Equal(t, "yes", root.Label)

	report, err := Prune(context.Background(), root, overfitValidation())
	require.NoError(t, err)
	x, _ := root.Child("x")
	y, _ := root.Child("y")
	assert.True(t, x.Pruned, "pruning that keeps accuracy is kept")
	assert.True(t, y.Pruned)
	assert.Equal(t, 2, report.Trials)
	assert.Equal(t, 2, report.Pruned)
	assert.InDelta(t, 1.0/3.0, report.AccuracyBefore, 1e-12)
	assert.Equal(t, 1.0, report.AccuracyAfter)

	acc, err := root.Accuracy(overfitValidation())
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestPruneStrictImprovement(t *testing.T) {
	root, err := Grow(context.Background(), abExamples(), "yes")
	require.NoError(t, err)
	_, err = Prune(context.Background(), root, overfitValidation(), StrictImprovement())
	require.NoError(t, err)
	x, _ := root.Child("x")
	y, _ := root.Child("y")
	assert.False(t, x.Pruned)
	assert.True(t, y.Pruned)
}

func TestPruneEmptyValidation(t *testing.T) {
	root, err := Grow(context.Background(), abExamples(), "yes")
	require.NoError(t, err)
	_, err = Prune(context.Background(), root, nil)
	assert.True(t, errors.Is(err, dataset.ErrEmptyDataset))
}

func TestPruneCancelled(t *testing.T) {
	root, err := Grow(context.Background(), abExamples(), "yes")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Prune(ctx, root, overfitValidation())
	assert.Equal(t, context.Canceled, err)
	for _, n := range root.LevelOrder() {
		assert.False(t, n.Pruned)
	}
}

func TestPruneNeverLowersValidationAccuracy(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	classify := func(e dataset.Example) string {
		if r.Intn(5) == 0 {
			return "flip"
		}
		if e["a0"] == "v1" || e["a2"] == "v2" {
			return "on"
		}
		return "off"
	}
	for i := 0; i < 10; i++ {
		train := randomExamples(r, 80, 5, classify)
		valid := randomExamples(r, 20, 5, classify)
		root, err := Grow(context.Background(), train, "off")
		require.NoError(t, err)
		before, err := root.Accuracy(valid)
		require.NoError(t, err)
		report, err := Prune(context.Background(), root, valid)
		require.NoError(t, err)
		after, err := root.Accuracy(valid)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, after, before)
		assert.Equal(t, before, report.AccuracyBefore)
		assert.Equal(t, after, report.AccuracyAfter)
	}
}
