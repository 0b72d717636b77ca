package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	a := NewTask(CurveTrial, 1, 2)
	b := NewTask(CurveTrial, 1, 2)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, CurveTrial, a.Kind)
	assert.Equal(t, int64(1), a.DataSeed)
	assert.Equal(t, int64(2), a.Seed)
	assert.Contains(t, a.String(), a.ID)
}

func TestMemQueueOrderAndCounts(t *testing.T) {
	ctx := context.Background()
	q := New()
	defer q.Stop(ctx)
	var tasks []*Task
	for i := 0; i < 5; i++ {
		task := NewTask(CompareTrial, 0, int64(i))
		tasks = append(tasks, task)
		require.NoError(t, q.Push(ctx, task))
	}
	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, pending)
	assert.Equal(t, 0, running)

	first, tctx, cancel, err := q.Pull(ctx)
	require.NoError(t, err)
	defer cancel()
	assert.Equal(t, tasks[0], first)
	assert.NoError(t, tctx.Err())
	second, _, cancel2, err := q.Pull(ctx)
	require.NoError(t, err)
	defer cancel2()
	assert.Equal(t, tasks[1], second)

	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)
	assert.Equal(t, 2, running)

	require.NoError(t, q.Drop(ctx, first.ID))
	first.Scores = map[string]float64{"single": 0.5}
	require.NoError(t, q.Complete(ctx, second))
	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, pending)
	assert.Equal(t, 0, running)

	var order []*Task
	for {
		task, _, cancel, err := q.Pull(ctx)
		require.NoError(t, err)
		if task == nil {
			break
		}
		cancel()
		order = append(order, task)
		require.NoError(t, q.Complete(ctx, task))
	}
	assert.Equal(t, []*Task{tasks[2], tasks[3], tasks[4], tasks[0]}, order)

	results, err := q.Results(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*Task{tasks[1], tasks[2], tasks[3], tasks[4], tasks[0]}, results)
	require.NoError(t, WaitFor(ctx, q, time.Millisecond))
}

func TestMemQueueIgnoresUnknownTasks(t *testing.T) {
	ctx := context.Background()
	q := New()
	assert.NoError(t, q.Drop(ctx, "missing"))
	assert.NoError(t, q.Complete(ctx, NewTask(CurveTrial, 0, 0)))
	results, err := q.Results(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemQueueStopCancelsPulledContexts(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Push(ctx, NewTask(CurveTrial, 0, 0)))
	_, tctx, cancel, err := q.Pull(ctx)
	require.NoError(t, err)
	defer cancel()
	require.NoError(t, q.Stop(ctx))
	<-tctx.Done()
	assert.Error(t, tctx.Err())
}

func TestWaitForHonoursContext(t *testing.T) {
	q := New()
	require.NoError(t, q.Push(context.Background(), NewTask(CurveTrial, 0, 0)))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, context.DeadlineExceeded, WaitFor(ctx, q, time.Millisecond))
}
