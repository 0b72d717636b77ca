package experiment

import (
	"bytes"
	"context"
	"io"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/queue"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func votes(n int, seed int64) []dataset.Example {
	r := rand.New(rand.NewSource(seed))
	values := []string{"y", "n", "?"}
	examples := make([]dataset.Example, n)
	for i := range examples {
		e := dataset.Example{}
		for _, a := range []string{"budget", "crime", "education", "immigration"} {
			e[a] = values[r.Intn(len(values))]
		}
		if e["crime"] == "y" || (e["crime"] == "?" && e["budget"] == "n") {
			e[dataset.ClassKey] = "republican"
		} else {
			e[dataset.ClassKey] = "democrat"
		}
		examples[i] = e
	}
	return examples
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func smallCurve() Curve {
	return Curve{MinTrainSize: 10, MaxTrainSize: 40, Step: 10, Repeats: 2, DefaultLabel: "democrat"}
}

func TestCurveTasks(t *testing.T) {
	tasks := smallCurve().Tasks(rand.New(rand.NewSource(1)))
	require.Len(t, tasks, 8)
	var sizes []int
	for _, task := range tasks {
		assert.Equal(t, queue.CurveTrial, task.Kind)
		assert.Equal(t, tasks[0].DataSeed, task.DataSeed)
		sizes = append(sizes, task.TrainSize)
	}
	assert.Equal(t, []int{10, 10, 20, 20, 30, 30, 40, 40}, sizes)
	assert.NotEqual(t, tasks[0].Seed, tasks[1].Seed)
	assert.Len(t, DefaultCurve().Tasks(rand.New(rand.NewSource(1))), 146*100)
}

func TestCurveAndComparisonValidate(t *testing.T) {
	assert.NoError(t, DefaultCurve().Validate())
	assert.NoError(t, DefaultComparison().Validate())
	assert.Error(t, Curve{MinTrainSize: 10, MaxTrainSize: 5, Step: 1, Repeats: 1}.Validate())
	assert.Error(t, Curve{MinTrainSize: 1, MaxTrainSize: 5, Step: 0, Repeats: 1}.Validate())
	assert.Error(t, Curve{MinTrainSize: 1, MaxTrainSize: 5, Step: 1}.Validate())
	assert.Error(t, Comparison{Trees: 1}.Validate())
	assert.Error(t, Comparison{Iterations: 1}.Validate())
}

func TestComparisonTasks(t *testing.T) {
	c := Comparison{Iterations: 4, Trees: 7}
	tasks := c.Tasks(rand.New(rand.NewSource(1)))
	require.Len(t, tasks, 4)
	for _, task := range tasks {
		assert.Equal(t, queue.CompareTrial, task.Kind)
		assert.Equal(t, 7, task.Trees)
	}
}

func TestSplitSets(t *testing.T) {
	examples := votes(10, 1)
	train, test := SplitSets(examples, 2)
	assert.Equal(t, examples[:8], train)
	assert.Equal(t, examples[8:], test)
	train, test = SplitSets(examples, 20)
	assert.Empty(t, train)
	assert.Len(t, test, 10)
	train, test = SplitSets(examples, -1)
	assert.Len(t, train, 10)
	assert.Empty(t, test)
}

func TestRunnerCurveTrial(t *testing.T) {
	examples := votes(80, 1)
	original := dataset.Clone(examples)
	r := NewRunner(examples, smallCurve(), DefaultComparison(), discard())
	task := queue.NewTask(queue.CurveTrial, 3, 5)
	task.TrainSize = 30
	require.NoError(t, r.RunTask(context.Background(), task))
	require.Contains(t, task.Scores, Unpruned)
	require.Contains(t, task.Scores, Pruned)
	for _, s := range task.Scores {
		assert.True(t, s >= 0 && s <= 1)
	}
	again := queue.NewTask(queue.CurveTrial, 3, 5)
	again.TrainSize = 30
	require.NoError(t, r.RunTask(context.Background(), again))
	assert.Equal(t, task.Scores, again.Scores)
	assert.Equal(t, original, examples)
}

func TestRunnerCompareTrial(t *testing.T) {
	examples := votes(60, 2)
	original := dataset.Clone(examples)
	r := NewRunner(examples, smallCurve(), Comparison{Iterations: 1, Trees: 5, DefaultLabel: "0"}, discard())
	task := queue.NewTask(queue.CompareTrial, 0, 9)
	require.NoError(t, r.RunTask(context.Background(), task))
	require.Contains(t, task.Scores, Single)
	require.Contains(t, task.Scores, Ensemble)
	again := queue.NewTask(queue.CompareTrial, 0, 9)
	require.NoError(t, r.RunTask(context.Background(), again))
	assert.Equal(t, task.Scores, again.Scores)
	assert.Equal(t, original, examples)
}

func TestRunnerRejectsInvalidTrials(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(votes(40, 1), smallCurve(), DefaultComparison(), discard())
	task := queue.NewTask(queue.CurveTrial, 0, 0)
	task.TrainSize = 20
	assert.Error(t, r.RunTask(ctx, task), "no examples left for testing")
	assert.Error(t, r.RunTask(ctx, &queue.Task{ID: "x", Kind: "boosting"}))
	r = NewRunner(votes(80, 1), smallCurve(), DefaultComparison(), discard())
	task.TrainSize = 41
	assert.Error(t, r.RunTask(ctx, task))
	r = NewRunner(votes(1, 1), smallCurve(), DefaultComparison(), discard())
	assert.Error(t, r.RunTask(ctx, queue.NewTask(queue.CompareTrial, 0, 0)))
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(votes(80, 3), smallCurve(), DefaultComparison(), discard())
	tasks := smallCurve().Tasks(rand.New(rand.NewSource(4)))
	q := queue.New()
	defer q.Stop(ctx)
	results, err := Run(ctx, r, q, tasks, 3, discard())
	require.NoError(t, err)
	assert.Len(t, results, len(tasks))
	points := SummarizeCurve(results)
	require.Len(t, points, 4)
	for i, size := range []int{10, 20, 30, 40} {
		assert.Equal(t, size, points[i].TrainSize)
		assert.Equal(t, 2, points[i].Unpruned.N)
		assert.Equal(t, 2, points[i].Pruned.N)
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4})
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.StdDev, 1e-9)
	assert.Equal(t, Stats{N: 1, Mean: 0.5}, Describe([]float64{0.5}))
	assert.Equal(t, Stats{}, Describe(nil))
}

func TestSummarizeComparison(t *testing.T) {
	tasks := []*queue.Task{
		{Kind: queue.CompareTrial, Scores: map[string]float64{Single: 0.5, Ensemble: 0.75}},
		{Kind: queue.CompareTrial, Scores: map[string]float64{Single: 0.7, Ensemble: 0.85}},
		{Kind: queue.CurveTrial, Scores: map[string]float64{Unpruned: 0.1}},
		{Kind: queue.CompareTrial},
	}
	s := SummarizeComparison(tasks)
	assert.Equal(t, 2, s.Single.N)
	assert.InDelta(t, 0.6, s.Single.Mean, 1e-9)
	assert.InDelta(t, 0.8, s.Forest.Mean, 1e-9)
}

func TestWriteCurveCSV(t *testing.T) {
	points := []CurvePoint{
		{TrainSize: 10, Unpruned: Stats{N: 2, Mean: 0.5}, Pruned: Stats{N: 2, Mean: 0.75, StdDev: 0.1}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCurveCSV(&buf, points))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(curveHeader, ","), lines[0])
	assert.Equal(t, "10,0.500000,0.000000,0.750000,0.100000,2", lines[1])
}

func TestWriteCurvePNG(t *testing.T) {
	points := []CurvePoint{
		{TrainSize: 10, Unpruned: Stats{N: 1, Mean: 0.5}, Pruned: Stats{N: 1, Mean: 0.6}},
		{TrainSize: 20, Unpruned: Stats{N: 1, Mean: 0.7}, Pruned: Stats{N: 1, Mean: 0.8}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCurvePNG(&buf, points))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
