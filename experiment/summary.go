package experiment

import (
	"fmt"
	"sort"

	"github.com/pbanos/grove/queue"
	"gonum.org/v1/gonum/stat"
)

// Stats holds the mean and sample standard deviation of a score
type Stats struct {
	N      int
	Mean   float64
	StdDev float64
}

func (s Stats) String() string {
	return fmt.Sprintf("%.4f ± %.4f (n=%d)", s.Mean, s.StdDev, s.N)
}

// Describe returns the stats of the given values
func Describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	return Stats{N: len(values), Mean: mean, StdDev: std}
}

// CurvePoint holds the scores of the trials of a curve for a training size
type CurvePoint struct {
	TrainSize int
	Unpruned  Stats
	Pruned    Stats
}

/*
SummarizeCurve takes completed curve tasks and returns a point per
training size, ordered by size. Other tasks are ignored.
*/
func SummarizeCurve(tasks []*queue.Task) []CurvePoint {
	unpruned := make(map[int][]float64)
	pruned := make(map[int][]float64)
	for _, t := range tasks {
		if t.Kind != queue.CurveTrial || t.Scores == nil {
			continue
		}
		unpruned[t.TrainSize] = append(unpruned[t.TrainSize], t.Scores[Unpruned])
		pruned[t.TrainSize] = append(pruned[t.TrainSize], t.Scores[Pruned])
	}
	sizes := make([]int, 0, len(unpruned))
	for size := range unpruned {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	points := make([]CurvePoint, len(sizes))
	for i, size := range sizes {
		points[i] = CurvePoint{
			TrainSize: size,
			Unpruned:  Describe(unpruned[size]),
			Pruned:    Describe(pruned[size]),
		}
	}
	return points
}

// ComparisonSummary holds the scores of single trees and forests
type ComparisonSummary struct {
	Single Stats
	Forest Stats
}

// SummarizeComparison takes completed compare tasks and returns their stats
func SummarizeComparison(tasks []*queue.Task) ComparisonSummary {
	var single, forest []float64
	for _, t := range tasks {
		if t.Kind != queue.CompareTrial || t.Scores == nil {
			continue
		}
		single = append(single, t.Scores[Single])
		forest = append(forest, t.Scores[Ensemble])
	}
	return ComparisonSummary{Single: Describe(single), Forest: Describe(forest)}
}
