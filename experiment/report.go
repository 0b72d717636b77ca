package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var curveHeader = []string{"train_set_size", "without_pruning", "without_pruning_stddev", "with_pruning", "with_pruning_stddev", "trials"}

// WriteCurveCSV writes the points of a learning curve as CSV
func WriteCurveCSV(w io.Writer, points []CurvePoint) error {
	cw := csv.NewWriter(w)
	err := cw.Write(curveHeader)
	if err != nil {
		return fmt.Errorf("writing curve header: %v", err)
	}
	for _, p := range points {
		err = cw.Write([]string{
			strconv.Itoa(p.TrainSize),
			formatFloat(p.Unpruned.Mean),
			formatFloat(p.Unpruned.StdDev),
			formatFloat(p.Pruned.Mean),
			formatFloat(p.Pruned.StdDev),
			strconv.Itoa(p.Unpruned.N),
		})
		if err != nil {
			return fmt.Errorf("writing curve point for size %d: %v", p.TrainSize, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

/*
CurvePlot returns a plot of the mean accuracies of a learning curve
with and without pruning against the training size.
*/
func CurvePlot(points []CurvePoint) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Learning curve"
	p.X.Label.Text = "train_set_size"
	p.Y.Label.Text = "accuracy"
	without := make(plotter.XYs, len(points))
	with := make(plotter.XYs, len(points))
	for i, pt := range points {
		without[i].X = float64(pt.TrainSize)
		without[i].Y = pt.Unpruned.Mean
		with[i].X = float64(pt.TrainSize)
		with[i].Y = pt.Pruned.Mean
	}
	err := plotutil.AddLinePoints(p, "Without Pruning", without, "With Pruning", with)
	if err != nil {
		return nil, fmt.Errorf("plotting curve: %v", err)
	}
	return p, nil
}

// PlotCurve saves a plot of the learning curve to the given path,
// in the format given by its extension
func PlotCurve(points []CurvePoint, path string) error {
	p, err := CurvePlot(points)
	if err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// WriteCurvePNG writes a PNG plot of the learning curve to w
func WriteCurvePNG(w io.Writer, points []CurvePoint) error {
	p, err := CurvePlot(points)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("rendering curve: %v", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
