package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/arloliu/elisa/regression"
)

// Default image size of RenderCurve.
const (
	DefaultWidth  = 1024
	DefaultHeight = 640
)

// curveSamples is the number of points drawn along the fitted curve.
const curveSamples = 200

var errNoDoseRange = errors.New("standards span no dose range")

// CurveOptions tune the rendered image.
type CurveOptions struct {
	Width, Height int
	Title         string
}

// RenderCurve draws the fitted curve on a log10 dose axis together with the
// standards and every back-calculable unknown, and writes a PNG to w.
//
// Unknowns whose backfit is NaN or infinite are left out of the plot.
func RenderCurve(w io.Writer, reg *regression.Regression, opts CurveOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	curve, err := curveSeries(reg)
	if err != nil {
		return err
	}

	series := []chart.Series{curve, standardSeries(reg)}
	if unknowns, ok := unknownSeries(reg); ok {
		series = append(series, unknowns)
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Concentration (log10)",
			ValueFormatter: doseFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Blank corrected signal",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render curve: %w", err)
	}

	return nil
}

// doseFormatter labels a log10 axis position with the dose it stands for.
func doseFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(math.Pow(10, f), 'g', 3, 64)
	}

	return ""
}

func curveSeries(reg *regression.Regression) (chart.ContinuousSeries, error) {
	if len(reg.Standards) == 0 {
		return chart.ContinuousSeries{}, errNoDoseRange
	}
	lo := math.Log10(reg.Standards[0].Dose)
	hi := math.Log10(reg.Standards[len(reg.Standards)-1].Dose)
	if !(hi > lo) {
		return chart.ContinuousSeries{}, errNoDoseRange
	}

	xs := make([]float64, curveSamples)
	ys := make([]float64, curveSamples)
	step := (hi - lo) / float64(curveSamples-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
		ys[i] = reg.Apply(math.Pow(10, xs[i]))
	}

	return chart.ContinuousSeries{
		Name:    "4PL fit",
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
	}, nil
}

func pointStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: c}
}

func standardSeries(reg *regression.Regression) chart.ContinuousSeries {
	xs := make([]float64, len(reg.Standards))
	ys := make([]float64, len(reg.Standards))
	for i, s := range reg.Standards {
		xs[i] = math.Log10(s.Dose)
		ys[i] = s.Measurement
	}

	return chart.ContinuousSeries{Name: "Standards", XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlack)}
}

func unknownSeries(reg *regression.Regression) (chart.ContinuousSeries, bool) {
	var xs, ys []float64
	for _, u := range reg.Unknowns {
		if u.Backfit <= 0 || math.IsNaN(u.Backfit) || math.IsInf(u.Backfit, 0) {
			continue
		}
		xs = append(xs, math.Log10(u.Backfit))
		ys = append(ys, u.Measurement)
	}
	if len(xs) == 0 {
		return chart.ContinuousSeries{}, false
	}

	return chart.ContinuousSeries{Name: "Unknowns", XValues: xs, YValues: ys, Style: pointStyle(chart.ColorRed)}, true
}
