package regression

import (
	"context"
	"fmt"
	"math"

	"github.com/arloliu/elisa/internal/options"
	"github.com/arloliu/elisa/plate"
)

// cancelCheckEvery is the iteration stride between context checks.
const cancelCheckEvery = 1024

// Fit validates p, fits a 4PL curve to its standards and back-calculates its
// unknowns.
//
// Parameters:
//   - p: Plate snapshot, never modified
//   - opts: Optional descent tuning (WithIterations, WithLearningRates, ...)
//
// Returns:
//   - *Regression: The fitted curve with statistics and back-calculated unknowns
//   - error: A wrapped validation sentinel (see Aggregate) or an option error
//
// Example:
//
//	reg, err := regression.Fit(p)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(reg.Params.Formula())
func Fit(p *plate.Microplate, opts ...FitOption) (*Regression, error) {
	return FitContext(context.Background(), p, opts...)
}

// FitContext is Fit with cancellation. The context is polled between
// iterations; a cancelled fit returns ctx.Err().
func FitContext(ctx context.Context, p *plate.Microplate, opts ...FitOption) (*Regression, error) {
	cfg := defaultFitConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, fmt.Errorf("invalid fit option: %w", err)
	}

	agg, err := Aggregate(p)
	if err != nil {
		return nil, err
	}

	reg, err := fitAggregates(ctx, agg, cfg)
	if err != nil {
		return nil, err
	}
	reg.Fingerprint = p.Fingerprint()

	return reg, nil
}

// fitAggregates blank-corrects agg, runs the descent and assembles the result.
func fitAggregates(ctx context.Context, agg Aggregates, cfg FitConfig) (*Regression, error) {
	blank := agg.Blank

	standards := make([]Point, len(agg.Standards))
	for i, s := range agg.Standards {
		standards[i] = Point{Dose: s.Dose, Measurement: s.Measurement - blank}
	}
	control := agg.Control - blank

	params, iterations, err := descend(ctx, standards, control, cfg)
	if err != nil {
		return nil, err
	}

	unknowns := make([]Unknown, len(agg.Unknowns))
	for i, u := range agg.Unknowns {
		y := u.Measurement - blank
		unknowns[i] = Unknown{Backfit: params.Inverse(y), Measurement: y, Label: u.Label, Group: u.Group}
	}

	return &Regression{
		Params:     params,
		Blank:      blank,
		Control:    control,
		Standards:  standards,
		Unknowns:   unknowns,
		Replicates: agg.Replicates,
		Stats:      ComputeStatistics(params, standards),
		Iterations: iterations,
	}, nil
}

// logPoint is a standard with its dose on the natural log axis.
type logPoint struct {
	x, y float64
}

// InitialGuess returns the descent starting point for blank-corrected
// standards sorted by dose and a blank-corrected control.
//
// a starts at the control, b at 1 and d at the largest measurement. c starts
// at the dose midpoint (in log space) of the adjacent standard pair with the
// steepest positive slope, or at dose 1 when no pair rises.
func InitialGuess(standards []Point, control float64) Params {
	pts := toLogSpace(standards)
	p := initialGuess(pts, control)
	p.C = math.Exp(p.C)

	return p
}

func toLogSpace(standards []Point) []logPoint {
	pts := make([]logPoint, len(standards))
	for i, s := range standards {
		pts[i] = logPoint{x: math.Log(s.Dose), y: s.Measurement}
	}

	return pts
}

// initialGuess returns c in log space.
func initialGuess(pts []logPoint, control float64) Params {
	d := math.Inf(-1)
	for _, pt := range pts {
		d = math.Max(d, pt.y)
	}

	c, steepest := 0.0, 0.0
	for i := 1; i < len(pts); i++ {
		lo, hi := pts[i-1], pts[i]
		incline := (hi.y - lo.y) / (hi.x - lo.x)
		if incline > steepest {
			steepest = incline
			c = (lo.x + hi.x) / 2.0
		}
	}

	return Params{A: control, B: 1.0, C: c, D: d}
}

// descend runs batch gradient descent on the mean squared error in log-dose
// space, clamping a into [control, lowest standard] after every update.
func descend(ctx context.Context, standards []Point, control float64, cfg FitConfig) (Params, int, error) {
	pts := toLogSpace(standards)
	p := initialGuess(pts, control)

	lower := control
	upper := math.Inf(1)
	for _, s := range standards {
		upper = math.Min(upper, s.Measurement)
	}

	n := float64(len(pts))
	rates := cfg.Rates
	prevMSE := math.Inf(1)

	iterations := 0
	for i := 0; i < cfg.Iterations; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Params{}, iterations, err
			}
		}

		var sumA, sumB, sumC, sumD, sse float64
		for _, pt := range pts {
			e := math.Exp(p.B * (pt.x - p.C))
			s := 1.0 / (1.0 + e)
			// e/(1+e)² written as s(1-s) stays finite when e overflows.
			ds := s * (1.0 - s)
			r := pt.y - p.D - (p.A-p.D)*s

			sumA += r * s
			sumB += r * (pt.x - p.C) * ds
			sumC += r * ds
			sumD += r * (1.0 - s)
			sse += r * r
		}

		gradA := -2.0 / n * sumA
		gradB := 2.0 * (p.A - p.D) / n * sumB
		gradC := -2.0 * p.B * (p.A - p.D) / n * sumC
		gradD := -2.0 / n * sumD

		p.A -= rates.A * gradA
		p.B -= rates.B * gradB
		p.C -= rates.C * gradC
		p.D -= rates.D * gradD
		p.A = clamp(p.A, lower, upper)
		iterations = i + 1

		mse := sse / n
		last := iterations == cfg.Iterations
		converged := cfg.Tolerance > 0 && math.Abs(prevMSE-mse) <= cfg.Tolerance
		if cfg.Observer != nil && (i%cfg.ObserveEvery == 0 || last || converged) {
			cfg.Observer(Progress{Iteration: i, Params: Params{A: p.A, B: p.B, C: math.Exp(p.C), D: p.D}, MSE: mse})
		}
		if converged {
			break
		}
		prevMSE = mse
	}

	p.C = math.Exp(p.C)

	return p, iterations, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
