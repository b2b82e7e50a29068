package regression

import (
	"fmt"
	"math"
)

// Params holds the four fitted 4PL parameters.
type Params struct {
	// A is the zero-dose asymptote.
	A float64 `json:"a"`
	// B is the slope factor at the inflection point.
	B float64 `json:"b"`
	// C is the inflection point, in dose units.
	C float64 `json:"c"`
	// D is the infinite-dose asymptote.
	D float64 `json:"d"`
}

// Apply evaluates the curve at dose x: d + (a-d) / (1 + (x/c)^b).
func (p Params) Apply(x float64) float64 {
	return p.D + (p.A-p.D)/(1.0+math.Pow(x/p.C, p.B))
}

// Inverse back-calculates the dose for a blank-corrected measurement y:
// c * ((a-d)/(y-d) - 1)^(1/b).
//
// Measurements at or beyond the asymptotes have no finite dose. The result is
// then NaN or ±Inf and is returned as is; callers must treat it as "not
// back-calculable".
func (p Params) Inverse(y float64) float64 {
	return p.C * math.Pow((p.A-p.D)/(y-p.D)-1.0, 1.0/p.B)
}

// Finite reports whether all four parameters are finite numbers.
func (p Params) Finite() bool {
	for _, v := range [...]float64{p.A, p.B, p.C, p.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Coefficients returns the parameters in a, b, c, d order.
func (p Params) Coefficients() []float64 {
	return []float64{p.A, p.B, p.C, p.D}
}

// Formula returns a human-readable representation of the fitted curve.
func (p Params) Formula() string {
	return fmt.Sprintf("y = %.4g + (%.4g - %.4g) / (1 + (x / %.4g)^%.4g)", p.D, p.A, p.D, p.C, p.B)
}

func (p Params) String() string {
	return fmt.Sprintf("Params{a: %.6g, b: %.6g, c: %.6g, d: %.6g}", p.A, p.B, p.C, p.D)
}

// Recovery returns the back-calculated dose as a percentage of the known dose.
func Recovery(backfit, dose float64) float64 {
	return backfit / dose * 100.0
}

// Point is a standard on the curve: its known dose and mean measurement.
type Point struct {
	Dose        float64 `json:"dose"`
	Measurement float64 `json:"measurement"`
}

// Unknown is an unknown group with its mean measurement and back-calculated dose.
type Unknown struct {
	// Backfit is the dose predicted by the inverted curve, 0 before the fit.
	Backfit float64 `json:"backfit"`
	// Measurement is the group mean.
	Measurement float64 `json:"measurement"`
	// Label is the group label, possibly empty.
	Label string `json:"label"`
	// Group is the index into the plate's unknown group list.
	Group int `json:"group"`
}

// DisplayName returns the label, or "Unknown N" (1-based on position i) when
// the label is empty.
func (u Unknown) DisplayName(i int) string {
	if u.Label != "" {
		return u.Label
	}

	return fmt.Sprintf("Unknown %d", i+1)
}

// StandardRecovery is one row of the standards QC table.
type StandardRecovery struct {
	Dose        float64
	Measurement float64
	Backfit     float64
	Recovery    float64
}

// Regression is the immutable result of one fit.
//
// Standard, unknown and control measurements are blank-corrected; Blank holds
// the raw blank mean that was subtracted.
type Regression struct {
	// Params are the fitted curve parameters.
	Params Params
	// Blank is the mean of the blank wells (0 without blanks).
	Blank float64
	// Control is the blank-corrected mean of the control wells.
	Control float64
	// Standards are sorted ascending by dose.
	Standards []Point
	// Unknowns are in unknown group order; groups without wells are dropped.
	Unknowns []Unknown
	// Replicates holds per-group replicate statistics of the raw measurements.
	Replicates []ReplicateStats
	// Stats are the goodness-of-fit metrics of the standards.
	Stats Statistics
	// Iterations is the number of descent iterations actually run.
	Iterations int
	// Fingerprint identifies the plate content the fit was computed from.
	Fingerprint uint64
}

// Apply evaluates the fitted curve at dose x.
func (r *Regression) Apply(x float64) float64 {
	return r.Params.Apply(x)
}

// Inverse back-calculates the dose of a blank-corrected measurement.
func (r *Regression) Inverse(y float64) float64 {
	return r.Params.Inverse(y)
}

// InverseRaw back-calculates the dose of a raw (not blank-corrected) measurement.
func (r *Regression) InverseRaw(y float64) float64 {
	return r.Params.Inverse(y - r.Blank)
}

// Recoveries back-calculates every standard and its recovery percentage.
func (r *Regression) Recoveries() []StandardRecovery {
	out := make([]StandardRecovery, len(r.Standards))
	for i, s := range r.Standards {
		backfit := r.Params.Inverse(s.Measurement)
		out[i] = StandardRecovery{
			Dose:        s.Dose,
			Measurement: s.Measurement,
			Backfit:     backfit,
			Recovery:    Recovery(backfit, s.Dose),
		}
	}

	return out
}

// Parameter is a named value of the parameter table.
type Parameter struct {
	Name  string
	Value float64
}

// Parameters returns the parameter table shown next to the curve: the four
// curve parameters followed by the fit statistics.
func (r *Regression) Parameters() []Parameter {
	return []Parameter{
		{"a", r.Params.A},
		{"b", r.Params.B},
		{"c", r.Params.C},
		{"d", r.Params.D},
		{"MSE", r.Stats.MSE},
		{"SSE", r.Stats.SSE},
		{"Sy.x", r.Stats.SyX},
		{"RMSE", r.Stats.RMSE},
		{"R^2", r.Stats.RSquared},
	}
}

func (r *Regression) String() string {
	return fmt.Sprintf("Regression{%s, R²: %.4f, RMSE: %.4g, Standards: %d, Unknowns: %d}",
		r.Params, r.Stats.RSquared, r.Stats.RMSE, len(r.Standards), len(r.Unknowns))
}
