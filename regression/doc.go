// Package regression fits a four-parameter logistic (4PL) standard curve to an
// ELISA microplate and back-calculates concentrations from it.
//
// The model is
//
//	y = d + (a - d) / (1 + (x / c)^b)
//
// where x is the dose (concentration), y the blank-corrected signal, a the
// zero-dose asymptote, d the infinite-dose asymptote, c the inflection point
// (EC50 analog) and b the slope at c.
//
// # Pipeline
//
// Fit runs four stages on a plate snapshot and returns an immutable Regression:
//
//  1. Aggregate: validate every used well and average measurements per role
//     and group (see Aggregate for the validation order).
//  2. Fit: blank-correct, move doses to log space and run a fixed-budget batch
//     gradient descent from a heuristic starting point.
//  3. Statistics: SSE, MSE, RMSE, Sy.x and R² of the standards.
//  4. Inverse prediction: back-calculate every unknown group.
//
// # Basic Usage
//
//	p := plate.NewDefault()
//	// ... assign roles, groups, concentrations and values ...
//	reg, err := regression.Fit(p)
//	if err != nil {
//	    switch regression.Kind(err) {
//	    case regression.KindNotEnoughStandards:
//	        // ...
//	    }
//	    log.Fatal(err)
//	}
//	for i, u := range reg.Unknowns {
//	    fmt.Printf("%s: %.3f\n", u.DisplayName(i), u.Backfit)
//	}
//
// # Validation Errors
//
// Validation failures abort before any numerical work. They are mutually
// exclusive and the first one found wins. Every error wraps a sentinel from
// the errs package, and Kind maps it to a ValidationKind for user-facing
// messages.
//
// # Numerical Anomalies
//
// Problems after validation are not errors. A measurement outside the curve's
// range back-calculates to NaN or ±Inf, and Sy.x is +Inf for exactly four
// standards because the degrees of freedom are zero. Callers treat non-finite
// values as "not back-calculable".
//
// # Concurrency
//
// A fit is synchronous and CPU bound (100,000 iterations by default) with no
// internal goroutines. Separate fits share no state and may run concurrently.
package regression
