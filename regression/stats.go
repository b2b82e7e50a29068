package regression

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Statistics are goodness-of-fit metrics of a curve over its standards.
type Statistics struct {
	// SSE is the sum of squared residuals.
	SSE float64 `json:"sse"`
	// MSE is SSE / n.
	MSE float64 `json:"mse"`
	// RMSE is sqrt(MSE).
	RMSE float64 `json:"rmse"`
	// SyX is the standard error of the estimate, sqrt(SSE / (n - 4)). It is
	// +Inf for exactly four standards with a non-zero SSE.
	SyX float64 `json:"syx"`
	// RSquared is (1 - SSE/SS_tot)², the squared coefficient of determination.
	RSquared float64 `json:"r_squared"`
}

// ComputeStatistics evaluates params at every standard dose and compares the
// prediction with the blank-corrected measurement.
//
// Non-finite results (for example a zero SS_tot) are returned as is.
func ComputeStatistics(params Params, standards []Point) Statistics {
	n := float64(len(standards))
	observed := make([]float64, len(standards))
	for i, s := range standards {
		observed[i] = s.Measurement
	}
	mean := stat.Mean(observed, nil)

	ssRes := 0.0 // residual sum of squares
	ssTot := 0.0 // total sum of squares
	for _, s := range standards {
		r := s.Measurement - params.Apply(s.Dose)
		ssRes += r * r
		ssTot += (s.Measurement - mean) * (s.Measurement - mean)
	}

	mse := ssRes / n
	rSquared := 1.0 - ssRes/ssTot

	return Statistics{
		SSE:      ssRes,
		MSE:      mse,
		RMSE:     math.Sqrt(mse),
		SyX:      math.Sqrt(ssRes / (n - MinStandards)),
		RSquared: rSquared * rSquared,
	}
}
