package regression

import (
	"fmt"
	"math"

	"github.com/arloliu/elisa/internal/options"
)

// DefaultIterations is the fixed gradient descent budget of a fit.
const DefaultIterations = 100_000

// DefaultProgressEvery is the default iteration stride between progress reports.
const DefaultProgressEvery = 1000

// LearningRates holds one step size per curve parameter.
type LearningRates struct {
	A, B, C, D float64
}

// DefaultLearningRates returns the step sizes tuned for blank-corrected
// optical densities on a log-dose axis.
func DefaultLearningRates() LearningRates {
	return LearningRates{A: 0.1, B: 1.0, C: 1.0, D: 0.1}
}

// Progress is a snapshot of the descent reported to a ProgressObserver.
type Progress struct {
	// Iteration is the 0-based index of the iteration that just finished.
	Iteration int
	// Params are the current parameters, with C in dose units.
	Params Params
	// MSE is the mean squared residual measured before the iteration's update.
	MSE float64
}

// ProgressObserver receives descent snapshots. It runs on the fitting
// goroutine, so it must return quickly.
type ProgressObserver func(Progress)

// FitConfig holds the tuning knobs of the gradient descent.
type FitConfig struct {
	// Iterations is the maximum number of descent iterations.
	Iterations int
	// Rates are the per-parameter learning rates.
	Rates LearningRates
	// Tolerance stops the descent early once the absolute change of the MSE
	// between two iterations is at most Tolerance. Zero disables early stopping.
	Tolerance float64
	// Observer, when set, receives a snapshot every ObserveEvery iterations
	// and after the last one.
	Observer ProgressObserver
	// ObserveEvery is the iteration stride between snapshots.
	ObserveEvery int
}

func defaultFitConfig() FitConfig {
	return FitConfig{
		Iterations:   DefaultIterations,
		Rates:        DefaultLearningRates(),
		ObserveEvery: DefaultProgressEvery,
	}
}

// FitOption is a functional option for FitConfig.
type FitOption = options.Option[*FitConfig]

// WithIterations sets the descent budget. It must be positive.
func WithIterations(n int) FitOption {
	return options.New(func(cfg *FitConfig) error {
		if n <= 0 {
			return fmt.Errorf("iterations must be positive, got %d", n)
		}
		cfg.Iterations = n

		return nil
	})
}

// WithLearningRates replaces the per-parameter step sizes. Every rate must be
// finite and non-negative; a zero rate freezes its parameter at the initial guess.
func WithLearningRates(rates LearningRates) FitOption {
	return options.New(func(cfg *FitConfig) error {
		for _, r := range [...]float64{rates.A, rates.B, rates.C, rates.D} {
			if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
				return fmt.Errorf("invalid learning rates %+v", rates)
			}
		}
		cfg.Rates = rates

		return nil
	})
}

// WithTolerance enables early stopping once the MSE changes by at most tol
// between two iterations.
func WithTolerance(tol float64) FitOption {
	return options.New(func(cfg *FitConfig) error {
		if tol < 0 || math.IsNaN(tol) {
			return fmt.Errorf("tolerance must be non-negative, got %v", tol)
		}
		cfg.Tolerance = tol

		return nil
	})
}

// WithProgress registers an observer called every `every` iterations and
// after the final iteration. every <= 0 selects DefaultProgressEvery.
func WithProgress(observer ProgressObserver, every int) FitOption {
	return options.NoError(func(cfg *FitConfig) {
		cfg.Observer = observer
		if every <= 0 {
			every = DefaultProgressEvery
		}
		cfg.ObserveEvery = every
	})
}
