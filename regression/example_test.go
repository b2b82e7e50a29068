package regression_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/plate"
	"github.com/arloliu/elisa/regression"
)

// examplePlate lays out an 8-point dilution series in column 1, a blank and a
// control in column 2 and one unknown in column 3.
func examplePlate() *plate.Microplate {
	p := plate.NewDefault()
	responses := []float64{2.0, 1.8, 1.5, 1.0, 0.6, 0.3, 0.15, 0.08}
	dose := 100.0
	for g, y := range responses {
		if err := p.SetStandard(0, g, g, y); err != nil {
			log.Fatal(err)
		}
		if err := p.SetConcentration(g, dose); err != nil {
			log.Fatal(err)
		}
		dose /= 2
	}
	_ = p.SetBlank(1, 0, 0.05)
	_ = p.SetControl(1, 1, 0.06)
	_ = p.SetUnknown(2, 0, 0, 0.9)

	return p
}

// ExampleFit fits a standard curve and back-calculates an unknown.
func ExampleFit() {
	reg, err := regression.Fit(examplePlate())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("a=%.2f b=%.2f c=%.2f d=%.2f\n", reg.Params.A, reg.Params.B, reg.Params.C, reg.Params.D)
	fmt.Printf("R²: %.4f\n", reg.Stats.RSquared)
	for i, u := range reg.Unknowns {
		fmt.Printf("%s: %.2f\n", u.DisplayName(i), u.Backfit)
	}

	// Output:
	// a=0.01 b=1.36 c=13.88 d=2.07
	// R²: 0.9991
	// Unknown 1: 10.53
}

// ExampleKind translates a validation failure into an operator message.
func ExampleKind() {
	p := examplePlate()
	_ = p.SetControl(1, 1, 0.1) // above the weakest standard (0.08)

	_, err := regression.Fit(p)
	fmt.Println(errors.Is(err, errs.ErrControlTooBig))
	fmt.Println(regression.Kind(err))
	fmt.Println(regression.Kind(err).Message())

	// Output:
	// true
	// control_too_big
	// Control is greater than a standard measurement.
}

// ExampleWithProgress observes the descent every 25,000 iterations.
func ExampleWithProgress() {
	observer := func(pr regression.Progress) {
		fmt.Printf("iteration %d\n", pr.Iteration)
	}

	_, err := regression.Fit(examplePlate(), regression.WithProgress(observer, 25_000))
	if err != nil {
		log.Fatal(err)
	}

	// Output:
	// iteration 0
	// iteration 25000
	// iteration 50000
	// iteration 75000
	// iteration 99999
}
