package regression

import (
	"context"
	"fmt"
	"math"
	"testing"
)

// BenchmarkDescend measures the descent alone for growing dilution series.
func BenchmarkDescend(b *testing.B) {
	truth := Params{A: 0.05, B: 1.2, C: 10, D: 2.0}
	cfg := defaultFitConfig()
	cfg.Iterations = 10_000

	for _, size := range []int{4, 8, 24, 96} {
		b.Run(fmt.Sprintf("Standards_%d", size), func(b *testing.B) {
			standards := make([]Point, size)
			for i := range standards {
				x := 1000 / math.Pow(1.5, float64(size-1-i))
				standards[i] = Point{Dose: x, Measurement: truth.Apply(x)}
			}
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _, _ = descend(context.Background(), standards, truth.A, cfg)
			}
		})
	}
}

// BenchmarkFit measures a full default fit of a 96-well plate.
func BenchmarkFit(b *testing.B) {
	p := assayFixture().build(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Fit(p); err != nil {
			b.Fatal(err)
		}
	}
}
