package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/elisa/plate"
)

// plateFixture describes a plate with one well per group: standards in
// column 0 (and column 1 past row 8), blank and control in column 2, unknowns
// in column 3.
type plateFixture struct {
	blank     *float64
	control   *float64
	doses     []float64
	responses []float64
	unknowns  []float64
}

func (f plateFixture) build(t testing.TB) *plate.Microplate {
	t.Helper()

	p := plate.NewDefault()
	for g := range f.doses {
		x, y := g/plate.DefaultHeight, g%plate.DefaultHeight
		require.NoError(t, p.SetStandard(x, y, g, f.responses[g]))
		require.NoError(t, p.SetConcentration(g, f.doses[g]))
	}
	if f.blank != nil {
		require.NoError(t, p.SetBlank(2, 0, *f.blank))
	}
	if f.control != nil {
		require.NoError(t, p.SetControl(2, 1, *f.control))
	}
	for g, v := range f.unknowns {
		require.NoError(t, p.SetUnknown(3, g, g, v))
	}

	return p
}

// assayDoses is a two-fold dilution series from 100 down to 0.78125.
func assayDoses() []float64 {
	doses := make([]float64, 8)
	for i := range doses {
		doses[i] = 100.0 / math.Pow(2, float64(i))
	}

	return doses
}

// assayFixture is a realistic sandwich ELISA plate. The control sits below
// the weakest standard so the plate validates.
func assayFixture() plateFixture {
	return plateFixture{
		blank:     plate.Float(0.05),
		control:   plate.Float(0.06),
		doses:     assayDoses(),
		responses: []float64{2.0, 1.8, 1.5, 1.0, 0.6, 0.3, 0.15, 0.08},
		unknowns:  []float64{0.9},
	}
}

// syntheticFixture generates responses exactly on the curve of truth with the
// control at the true zero-dose asymptote and no blank.
func syntheticFixture(truth Params) plateFixture {
	doses := assayDoses()
	responses := make([]float64, len(doses))
	for i, x := range doses {
		responses[i] = truth.Apply(x)
	}

	return plateFixture{
		control:   plate.Float(truth.A),
		doses:     doses,
		responses: responses,
	}
}

func requireRelative(t *testing.T, want, got, tol float64, name string) {
	t.Helper()
	require.InDeltaf(t, 0, (got-want)/want, tol, "%s: want %v, got %v", name, want, got)
}
