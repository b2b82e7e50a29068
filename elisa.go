// Package elisa quantifies ELISA microplates with a four parameter logistic
// (4PL) standard curve.
//
// A plate assigns every well a role (blank, control, standard, unknown or
// unused) and a measured optical density. Standards of known concentration
// define the curve y = d + (a - d) / (1 + (x/c)^b); unknowns are
// back-calculated from it.
//
// # Core Features
//
//   - Validation of plate assignments with classified, operator-friendly errors
//   - Deterministic gradient-descent fit with goodness-of-fit statistics
//   - Back-calculation of unknowns and recovery of standards
//   - Replicate QC (count, SD and CV% per group)
//   - Plate files with optional Zstd, S2 or LZ4 compression and a checksum
//   - Import of pasted value grids and plate-reader .xls exports
//   - CSV reports and standard curve PNGs
//
// # Basic Usage
//
// Building and fitting a plate:
//
//	import "github.com/arloliu/elisa"
//
//	p := elisa.NewDefaultPlate()
//	dose := 100.0
//	for g, od := range []float64{2.0, 1.8, 1.5, 1.0, 0.6, 0.3, 0.15, 0.08} {
//	    p.SetStandard(0, g, g, od)
//	    p.SetConcentration(g, dose)
//	    dose /= 2
//	}
//	p.SetBlank(2, 0, 0.05)
//	p.SetUnknown(3, 0, 0, 0.9)
//
//	reg, err := elisa.Fit(p)
//	if err != nil {
//	    fmt.Println(regression.Kind(err).Message())
//	    return
//	}
//	fmt.Println(reg.Params.Formula())
//	fmt.Println(reg.Unknowns[0].Backfit)
//
// Saving and loading:
//
//	if err := elisa.SavePlate("run3.elisa", p); err != nil {
//	    log.Fatal(err)
//	}
//	p, err = elisa.LoadPlate("run3.elisa")
//
// # Package Structure
//
// This package wraps the most common calls of the plate, regression,
// platefile and platedata packages. Use those packages directly for
// fine-grained control.
package elisa

import (
	"context"
	"fmt"
	"os"

	"github.com/arloliu/elisa/format"
	"github.com/arloliu/elisa/plate"
	"github.com/arloliu/elisa/platedata"
	"github.com/arloliu/elisa/platefile"
	"github.com/arloliu/elisa/regression"
)

var defaultSaveOptions = []platefile.Option{
	platefile.WithCompression(format.CompressionZstd),
}

// NewPlate creates an empty plate of width columns and height rows.
//
// Every well starts unused and without a value; the plate has one empty
// standard group and one empty unknown group.
//
// Parameters:
//   - width: Number of columns, positive
//   - height: Number of rows (1..plate.MaxHeight)
//
// Returns:
//   - *plate.Microplate: The new plate
//   - error: errs.ErrInvalidPlateSize for out of range dimensions
func NewPlate(width, height int) (*plate.Microplate, error) {
	return plate.New(width, height)
}

// NewDefaultPlate creates an empty 12x8 (96 well) plate.
func NewDefaultPlate() *plate.Microplate {
	return plate.NewDefault()
}

// Fit validates p and fits a 4PL curve to its standards.
//
// p is never modified. Validation failures wrap one of the errs sentinels;
// regression.Kind classifies them.
//
// Parameters:
//   - p: Plate to analyze
//   - opts: Optional descent tuning (see regression.FitOption)
//
// Returns:
//   - *regression.Regression: Curve, statistics and back-calculated unknowns
//   - error: A validation or option error
//
// Available options:
//   - regression.WithIterations(n)
//   - regression.WithLearningRates(rates)
//   - regression.WithTolerance(tol)
//   - regression.WithProgress(observer, every)
//
// Example:
//
//	reg, err := elisa.Fit(p, regression.WithTolerance(1e-12))
func Fit(p *plate.Microplate, opts ...regression.FitOption) (*regression.Regression, error) {
	return regression.Fit(p, opts...)
}

// FitContext is Fit with cancellation.
func FitContext(ctx context.Context, p *plate.Microplate, opts ...regression.FitOption) (*regression.Regression, error) {
	return regression.FitContext(ctx, p, opts...)
}

// LoadPlate reads a plate file, or a bare JSON plate, from path.
func LoadPlate(path string) (*plate.Microplate, error) {
	return platefile.Load(path)
}

// SavePlate writes p to path, Zstd-compressed unless opts select otherwise.
//
// The file is replaced atomically.
//
// Example:
//
//	err := elisa.SavePlate("run3.elisa", p, platefile.WithCompression(format.CompressionNone))
func SavePlate(path string, p *plate.Microplate, opts ...platefile.Option) error {
	allOpts := append(append([]platefile.Option(nil), defaultSaveOptions...), opts...)
	return platefile.Save(path, p, allOpts...)
}

// ImportValues parses a pasted value grid (one plate row per line, "_" for
// a missing value) and writes it into p. Wells outside the grid keep their
// values.
func ImportValues(p *plate.Microplate, text string) error {
	grid, err := platedata.ParseGrid(text, p.Width, p.Height)
	if err != nil {
		return err
	}

	return p.AssignValues(grid)
}

// ImportValuesFile is ImportValues reading the grid from a text file.
func ImportValuesFile(p *plate.Microplate, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := ImportValues(p, string(data)); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	return nil
}

// ImportXLS reads the measurement table of a plate-reader export and writes
// it into p.
//
// Parameters:
//   - p: Plate to update
//   - path: Path of the .xls workbook
//   - sheet: Zero-based sheet index (see platedata.SheetNames)
func ImportXLS(p *plate.Microplate, path string, sheet int) error {
	grid, err := platedata.ReadXLS(path, sheet)
	if err != nil {
		return err
	}
	if err := p.AssignValues(grid); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	return nil
}
