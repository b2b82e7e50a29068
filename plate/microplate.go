// Package plate defines the microplate data model consumed by the regression
// engine.
//
// A Microplate is a fixed width×height grid of wells. Each well (Sample) has a
// role, a group index used by standard and unknown wells, and an optional
// measured value. Standards and unknowns are gathered into Groups; a standard
// group carries the known concentration of its wells.
//
// Wells are stored column-major: the well at column x, row y lives at index
// height*x + y. Use Index, Well and SetWell rather than computing offsets by
// hand.
//
// The plate is owned by whatever edits it (a UI session, an importer). The
// regression engine only reads it.
package plate

import (
	"fmt"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
	"github.com/arloliu/elisa/internal/hash"
)

const (
	// DefaultWidth is the column count of a standard 96-well plate.
	DefaultWidth = 12
	// DefaultHeight is the row count of a standard 96-well plate.
	DefaultHeight = 8
	// MaxHeight is the largest supported row count; rows are lettered A..Z.
	MaxHeight = 26
)

// Sample is a single well.
type Sample struct {
	// Role decides how the well takes part in the fit.
	Role format.SampleRole `json:"role"`
	// Group indexes StandardGroups or UnknownGroups depending on Role. It is
	// ignored for other roles.
	Group int `json:"group"`
	// Value is the measured signal, nil when nothing was assigned.
	Value *float64 `json:"value,omitempty"`
}

// HasValue reports whether a measurement is assigned.
func (s Sample) HasValue() bool {
	return s.Value != nil
}

// Group describes a standard or unknown group.
type Group struct {
	// Concentration is the known dose of a standard group. Unknown groups leave it nil.
	Concentration *float64 `json:"concentration,omitempty"`
	// Label is free text shown in reports.
	Label string `json:"label"`
}

// Microplate is a width×height grid of samples plus the group lists they refer to.
type Microplate struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Samples        []Sample `json:"samples"`
	StandardGroups []Group  `json:"standard_groups"`
	UnknownGroups  []Group  `json:"unknown_groups"`
}

// New creates a plate with every well unused and one empty standard and
// unknown group.
//
// Parameters:
//   - width: Number of columns (must be > 0)
//   - height: Number of rows (must be in 1..MaxHeight)
//
// Returns:
//   - *Microplate: The new plate
//   - error: ErrInvalidPlateSize if the dimensions are out of range
func New(width, height int) (*Microplate, error) {
	if width <= 0 || height <= 0 || height > MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d", errs.ErrInvalidPlateSize, width, height)
	}

	return &Microplate{
		Width:          width,
		Height:         height,
		Samples:        make([]Sample, width*height),
		StandardGroups: []Group{{}},
		UnknownGroups:  []Group{{}},
	}, nil
}

// NewDefault creates an empty 12×8 (96-well) plate.
func NewDefault() *Microplate {
	p, _ := New(DefaultWidth, DefaultHeight)
	return p
}

// Validate checks the structural consistency of the plate: dimensions,
// sample count and sample roles. Group indices are checked by the regression
// engine, which reports the first offending well.
func (p *Microplate) Validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.Height > MaxHeight {
		return fmt.Errorf("%w: %dx%d", errs.ErrInvalidPlateSize, p.Width, p.Height)
	}
	if len(p.Samples) != p.Width*p.Height {
		return fmt.Errorf("%w: got %d, want %d", errs.ErrSampleCount, len(p.Samples), p.Width*p.Height)
	}
	for i, s := range p.Samples {
		if !s.Role.Valid() {
			return fmt.Errorf("%w: well %s has role %d", errs.ErrInvalidRole, p.WellName(i), s.Role)
		}
	}

	return nil
}

// Index returns the sample index of the well at column x, row y.
func (p *Microplate) Index(x, y int) (int, error) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return 0, fmt.Errorf("%w: column %d row %d on %dx%d plate", errs.ErrWellOutOfRange, x, y, p.Width, p.Height)
	}

	return p.Height*x + y, nil
}

// Well returns the sample at column x, row y.
func (p *Microplate) Well(x, y int) (Sample, error) {
	i, err := p.Index(x, y)
	if err != nil {
		return Sample{}, err
	}

	return p.Samples[i], nil
}

// SetWell replaces the sample at column x, row y.
func (p *Microplate) SetWell(x, y int, s Sample) error {
	i, err := p.Index(x, y)
	if err != nil {
		return err
	}
	p.Samples[i] = s

	return nil
}

// WellName returns the conventional name of the sample at index i, e.g. "A1"
// for the top-left well and "H12" for the bottom-right well of a 96-well plate.
func (p *Microplate) WellName(i int) string {
	if p.Height <= 0 || i < 0 {
		return fmt.Sprintf("#%d", i)
	}
	x, y := i/p.Height, i%p.Height

	return fmt.Sprintf("%c%d", 'A'+rune(y), x+1)
}

// AssignValues writes a row-major grid of measurements into the plate.
//
// grid[y][x] is the value of the well at column x, row y; nil entries clear
// the value. Rows and columns missing from grid are left untouched.
//
// Returns:
//   - error: ErrGridTooTall or ErrGridTooWide if grid does not fit the plate
func (p *Microplate) AssignValues(grid [][]*float64) error {
	if len(grid) > p.Height {
		return fmt.Errorf("%w: %d rows, plate has %d", errs.ErrGridTooTall, len(grid), p.Height)
	}
	for y, row := range grid {
		if len(row) > p.Width {
			return fmt.Errorf("%w: row %d has %d entries, plate has %d columns", errs.ErrGridTooWide, y+1, len(row), p.Width)
		}
	}

	for y, row := range grid {
		for x, v := range row {
			p.Samples[p.Height*x+y].Value = v
		}
	}

	return nil
}

// Values returns the row-major grid of measurements, the inverse of AssignValues.
func (p *Microplate) Values() [][]*float64 {
	grid := make([][]*float64, p.Height)
	for y := range grid {
		grid[y] = make([]*float64, p.Width)
		for x := range grid[y] {
			grid[y][x] = p.Samples[p.Height*x+y].Value
		}
	}

	return grid
}

// Fingerprint returns an xxHash64 over everything the regression engine reads.
//
// Two plates with equal fingerprints produce the same fit, which lets an
// embedding application skip refitting an unchanged plate. Name and
// description are excluded because they never affect the result.
func (p *Microplate) Fingerprint() uint64 {
	h := hash.NewDigest()
	h.Int(p.Width)
	h.Int(p.Height)
	h.Int(len(p.Samples))
	for _, s := range p.Samples {
		h.Int(int(s.Role))
		h.Int(s.Group)
		h.OptionalFloat64(s.Value)
	}
	for _, groups := range [][]Group{p.StandardGroups, p.UnknownGroups} {
		h.Int(len(groups))
		for _, g := range groups {
			h.OptionalFloat64(g.Concentration)
			h.String(g.Label)
		}
	}

	return h.Sum64()
}

// Clone returns a deep copy of the plate.
func (p *Microplate) Clone() *Microplate {
	c := *p
	c.Samples = make([]Sample, len(p.Samples))
	for i, s := range p.Samples {
		c.Samples[i] = Sample{Role: s.Role, Group: s.Group, Value: copyFloat(s.Value)}
	}
	c.StandardGroups = cloneGroups(p.StandardGroups)
	c.UnknownGroups = cloneGroups(p.UnknownGroups)

	return &c
}

func cloneGroups(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Concentration: copyFloat(g.Concentration), Label: g.Label}
	}

	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v

	return &c
}

// Float returns a pointer to v, for building samples and groups literally.
func Float(v float64) *float64 {
	return &v
}
