package regression

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
	"github.com/arloliu/elisa/plate"
)

// MinStandards is the number of distinct standard groups a 4PL fit needs.
const MinStandards = 4

// ReplicateStats summarises the raw replicate measurements of one group.
type ReplicateStats struct {
	Role  format.SampleRole
	Group int
	Count int
	Mean  float64
	// SD is the sample standard deviation, NaN for a single replicate.
	SD float64
	// CV is SD as a percentage of Mean.
	CV float64
}

// Aggregates are the validated per-group means of a plate, before blank correction.
type Aggregates struct {
	// Blank is the mean of the blank wells, 0 without blanks.
	Blank float64
	// Control is the mean of the control wells, 0 without controls.
	Control float64
	// Standards are sorted ascending by dose. Ties keep group order.
	Standards []Point
	// Unknowns keep unknown group order.
	Unknowns []Unknown
	// Replicates lists blank, control, standard and unknown groups with data.
	Replicates []ReplicateStats
}

// MinStandard returns the smallest standard mean, +Inf without standards.
func (a Aggregates) MinStandard() float64 {
	lowest := math.Inf(1)
	for _, s := range a.Standards {
		lowest = math.Min(lowest, s.Measurement)
	}

	return lowest
}

type accumulator struct {
	values []float64
}

func (acc *accumulator) add(v float64) {
	acc.values = append(acc.values, v)
}

func (acc *accumulator) count() int {
	return len(acc.values)
}

// mean is 0 for an empty group.
func (acc *accumulator) mean() float64 {
	if len(acc.values) == 0 {
		return 0
	}

	return stat.Mean(acc.values, nil)
}

func (acc *accumulator) replicates(role format.SampleRole, group int) ReplicateStats {
	rs := ReplicateStats{Role: role, Group: group, Count: acc.count(), Mean: acc.mean(), SD: math.NaN(), CV: math.NaN()}
	if rs.Count < 2 {
		return rs
	}
	if sd, err := stats.StandardDeviationSample(stats.Float64Data(acc.values)); err == nil {
		rs.SD = sd
		rs.CV = sd / rs.Mean * 100.0
	}

	return rs
}

// Aggregate validates the plate and averages measurements per role and group.
//
// Validation stops at the first failure, checked in this order:
//
//  1. Plate present, then plate structure (size, sample count, roles).
//  2. Every non-unused well in index order: value present, value finite,
//     group index inside the group list for standard and unknown wells.
//  3. Every standard group that has at least one well, in group order:
//     concentration present, then finite and positive.
//  4. At least MinStandards standard groups with data.
//  5. Control mean, then blank mean, not above the smallest standard mean.
//
// Groups without wells are dropped. The Aggregator never mutates p.
//
// Parameters:
//   - p: Plate to aggregate
//
// Returns:
//   - Aggregates: Validated group means (not blank-corrected)
//   - error: Wrapped errs sentinel on the first validation failure
func Aggregate(p *plate.Microplate) (Aggregates, error) {
	if p == nil {
		return Aggregates{}, fmt.Errorf("aggregate: %w", errs.ErrNilPlate)
	}
	if err := p.Validate(); err != nil {
		return Aggregates{}, err
	}

	var blank, control accumulator
	standards := make([]accumulator, len(p.StandardGroups))
	unknowns := make([]accumulator, len(p.UnknownGroups))

	for i, s := range p.Samples {
		if s.Role == format.RoleUnused {
			continue
		}
		if s.Value == nil {
			return Aggregates{}, fmt.Errorf("%w: well %s", errs.ErrUnassignedValue, p.WellName(i))
		}
		v := *s.Value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Aggregates{}, fmt.Errorf("%w: well %s has %v", errs.ErrInvalidValue, p.WellName(i), v)
		}

		switch s.Role {
		case format.RoleBlank:
			blank.add(v)
		case format.RoleControl:
			control.add(v)
		case format.RoleStandard:
			if s.Group < 0 || s.Group >= len(standards) {
				return Aggregates{}, fmt.Errorf("%w: well %s references standard group %d of %d",
					errs.ErrGroupOutOfRange, p.WellName(i), s.Group, len(standards))
			}
			standards[s.Group].add(v)
		case format.RoleUnknown:
			if s.Group < 0 || s.Group >= len(unknowns) {
				return Aggregates{}, fmt.Errorf("%w: well %s references unknown group %d of %d",
					errs.ErrGroupOutOfRange, p.WellName(i), s.Group, len(unknowns))
			}
			unknowns[s.Group].add(v)
		}
	}

	for g, acc := range standards {
		if acc.count() == 0 {
			continue
		}
		c := p.StandardGroups[g].Concentration
		if c == nil {
			return Aggregates{}, fmt.Errorf("%w: standard group %d", errs.ErrUnassignedConcentration, g+1)
		}
		if math.IsNaN(*c) || math.IsInf(*c, 0) || *c <= 0 {
			return Aggregates{}, fmt.Errorf("%w: standard group %d has %v", errs.ErrInvalidConcentration, g+1, *c)
		}
	}

	agg := Aggregates{Blank: blank.mean(), Control: control.mean()}
	if blank.count() > 0 {
		agg.Replicates = append(agg.Replicates, blank.replicates(format.RoleBlank, 0))
	}
	if control.count() > 0 {
		agg.Replicates = append(agg.Replicates, control.replicates(format.RoleControl, 0))
	}

	for g, acc := range standards {
		if acc.count() == 0 {
			continue
		}
		agg.Standards = append(agg.Standards, Point{Dose: *p.StandardGroups[g].Concentration, Measurement: acc.mean()})
		agg.Replicates = append(agg.Replicates, acc.replicates(format.RoleStandard, g))
	}
	for g, acc := range unknowns {
		if acc.count() == 0 {
			continue
		}
		agg.Unknowns = append(agg.Unknowns, Unknown{Measurement: acc.mean(), Label: p.UnknownGroups[g].Label, Group: g})
		agg.Replicates = append(agg.Replicates, acc.replicates(format.RoleUnknown, g))
	}

	if len(agg.Standards) < MinStandards {
		return Aggregates{}, fmt.Errorf("%w: got %d, need %d", errs.ErrNotEnoughStandards, len(agg.Standards), MinStandards)
	}

	sort.SliceStable(agg.Standards, func(i, j int) bool {
		return agg.Standards[i].Dose < agg.Standards[j].Dose
	})

	lowest := agg.MinStandard()
	if agg.Control > lowest {
		return Aggregates{}, fmt.Errorf("%w: control %v, lowest standard %v", errs.ErrControlTooBig, agg.Control, lowest)
	}
	if agg.Blank > lowest {
		return Aggregates{}, fmt.Errorf("%w: blank %v, lowest standard %v", errs.ErrBlankTooBig, agg.Blank, lowest)
	}

	return agg, nil
}
