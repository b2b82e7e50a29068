package plate

import (
	"fmt"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/format"
)

// Layout helpers used by importers, tests and the demo program. They never
// grow group lists implicitly beyond the index they are asked to write.

// SetStandard marks the well at column x, row y as a standard of group g with
// the given value, creating group entries up to g when needed.
func (p *Microplate) SetStandard(x, y, g int, value float64) error {
	if g < 0 {
		return fmt.Errorf("%w: standard group %d", errs.ErrGroupOutOfRange, g)
	}
	p.StandardGroups = growGroups(p.StandardGroups, g)

	return p.SetWell(x, y, Sample{Role: format.RoleStandard, Group: g, Value: Float(value)})
}

// SetUnknown marks the well at column x, row y as an unknown of group g.
func (p *Microplate) SetUnknown(x, y, g int, value float64) error {
	if g < 0 {
		return fmt.Errorf("%w: unknown group %d", errs.ErrGroupOutOfRange, g)
	}
	p.UnknownGroups = growGroups(p.UnknownGroups, g)

	return p.SetWell(x, y, Sample{Role: format.RoleUnknown, Group: g, Value: Float(value)})
}

// SetBlank marks the well at column x, row y as a blank.
func (p *Microplate) SetBlank(x, y int, value float64) error {
	return p.SetWell(x, y, Sample{Role: format.RoleBlank, Value: Float(value)})
}

// SetControl marks the well at column x, row y as a control.
func (p *Microplate) SetControl(x, y int, value float64) error {
	return p.SetWell(x, y, Sample{Role: format.RoleControl, Value: Float(value)})
}

// SetConcentration assigns the known concentration of standard group g.
func (p *Microplate) SetConcentration(g int, concentration float64) error {
	if g < 0 || g >= len(p.StandardGroups) {
		return fmt.Errorf("%w: standard group %d of %d", errs.ErrGroupOutOfRange, g, len(p.StandardGroups))
	}
	p.StandardGroups[g].Concentration = Float(concentration)

	return nil
}

// SetUnknownLabel assigns the label of unknown group g.
func (p *Microplate) SetUnknownLabel(g int, label string) error {
	if g < 0 || g >= len(p.UnknownGroups) {
		return fmt.Errorf("%w: unknown group %d of %d", errs.ErrGroupOutOfRange, g, len(p.UnknownGroups))
	}
	p.UnknownGroups[g].Label = label

	return nil
}

func growGroups(groups []Group, g int) []Group {
	for len(groups) <= g {
		groups = append(groups, Group{})
	}

	return groups
}
