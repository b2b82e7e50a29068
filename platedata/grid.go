// Package platedata imports and exports plate measurements.
//
// Measurements travel as row-major grids ([][]*float64, grid[row][column])
// where nil marks a well without a value. Grids come from pasted text or from
// reader export spreadsheets and are written into a plate with
// plate.Microplate.AssignValues.
package platedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/elisa/errs"
)

// Missing is the text token for a well without a value.
const Missing = "_"

// ParseGrid parses whitespace separated values, one plate row per line.
//
// "_" marks a missing value and a decimal comma is accepted in place of a
// decimal point, so values pasted from a German locale spreadsheet work as is.
// Blank lines count as empty rows.
//
// Parameters:
//   - text: Pasted values
//   - width: Maximum number of values per line
//   - height: Maximum number of lines
//
// Returns:
//   - [][]*float64: Row-major grid
//   - error: ErrGridTooWide, ErrGridTooTall or a wrapped strconv error
func ParseGrid(text string, width, height int) ([][]*float64, error) {
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
	if text == "" {
		lines = nil
	}

	grid := make([][]*float64, 0, len(lines))
	for y, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > width {
			return nil, fmt.Errorf("%w: line %d has %d values, plate has %d columns", errs.ErrGridTooWide, y+1, len(fields), width)
		}

		row := make([]*float64, len(fields))
		for x, field := range fields {
			if field == Missing {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(field, ",", "."), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, value %d: %w", y+1, x+1, err)
			}
			row[x] = &v
		}
		grid = append(grid, row)
	}

	if len(grid) > height {
		return nil, fmt.Errorf("%w: %d lines, plate has %d rows", errs.ErrGridTooTall, len(grid), height)
	}

	return grid, nil
}

// FormatGrid renders a grid in the format ParseGrid reads. Every value is
// followed by a space and every row by a newline.
func FormatGrid(grid [][]*float64) string {
	var b strings.Builder
	for _, row := range grid {
		for _, v := range row {
			if v == nil {
				b.WriteString(Missing)
			} else {
				b.WriteString(strconv.FormatFloat(*v, 'g', -1, 64))
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	return b.String()
}
