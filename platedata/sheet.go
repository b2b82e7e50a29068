package platedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"

	"github.com/arloliu/elisa/errs"
)

// Reader export layout: the plate dimensions (e.g. "A-H") sit in a fixed
// cell and the measurement table starts after two header blocks whose height
// depends on the plate height.
const (
	minSheetRows   = 65
	minSheetCols   = 8
	dimensionRow   = 25
	dimensionCol   = 4
	tableRowOffset = 37
)

// Sheet is a read-only view of a spreadsheet tab.
type Sheet interface {
	// Rows returns the number of rows.
	Rows() int
	// Cols returns the number of cells in row r.
	Cols(r int) int
	// Cell returns the text of the cell at row r, column c, "" when empty.
	Cell(r, c int) string
}

// ParseReaderSheet extracts the measurement table of a plate reader export.
//
// The row count is taken from the largest uppercase letter of the dimension
// cell. That many rows are read starting at row 37 + 2*height; the first
// column holds row labels and is skipped. Cells that are not numbers become
// nil and trailing empty cells are dropped.
//
// Returns:
//   - [][]*float64: Row-major grid
//   - error: ErrSheetTooSmall or ErrNoDimensions
func ParseReaderSheet(s Sheet) ([][]*float64, error) {
	rows, cols := s.Rows(), 0
	for r := 0; r < rows; r++ {
		cols = max(cols, s.Cols(r))
	}
	if rows < minSheetRows || cols < minSheetCols {
		return nil, fmt.Errorf("%w: %dx%d", errs.ErrSheetTooSmall, rows, cols)
	}

	dims := s.Cell(dimensionRow, dimensionCol)
	if dims == "" {
		return nil, errs.ErrNoDimensions
	}
	last := 'A'
	for _, ch := range dims {
		if ch >= 'A' && ch <= 'Z' && ch > last {
			last = ch
		}
	}
	height := int(last-'A') + 1

	start := tableRowOffset + 2*height
	grid := make([][]*float64, 0, height)
	for r := start; r < start+height && r < rows; r++ {
		row := make([]*float64, 0, s.Cols(r))
		for c := 1; c < s.Cols(r); c++ {
			row = append(row, parseCell(s.Cell(r, c)))
		}
		for len(row) > 0 && row[len(row)-1] == nil {
			row = row[:len(row)-1]
		}
		grid = append(grid, row)
	}

	return grid, nil
}

func parseCell(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return nil
	}

	return &v
}

// xlsSheet adapts an extrame/xls worksheet to Sheet.
type xlsSheet struct {
	ws *xls.WorkSheet
}

func (s xlsSheet) Rows() int {
	return int(s.ws.MaxRow) + 1
}

func (s xlsSheet) Cols(r int) int {
	row := s.ws.Row(r)
	if row == nil {
		return 0
	}

	return row.LastCol() + 1
}

func (s xlsSheet) Cell(r, c int) string {
	row := s.ws.Row(r)
	if row == nil || c > row.LastCol() {
		return ""
	}

	return row.Col(c)
}

// SheetNames lists the tabs of a legacy Excel (.xls) workbook.
func SheetNames(path string) ([]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil {
			names = append(names, ws.Name)
		}
	}

	return names, nil
}

// ReadXLS reads the measurement table from tab index sheet of a legacy Excel
// (.xls) plate reader export.
func ReadXLS(path string, sheet int) ([][]*float64, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if sheet < 0 || sheet >= wb.NumSheets() {
		return nil, fmt.Errorf("%w: index %d of %d", errs.ErrSheetNotFound, sheet, wb.NumSheets())
	}
	ws := wb.GetSheet(sheet)
	if ws == nil {
		return nil, fmt.Errorf("%w: index %d", errs.ErrSheetNotFound, sheet)
	}

	return ParseReaderSheet(xlsSheet{ws: ws})
}
