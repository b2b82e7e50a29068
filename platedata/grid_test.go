package platedata

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/elisa/errs"
	"github.com/arloliu/elisa/plate"
)

func TestParseGrid(t *testing.T) {
	text := "0.1 0.2 _\n1,5 2e-1\n\n3\n"

	grid, err := ParseGrid(text, 3, 4)
	require.NoError(t, err)
	require.Equal(t, [][]*float64{
		{plate.Float(0.1), plate.Float(0.2), nil},
		{plate.Float(1.5), plate.Float(0.2)},
		{},
		{plate.Float(3)},
	}, grid)
}

func TestParseGrid_Whitespace(t *testing.T) {
	grid, err := ParseGrid("  0.1\t\t0.2  \r\n0.3", 2, 2)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Equal(t, 0.2, *grid[0][1])
	require.Equal(t, 0.3, *grid[1][0])
}

func TestParseGrid_Empty(t *testing.T) {
	grid, err := ParseGrid("", 12, 8)
	require.NoError(t, err)
	require.Empty(t, grid)
}

func TestParseGrid_Errors(t *testing.T) {
	_, err := ParseGrid("1 2 3", 2, 8)
	require.ErrorIs(t, err, errs.ErrGridTooWide)

	_, err = ParseGrid("1\n2\n3", 12, 2)
	require.ErrorIs(t, err, errs.ErrGridTooTall)

	_, err = ParseGrid("1 x 3", 12, 8)
	require.ErrorIs(t, err, strconv.ErrSyntax)
	require.ErrorContains(t, err, "line 1, value 2")
}

func TestFormatGrid(t *testing.T) {
	grid := [][]*float64{
		{plate.Float(0.1), nil, plate.Float(2)},
		{plate.Float(1e-7)},
	}

	text := FormatGrid(grid)
	require.Equal(t, "0.1 _ 2 \n1e-07 \n", text)

	back, err := ParseGrid(text, 3, 2)
	require.NoError(t, err)
	require.Equal(t, grid, back)
}

func TestParseGrid_IntoPlate(t *testing.T) {
	p := plate.NewDefault()
	grid, err := ParseGrid("0.5 0.6\n0.7", p.Width, p.Height)
	require.NoError(t, err)
	require.NoError(t, p.AssignValues(grid))

	well, err := p.Well(1, 0)
	require.NoError(t, err)
	require.Equal(t, 0.6, *well.Value)
	well, err = p.Well(0, 1)
	require.NoError(t, err)
	require.Equal(t, 0.7, *well.Value)
}
