package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/elisa/format"
	"github.com/arloliu/elisa/regression"
)

// fittedRegression is a hand-built result on a known curve, so the tables can
// be checked without running the descent.
func fittedRegression() *regression.Regression {
	params := regression.Params{A: 0.01, B: 1.36, C: 13.88, D: 2.07}
	doses := []float64{1.5625, 3.125, 6.25, 12.5, 25, 50, 100}

	reg := &regression.Regression{Params: params, Blank: 0.05, Control: 0.01}
	for _, x := range doses {
		reg.Standards = append(reg.Standards, regression.Point{Dose: x, Measurement: params.Apply(x)})
	}
	reg.Unknowns = []regression.Unknown{
		{Measurement: 0.85, Backfit: params.Inverse(0.85), Group: 0},
		{Measurement: 3.0, Backfit: params.Inverse(3.0), Label: "saturated", Group: 1},
	}
	reg.Replicates = []regression.ReplicateStats{
		{Role: format.RoleBlank, Count: 2, Mean: 0.05, SD: 0.01, CV: 20},
		{Role: format.RoleStandard, Group: 4, Count: 1, Mean: 0.6, SD: math.NaN(), CV: math.NaN()},
	}
	reg.Stats = regression.ComputeStatistics(params, reg.Standards)

	return reg
}

func TestParameters(t *testing.T) {
	rows := Parameters(fittedRegression())
	require.Len(t, rows, 9)
	require.Equal(t, ParameterRow{Name: "a", Value: 0.01}, rows[0])
	require.Equal(t, "R^2", rows[8].Name)
	require.InDelta(t, 1.0, rows[8].Value, 1e-12)
}

func TestStandards(t *testing.T) {
	rows := Standards(fittedRegression())
	require.Len(t, rows, 7)
	require.Equal(t, "Standard 1", rows[0].Name)
	require.Equal(t, "Standard 7", rows[6].Name)

	for _, r := range rows {
		require.InDelta(t, r.Concentration, r.Backfit, 1e-9*r.Concentration)
		require.InDelta(t, 100, r.Recovery, 1e-7)
	}
}

func TestUnknowns(t *testing.T) {
	rows := Unknowns(fittedRegression())
	require.Len(t, rows, 2)

	require.Equal(t, "Unknown 1", rows[0].Name)
	require.InDelta(t, 0.85, rows[0].RawCorrected, 1e-12)
	require.Greater(t, rows[0].Backfit, 6.25)
	require.Less(t, rows[0].Backfit, 12.5)

	require.Equal(t, "saturated", rows[1].Name)
	require.True(t, math.IsNaN(rows[1].Backfit))
}

func TestReplicates(t *testing.T) {
	rows := Replicates(fittedRegression())
	require.Equal(t, []string{"Blank", "Standard"}, []string{rows[0].Role, rows[1].Role})
	require.Equal(t, 0, rows[0].Group)
	require.Equal(t, 5, rows[1].Group, "groups are numbered from 1")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fittedRegression()))

	sections := strings.Split(strings.TrimSpace(buf.String()), "\n\n")
	require.Len(t, sections, 4)
	require.True(t, strings.HasPrefix(sections[0], "Parameter,Value\n"))
	require.True(t, strings.HasPrefix(sections[1], "Standard,Concentration,Raw Corrected,Backfit,Recovery %\n"))
	require.True(t, strings.HasPrefix(sections[2], "Sample,Raw Corrected,Backfit Concentration\n"))
	require.True(t, strings.HasPrefix(sections[3], "Role,Group,Replicates,Mean,SD,CV %\n"))

	var standards []StandardRow
	require.NoError(t, gocsv.UnmarshalString(sections[1], &standards))
	require.Equal(t, Standards(fittedRegression()), standards)
}

func TestRenderCurve(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCurve(&buf, fittedRegression(), CurveOptions{Width: 640, Height: 400, Title: "IL-6"}))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "output is a PNG")
}

func TestRenderCurve_NoRange(t *testing.T) {
	reg := fittedRegression()
	reg.Standards = reg.Standards[:1]

	var buf bytes.Buffer
	require.ErrorIs(t, RenderCurve(&buf, reg, CurveOptions{}), errNoDoseRange)
}

func TestDoseFormatter(t *testing.T) {
	require.Equal(t, "100", doseFormatter(2.0))
	require.Equal(t, "0.1", doseFormatter(-1.0))
	require.Empty(t, doseFormatter("x"))
}
