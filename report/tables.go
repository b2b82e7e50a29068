// Package report turns a fitted Regression into the tables and the curve
// image shown to an operator: the parameter list, the standards recovery
// table, the back-calculated unknowns and replicate QC.
//
// Tables are written as CSV with gocsv; the curve is rendered as PNG with
// go-chart.
package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/arloliu/elisa/regression"
)

// ParameterRow is one entry of the parameter list.
type ParameterRow struct {
	Name  string  `csv:"Parameter"`
	Value float64 `csv:"Value"`
}

// StandardRow is one line of the standards recovery table.
type StandardRow struct {
	Name          string  `csv:"Standard"`
	Concentration float64 `csv:"Concentration"`
	RawCorrected  float64 `csv:"Raw Corrected"`
	Backfit       float64 `csv:"Backfit"`
	Recovery      float64 `csv:"Recovery %"`
}

// UnknownRow is one line of the back-calculated unknowns table.
type UnknownRow struct {
	Name         string  `csv:"Sample"`
	RawCorrected float64 `csv:"Raw Corrected"`
	Backfit      float64 `csv:"Backfit Concentration"`
}

// ReplicateRow is one line of the replicate QC table.
type ReplicateRow struct {
	Role  string  `csv:"Role"`
	Group int     `csv:"Group"`
	Count int     `csv:"Replicates"`
	Mean  float64 `csv:"Mean"`
	SD    float64 `csv:"SD"`
	CV    float64 `csv:"CV %"`
}

// Parameters returns a, b, c, d followed by the fit statistics.
func Parameters(reg *regression.Regression) []ParameterRow {
	params := reg.Parameters()
	rows := make([]ParameterRow, len(params))
	for i, p := range params {
		rows[i] = ParameterRow{Name: p.Name, Value: p.Value}
	}

	return rows
}

// Standards returns the recovery table, one row per standard in dose order.
func Standards(reg *regression.Regression) []StandardRow {
	recs := reg.Recoveries()
	rows := make([]StandardRow, len(recs))
	for i, r := range recs {
		rows[i] = StandardRow{
			Name:          fmt.Sprintf("Standard %d", i+1),
			Concentration: r.Dose,
			RawCorrected:  r.Measurement,
			Backfit:       r.Backfit,
			Recovery:      r.Recovery,
		}
	}

	return rows
}

// Unknowns returns the back-calculated unknowns in group order.
func Unknowns(reg *regression.Regression) []UnknownRow {
	rows := make([]UnknownRow, len(reg.Unknowns))
	for i, u := range reg.Unknowns {
		rows[i] = UnknownRow{Name: u.DisplayName(i), RawCorrected: u.Measurement, Backfit: u.Backfit}
	}

	return rows
}

// Replicates returns replicate statistics of every group with data. Group
// numbers are 1-based; blank and control report group 0.
func Replicates(reg *regression.Regression) []ReplicateRow {
	rows := make([]ReplicateRow, len(reg.Replicates))
	for i, r := range reg.Replicates {
		group := 0
		if r.Role.Grouped() {
			group = r.Group + 1
		}
		rows[i] = ReplicateRow{Role: r.Role.String(), Group: group, Count: r.Count, Mean: r.Mean, SD: r.SD, CV: r.CV}
	}

	return rows
}

// WriteCSV writes the parameter, standards, unknowns and replicate tables to
// w, separated by blank lines.
func WriteCSV(w io.Writer, reg *regression.Regression) error {
	tables := []any{Parameters(reg), Standards(reg), Unknowns(reg), Replicates(reg)}
	for i, table := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := gocsv.Marshal(table, w); err != nil {
			return fmt.Errorf("write report table %d: %w", i+1, err)
		}
	}

	return nil
}
