package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/elisa"
	"github.com/arloliu/elisa/format"
	"github.com/arloliu/elisa/platefile"
	"github.com/arloliu/elisa/regression"
)

func writePlate(t *testing.T, dir string, control float64) string {
	t.Helper()

	p := elisa.NewDefaultPlate()
	p.Name = "IL-6"
	dose := 100.0
	for g, y := range []float64{2.0, 1.8, 1.5, 1.0, 0.6, 0.3, 0.15, 0.08} {
		require.NoError(t, p.SetStandard(0, g, g, y))
		require.NoError(t, p.SetConcentration(g, dose))
		dose /= 2
	}
	require.NoError(t, p.SetBlank(2, 0, 0.05))
	require.NoError(t, p.SetControl(2, 1, control))
	require.NoError(t, p.SetUnknown(3, 0, 0, 0.5))

	path := filepath.Join(dir, "assay.json")
	require.NoError(t, platefile.SaveJSON(path, p))

	return path
}

func testConfig(plate string) config {
	return config{
		plate:       plate,
		compression: "zstd",
		iterations:  regression.DefaultIterations,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(writePlate(t, dir, 0.06))

	// the pasted first row keeps A1 and A3 and raises the unknown in A4 to 0.9
	cfg.values = filepath.Join(dir, "values.txt")
	require.NoError(t, os.WriteFile(cfg.values, []byte("2.0 _ 0.05 0.9\n"), 0o600))
	cfg.csv = filepath.Join(dir, "report.csv")
	cfg.png = filepath.Join(dir, "curve.png")
	cfg.save = filepath.Join(dir, "assay.elisa")
	cfg.compression = "lz4"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, discardLogger(), &out))

	require.True(t, strings.HasPrefix(out.String(), "y = "))
	require.Contains(t, out.String(), "R^2")
	require.Contains(t, out.String(), "Unknown 1")
	require.Contains(t, out.String(), "10.53")

	csv, err := os.ReadFile(cfg.csv)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(csv), "Parameter,Value\n"))

	png, err := os.ReadFile(cfg.png)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	data, err := os.ReadFile(cfg.save)
	require.NoError(t, err)
	h, err := platefile.ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, h.Compression)

	saved, err := elisa.LoadPlate(cfg.save)
	require.NoError(t, err)
	well, err := saved.Well(3, 0)
	require.NoError(t, err)
	require.Equal(t, 0.9, *well.Value, "the imported values are saved")
}

func TestRun_InvalidPlate(t *testing.T) {
	cfg := testConfig(writePlate(t, t.TempDir(), 0.1))

	err := run(context.Background(), cfg, discardLogger(), io.Discard)
	var invalid *invalidPlateError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, regression.KindControlTooBig, invalid.kind)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	plate := writePlate(t, dir, 0.06)

	tests := []struct {
		name   string
		modify func(*config)
	}{
		{"missing plate flag", func(c *config) { c.plate = "" }},
		{"missing plate file", func(c *config) { c.plate = filepath.Join(dir, "missing.elisa") }},
		{"values and xls", func(c *config) { c.values, c.xls = "a.txt", "b.xls" }},
		{"bad compression", func(c *config) { c.save, c.compression = filepath.Join(dir, "out.elisa"), "gzip" }},
		{"bad iterations", func(c *config) { c.iterations = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(plate)
			tt.modify(&cfg)

			err := run(context.Background(), cfg, discardLogger(), io.Discard)
			require.Error(t, err)
			var invalid *invalidPlateError
			require.False(t, errors.As(err, &invalid))
		})
	}
}
