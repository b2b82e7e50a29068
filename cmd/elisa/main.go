// Command elisa fits a 4PL standard curve to a microplate and reports the
// back-calculated unknowns.
//
// Usage:
//
//	elisa -plate assay.elisa [-values grid.txt | -xls run.xls -sheet N]
//	      [-csv out.csv] [-png curve.png] [-save out.elisa] [-compression zstd]
//	elisa -serve :8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/arloliu/elisa"
	"github.com/arloliu/elisa/format"
	"github.com/arloliu/elisa/platefile"
	"github.com/arloliu/elisa/regression"
	"github.com/arloliu/elisa/report"
	"github.com/arloliu/elisa/server"
)

// exitInvalidPlate is the exit status for plates that fail validation.
const exitInvalidPlate = 2

type config struct {
	plate       string
	values      string
	xls         string
	sheet       int
	csv         string
	png         string
	save        string
	compression string
	iterations  int
	tolerance   float64
	serve       string
	logLevel    string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.plate, "plate", "", "Plate file or JSON plate to analyze")
	flag.StringVar(&cfg.values, "values", "", "Optional text grid of measurements to load into the plate")
	flag.StringVar(&cfg.xls, "xls", "", "Optional plate reader .xls export to load into the plate")
	flag.IntVar(&cfg.sheet, "sheet", 0, "Zero-based sheet index of the -xls workbook")
	flag.StringVar(&cfg.csv, "csv", "", "Write the report tables as CSV to this file")
	flag.StringVar(&cfg.png, "png", "", "Write the standard curve as PNG to this file")
	flag.StringVar(&cfg.save, "save", "", "Save the (updated) plate to this file")
	flag.StringVar(&cfg.compression, "compression", "zstd", "Compression of -save: none, zstd, s2 or lz4")
	flag.IntVar(&cfg.iterations, "iterations", regression.DefaultIterations, "Gradient descent iterations")
	flag.Float64Var(&cfg.tolerance, "tolerance", 0, "Stop early once the MSE changes by at most this much (0 disables)")
	flag.StringVar(&cfg.serve, "serve", "", "Serve the HTTP API on this address instead of analyzing a plate")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -log-level %q\n", cfg.logLevel)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		var invalid *invalidPlateError
		if errors.As(err, &invalid) {
			logger.Error("plate cannot be analyzed", "kind", invalid.kind.String(), "error", invalid.err)
			fmt.Fprintln(os.Stderr, invalid.kind.Message())
			stop()
			os.Exit(exitInvalidPlate)
		}
		logger.Error("elisa failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// invalidPlateError marks a fit rejected by plate validation.
type invalidPlateError struct {
	kind regression.ValidationKind
	err  error
}

func (e *invalidPlateError) Error() string { return e.err.Error() }
func (e *invalidPlateError) Unwrap() error { return e.err }

func run(ctx context.Context, cfg config, logger *slog.Logger, stdout io.Writer) error {
	fitOpts := []regression.FitOption{
		regression.WithIterations(cfg.iterations),
		regression.WithTolerance(cfg.tolerance),
	}

	if cfg.serve != "" {
		srv, err := server.New(server.WithLogger(logger), server.WithFitOptions(fitOpts...))
		if err != nil {
			return err
		}

		return srv.Run(ctx, cfg.serve)
	}

	if cfg.plate == "" {
		return errors.New("-plate is required unless -serve is given")
	}
	if cfg.values != "" && cfg.xls != "" {
		return errors.New("-values and -xls are mutually exclusive")
	}

	p, err := elisa.LoadPlate(cfg.plate)
	if err != nil {
		return err
	}
	logger.Debug("plate loaded", "path", cfg.plate, "width", p.Width, "height", p.Height, "name", p.Name)

	switch {
	case cfg.values != "":
		err = elisa.ImportValuesFile(p, cfg.values)
	case cfg.xls != "":
		err = elisa.ImportXLS(p, cfg.xls, cfg.sheet)
	}
	if err != nil {
		return err
	}

	if cfg.save != "" {
		compression, ok := format.ParseCompressionType(cfg.compression)
		if !ok {
			return fmt.Errorf("invalid -compression %q", cfg.compression)
		}
		if err := elisa.SavePlate(cfg.save, p, platefile.WithCompression(compression)); err != nil {
			return err
		}
		logger.Info("plate saved", "path", cfg.save, "compression", compression.String())
	}

	fitOpts = append(fitOpts, regression.WithProgress(func(pr regression.Progress) {
		logger.Debug("descent", "iteration", pr.Iteration, "mse", pr.MSE, "params", pr.Params.String())
	}, 0))

	reg, err := elisa.FitContext(ctx, p, fitOpts...)
	if err != nil {
		if kind := regression.Kind(err); kind != regression.KindOther {
			return &invalidPlateError{kind: kind, err: err}
		}

		return err
	}
	logger.Info("plate fitted", "iterations", reg.Iterations, "r_squared", reg.Stats.RSquared)

	if err := printSummary(stdout, reg); err != nil {
		return err
	}

	if cfg.csv != "" {
		if err := writeFile(cfg.csv, func(w io.Writer) error { return report.WriteCSV(w, reg) }); err != nil {
			return err
		}
		logger.Info("report written", "path", cfg.csv)
	}
	if cfg.png != "" {
		opts := report.CurveOptions{Title: p.Name}
		if err := writeFile(cfg.png, func(w io.Writer) error { return report.RenderCurve(w, reg, opts) }); err != nil {
			return err
		}
		logger.Info("curve written", "path", cfg.png)
	}

	return nil
}

func printSummary(w io.Writer, reg *regression.Regression) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, reg.Params.Formula())
	fmt.Fprintln(tw)
	for _, param := range reg.Parameters() {
		fmt.Fprintf(tw, "%s\t%.6g\n", param.Name, param.Value)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Sample\tRaw Corrected\tBackfit Concentration")
	for _, row := range report.Unknowns(reg) {
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\n", row.Name, row.RawCorrected, row.Backfit)
	}

	return tw.Flush()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
