package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/arloliu/elisa/internal/pool"
	"github.com/arloliu/elisa/plate"
	"github.com/arloliu/elisa/platefile"
	"github.com/arloliu/elisa/regression"
	"github.com/arloliu/elisa/report"
)

// Error kinds reported for failures that are not plate validation failures.
const (
	kindBadRequest  = "bad_request"
	kindTooLarge    = "too_large"
	kindUnavailable = "unavailable"
	kindInternal    = "internal"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) fit(w http.ResponseWriter, r *http.Request) {
	reg, ok := s.fitRequest(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, r, http.StatusOK, newFitResponse(reg))
}

func (s *Server) curve(w http.ResponseWriter, r *http.Request) {
	opts := report.CurveOptions{Title: r.URL.Query().Get("title")}
	var err error
	if opts.Width, err = queryInt(r, "width", 0); err != nil {
		s.badRequest(w, r, err)
		return
	}
	if opts.Height, err = queryInt(r, "height", 0); err != nil {
		s.badRequest(w, r, err)
		return
	}

	reg, ok := s.fitRequest(w, r)
	if !ok {
		return
	}

	buf := pool.GetResponseBuffer()
	defer pool.PutResponseBuffer(buf)
	if err := report.RenderCurve(buf, reg, opts); err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, errorResponse{
			Kind:    regression.KindOther.String(),
			Message: "The standard curve could not be drawn.",
			Error:   err.Error(),
		})

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (s *Server) reportCSV(w http.ResponseWriter, r *http.Request) {
	reg, ok := s.fitRequest(w, r)
	if !ok {
		return
	}

	buf := pool.GetResponseBuffer()
	defer pool.PutResponseBuffer(buf)
	if err := report.WriteCSV(buf, reg); err != nil {
		s.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
	_, _ = buf.WriteTo(w)
}

// fitRequest decodes the plate in the request body and fits it. On failure
// it writes the error response and returns false.
func (s *Server) fitRequest(w http.ResponseWriter, r *http.Request) (*regression.Regression, bool) {
	fitOpts, err := s.fitOptions(r)
	if err != nil {
		s.badRequest(w, r, err)
		return nil, false
	}

	p, err := s.readPlate(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, errorResponse{
				Kind:    kindTooLarge,
				Message: fmt.Sprintf("The plate exceeds %d bytes.", tooLarge.Limit),
				Error:   err.Error(),
			})

			return nil, false
		}
		s.badRequest(w, r, err)

		return nil, false
	}

	reg, err := regression.FitContext(r.Context(), p, fitOpts...)
	if err == nil {
		s.cfg.Logger.DebugContext(r.Context(), "plate fitted",
			"fingerprint", strconv.FormatUint(reg.Fingerprint, 16),
			"iterations", reg.Iterations,
			"r_squared", reg.Stats.RSquared,
		)

		return reg, true
	}

	switch kind := regression.Kind(err); {
	case kind != regression.KindOther:
		s.writeError(w, r, http.StatusUnprocessableEntity, errorResponse{
			Kind:    kind.String(),
			Message: kind.Message(),
			Error:   err.Error(),
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, r, http.StatusServiceUnavailable, errorResponse{
			Kind:    kindUnavailable,
			Message: "The fit was cancelled.",
			Error:   err.Error(),
		})
	default:
		s.internalError(w, r, err)
	}

	return nil, false
}

func (s *Server) readPlate(w http.ResponseWriter, r *http.Request) (*plate.Microplate, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	return platefile.Decode(data)
}

// fitOptions returns the server's fit options followed by the per-request
// overrides from the iterations and tolerance query parameters.
func (s *Server) fitOptions(r *http.Request) ([]regression.FitOption, error) {
	opts := append([]regression.FitOption(nil), s.cfg.FitOptions...)

	q := r.URL.Query()
	if v := q.Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > MaxIterations {
			return nil, fmt.Errorf("iterations must be an integer in [1, %d], got %q", MaxIterations, v)
		}
		opts = append(opts, regression.WithIterations(n))
	}
	if v := q.Get("tolerance"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || !(tol >= 0) {
			return nil, fmt.Errorf("tolerance must be a non-negative number, got %q", v)
		}
		opts = append(opts, regression.WithTolerance(tol))
	}

	return opts, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, v)
	}

	return n, nil
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, http.StatusBadRequest, errorResponse{
		Kind:    kindBadRequest,
		Message: "The request could not be read.",
		Error:   err.Error(),
	})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.cfg.Logger.ErrorContext(r.Context(), "fit failed", "error", err)
	s.writeError(w, r, http.StatusInternalServerError, errorResponse{
		Kind:    kindInternal,
		Message: regression.KindOther.Message(),
		Error:   err.Error(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, body errorResponse) {
	s.cfg.Logger.WarnContext(r.Context(), "request rejected", "status", status, "kind", body.Kind, "error", body.Error)
	s.writeJSON(w, r, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	buf := pool.GetResponseBuffer()
	defer pool.PutResponseBuffer(buf)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		s.cfg.Logger.ErrorContext(r.Context(), "encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
