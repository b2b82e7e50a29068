package server

import (
	"math"
	"strconv"

	"github.com/arloliu/elisa/regression"
)

// number is a float64 that encodes NaN and ±Inf as JSON null.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type paramsResponse struct {
	A number `json:"a"`
	B number `json:"b"`
	C number `json:"c"`
	D number `json:"d"`
}

type statisticsResponse struct {
	SSE      number `json:"sse"`
	MSE      number `json:"mse"`
	RMSE     number `json:"rmse"`
	SyX      number `json:"syx"`
	RSquared number `json:"r_squared"`
}

type standardResponse struct {
	Concentration number `json:"concentration"`
	Measurement   number `json:"measurement"`
	Backfit       number `json:"backfit"`
	Recovery      number `json:"recovery"`
}

type unknownResponse struct {
	Name        string `json:"name"`
	Group       int    `json:"group"`
	Measurement number `json:"measurement"`
	Backfit     number `json:"backfit"`
}

type replicateResponse struct {
	Role  string `json:"role"`
	Group *int   `json:"group,omitempty"`
	Count int    `json:"count"`
	Mean  number `json:"mean"`
	SD    number `json:"sd"`
	CV    number `json:"cv"`
}

type fitResponse struct {
	Params      paramsResponse      `json:"params"`
	Formula     string              `json:"formula"`
	Blank       number              `json:"blank"`
	Control     number              `json:"control"`
	Statistics  statisticsResponse  `json:"statistics"`
	Iterations  int                 `json:"iterations"`
	Fingerprint string              `json:"fingerprint"`
	Standards   []standardResponse  `json:"standards"`
	Unknowns    []unknownResponse   `json:"unknowns"`
	Replicates  []replicateResponse `json:"replicates"`
}

// errorResponse is the body of every 4xx and 5xx answer.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newFitResponse(reg *regression.Regression) fitResponse {
	resp := fitResponse{
		Params: paramsResponse{
			A: number(reg.Params.A),
			B: number(reg.Params.B),
			C: number(reg.Params.C),
			D: number(reg.Params.D),
		},
		Formula: reg.Params.Formula(),
		Blank:   number(reg.Blank),
		Control: number(reg.Control),
		Statistics: statisticsResponse{
			SSE:      number(reg.Stats.SSE),
			MSE:      number(reg.Stats.MSE),
			RMSE:     number(reg.Stats.RMSE),
			SyX:      number(reg.Stats.SyX),
			RSquared: number(reg.Stats.RSquared),
		},
		Iterations:  reg.Iterations,
		Fingerprint: strconv.FormatUint(reg.Fingerprint, 16),
		Standards:   make([]standardResponse, 0, len(reg.Standards)),
		Unknowns:    make([]unknownResponse, 0, len(reg.Unknowns)),
		Replicates:  make([]replicateResponse, 0, len(reg.Replicates)),
	}

	for _, s := range reg.Recoveries() {
		resp.Standards = append(resp.Standards, standardResponse{
			Concentration: number(s.Dose),
			Measurement:   number(s.Measurement),
			Backfit:       number(s.Backfit),
			Recovery:      number(s.Recovery),
		})
	}
	for i, u := range reg.Unknowns {
		resp.Unknowns = append(resp.Unknowns, unknownResponse{
			Name:        u.DisplayName(i),
			Group:       u.Group + 1,
			Measurement: number(u.Measurement),
			Backfit:     number(u.Backfit),
		})
	}
	for _, r := range reg.Replicates {
		rr := replicateResponse{
			Role:  r.Role.String(),
			Count: r.Count,
			Mean:  number(r.Mean),
			SD:    number(r.SD),
			CV:    number(r.CV),
		}
		if r.Role.Grouped() {
			group := r.Group + 1
			rr.Group = &group
		}
		resp.Replicates = append(resp.Replicates, rr)
	}

	return resp
}
