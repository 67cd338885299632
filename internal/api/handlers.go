package api

import (
	"fmt"
	"net/http"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/sweep"
)

// SweepResponse is the body returned by POST /api/v1/sweep
type SweepResponse struct {
	Series  *sweep.Series `json:"series"`
	Summary sweep.Summary `json:"summary"`

	// Passing range; omitted when no point passes
	FirstPass *float64 `json:"first_pass,omitempty"`
	LastPass  *float64 `json:"last_pass,omitempty"`
}

// FactorsResponse is the body returned by GET /api/v1/factors
type FactorsResponse struct {
	Count   int           `json:"count"`
	Factors []codes.Entry `json:"factors"`
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeCase(w, r)
	if !ok {
		return
	}
	in, err := c.Input()
	if err != nil {
		s.respondWithError(w, statusFor(err), err.Error())
		return
	}

	res, err := s.ev.Evaluate(in)
	if err != nil {
		s.respondWithError(w, statusFor(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	c, ok := s.decodeCase(w, r)
	if !ok {
		return
	}
	opts, ok := c.SweepOptions()
	if !ok {
		s.respondWithError(w, http.StatusUnprocessableEntity, "sweep block is required")
		return
	}
	if limit := s.cfg.Server.MaxSteps; limit > 0 && opts.Steps > limit {
		s.respondWithError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("sweep has %d steps, the limit is %d", opts.Steps, limit))
		return
	}
	opts.Workers = s.cfg.Workers

	in, err := c.Input()
	if err != nil {
		s.respondWithError(w, statusFor(err), err.Error())
		return
	}

	series, err := sweep.Run(r.Context(), s.ev, in, opts)
	if err != nil {
		s.respondWithError(w, statusFor(err), err.Error())
		return
	}
	summary, err := series.Summary()
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := SweepResponse{Series: series, Summary: summary}
	if summary.AnyPass() {
		first, last := summary.FirstPass, summary.LastPass
		resp.FirstPass, resp.LastPass = &first, &last
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) factors(w http.ResponseWriter, r *http.Request) {
	entries := s.table.Entries()

	if q := r.URL.Query().Get("version"); q != "" {
		v, err := codes.ParseVersion(q)
		if err != nil {
			s.respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		filtered := entries[:0]
		for _, e := range entries {
			if e.Version == v {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	respondWithJSON(w, http.StatusOK, FactorsResponse{Count: len(entries), Factors: entries})
}
