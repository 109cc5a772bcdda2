package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"folioscope/internal/domain"
	"folioscope/internal/modules/charts"
	"folioscope/internal/modules/optimizer"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps core error kinds to HTTP statuses. Everything the core
// raises reflects malformed input, so most map to 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidConfiguration),
		errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrDimensionMismatch),
		errors.Is(err, domain.ErrEmptyPopulation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"goroutines": runtime.NumGoroutine(),
		"cpus":       runtime.NumCPU(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		payload["memory_used_percent"] = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		payload["cpu_percent"] = percents[0]
	}
	s.respondJSON(w, http.StatusOK, payload)
}

// handleRun executes one optimization synchronously. Only one run may be in
// flight; progress is observable over the events websocket.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	select {
	case s.runInFlight <- struct{}{}:
		defer func() { <-s.runInFlight }()
	default:
		s.respondError(w, http.StatusConflict, fmt.Errorf("an optimization run is already in progress"))
		return
	}

	result, err := s.cfg.Optimizer.Run(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Optimization run failed")
		s.respondError(w, statusFor(err), err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	listings, err := s.cfg.Runs.List(limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if listings == nil {
		listings = []optimizer.RunListing{}
	}
	s.respondJSON(w, http.StatusOK, listings)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadRun(w, r)
	if result == nil || err != nil {
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunCSV(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadRun(w, r)
	if result == nil || err != nil {
		return
	}

	var buf bytes.Buffer
	if err := optimizer.WriteCSV(&buf, result); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.ID+".csv"))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRunChart(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadRun(w, r)
	if result == nil || err != nil {
		return
	}

	img, err := charts.RenderComparison(result)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(img)
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*optimizer.Result, error) {
	id := chi.URLParam(r, "id")
	result, err := s.cfg.Runs.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		s.respondError(w, status, err)
		return nil, err
	}
	return result, nil
}
