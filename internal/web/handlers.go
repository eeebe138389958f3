package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/padasch/french-nfi-dashboard/internal/catalog"
	"github.com/padasch/french-nfi-dashboard/internal/model"
)

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	out := make(map[model.GroupKind][]string, len(model.GroupKinds))
	for _, kind := range model.GroupKinds {
		out[kind] = s.Lists.Values(kind)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleResolve resolves a fully specified selection. Unlike the page form
// it never substitutes defaults: every parameter must be present and valid.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := parseSelection(q.Get("kind"), q.Get("group"), q.Get("metric"), q.Get("map"))
	if err != nil {
		s.Metrics.ObserveInvalid()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.Resolver.Resolve(sel)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSelection) {
			s.Metrics.ObserveInvalid()
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.Metrics.ObserveResolution(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	cov, err := catalog.Build(s.Resolver, s.Lists)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cov)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.checkReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) checkReadiness(ctx context.Context) error {
	if s.Lists == nil {
		return errors.New("group lists not loaded")
	}
	if s.Store != nil {
		if err := s.Store.Ping(ctx); err != nil {
			return fmt.Errorf("dataset store: %w", err)
		}
	}
	return nil
}

func parseSelection(kind, group, metric, mapKind string) (model.Selection, error) {
	k, err := model.ParseGroupKind(kind)
	if err != nil {
		return model.Selection{}, err
	}
	m, err := model.ParseMetric(metric)
	if err != nil {
		return model.Selection{}, err
	}
	mk, err := model.ParseMapKind(mapKind)
	if err != nil {
		return model.Selection{}, err
	}
	sel := model.Selection{GroupKind: k, GroupValue: group, Metric: m, MapKind: mk}
	return sel, sel.Validate()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
