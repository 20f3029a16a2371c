// Package api exposes the read-only dashboard API: stored opportunities,
// performance stats and a live WebSocket stream of accepted picks.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/models"
	"github.com/Xavi146570/football-value-detector/internal/repository"
)

const defaultUpcomingLimit = 50

// Handler contains dependencies for HTTP handlers
type Handler struct {
	repos  *repository.Repositories
	logger logrus.FieldLogger
}

// NewHandler creates a new handler
func NewHandler(repos *repository.Repositories, logger logrus.FieldLogger) *Handler {
	return &Handler{repos: repos, logger: logger}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "football-value-detector",
	})
}

// TodayOpportunities returns opportunities for fixtures kicking off today.
// Pass ?accepted=true to restrict to accepted picks.
func (h *Handler) TodayOpportunities(w http.ResponseWriter, r *http.Request) {
	acceptedOnly := r.URL.Query().Get("accepted") == "true"

	opps, err := h.repos.Opportunity.GetToday(r.Context(), acceptedOnly)
	if err != nil {
		h.logger.WithError(err).Error("Today opportunities query failed")
		respondError(w, http.StatusInternalServerError, "query failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":         len(opps),
		"opportunities": opps,
	})
}

// UpcomingOpportunities returns accepted picks with a future kickoff.
func (h *Handler) UpcomingOpportunities(w http.ResponseWriter, r *http.Request) {
	limit := defaultUpcomingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	opps, err := h.repos.Opportunity.GetUpcoming(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Upcoming opportunities query failed")
		respondError(w, http.StatusInternalServerError, "query failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":         len(opps),
		"opportunities": opps,
	})
}

// OpportunityByFixture returns the stored analysis for one fixture.
func (h *Handler) OpportunityByFixture(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := strconv.ParseInt(chi.URLParam(r, "fixtureID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid fixture id")
		return
	}

	opp, err := h.repos.Opportunity.GetByFixtureID(r.Context(), fixtureID)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, http.StatusNotFound, "fixture not analyzed")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Opportunity lookup failed")
		respondError(w, http.StatusInternalServerError, "query failed")
		return
	}

	respondJSON(w, http.StatusOK, opp)
}

// PerformanceStats returns aggregated results over a trailing window.
// Pass ?days=N to change the window (default 30).
func (h *Handler) PerformanceStats(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	stats, err := h.repos.Result.GetPerformance(r.Context(), days)
	if err != nil {
		h.logger.WithError(err).Error("Performance query failed")
		respondError(w, http.StatusInternalServerError, "query failed")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
