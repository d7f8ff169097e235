package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/theirongolddev/welth/internal/daemon/middleware"
	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/lock"
	"github.com/theirongolddev/welth/internal/logger"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/service"
	"github.com/theirongolddev/welth/internal/store"

	"github.com/shopspring/decimal"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

func (s *Service) registerAPI(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/scenarios", s.handleScenarios)
	mux.HandleFunc("GET /v1/users/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/users/{id}/forecast", s.handleForecast)
	mux.HandleFunc("POST /v1/users/{id}/timemachine", s.handleTimeMachine)
	mux.HandleFunc("GET /v1/users/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("POST /v1/users/{id}/profile", s.handleSaveProfile)
	mux.HandleFunc("POST /v1/users/{id}/twin/ask", s.handleAsk)
	mux.HandleFunc("POST /v1/users/{id}/guardian", s.handleGuardian)
	mux.HandleFunc("GET /v1/users/{id}/summary", s.handleSummary)
}

func (s *Service) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"scenarios": engine.QuickScenarios(),
	})
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	days, ok := queryDays(w, r)
	if !ok {
		return
	}
	rep, err := s.svc.History(r.Context(), r.PathValue("id"), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rep)
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	days, ok := queryDays(w, r)
	if !ok {
		return
	}
	rep, err := s.svc.Forecast(r.Context(), r.PathValue("id"), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rep)
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	days, ok := queryDays(w, r)
	if !ok {
		return
	}
	rep, err := s.svc.Summary(r.Context(), r.PathValue("id"), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rep)
}

func (s *Service) handleTimeMachine(w http.ResponseWriter, r *http.Request) {
	var req service.TimelineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tl, err := s.svc.TimeMachine(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"result": tl})
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rep)
}

func (s *Service) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var answers model.ProfileAnswers
	if !decodeBody(w, r, &answers) {
		return
	}
	p, err := s.svc.SaveProfile(r.Context(), r.PathValue("id"), answers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"profile": p})
}

type askRequest struct {
	Question string          `json:"question"`
	Amount   decimal.Decimal `json:"amount"`
}

func (s *Service) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := s.svc.Ask(r.Context(), r.PathValue("id"), req.Question, req.Amount)
	if errors.Is(err, service.ErrNoProfile) {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":         err.Error(),
			"needs_profile": true,
		})
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"advice": d})
}

func (s *Service) handleGuardian(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Guardian(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.recordResult(res)
	middleware.WriteJSON(w, http.StatusOK, res)
}

func queryDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "days must be an integer")
		return 0, false
	}
	return days, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalid):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, lock.ErrLocked):
		middleware.WriteError(w, http.StatusConflict, "guardian run already in progress")
	case errors.Is(err, service.ErrGuardianDisabled):
		middleware.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
