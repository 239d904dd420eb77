package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jogr-app/jogr-backend/internal/application/command"
	"github.com/jogr-app/jogr-backend/internal/application/query"
	"github.com/jogr-app/jogr-backend/internal/domain/achievement"
	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "JogR Backend API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":  "/health",
			"oauth":   "/auth/strava/callback",
			"ranking": "/league/{id}/ranking",
		},
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"uptime": s.Uptime().String(),
	})
}

// handleReady handles the readiness probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// STRAVA OAUTH
// ══════════════════════════════════════════════════════════════════════════════

// handleStravaCallback handles GET /auth/strava/callback.
// On success the browser is redirected into the mobile app via its
// deep-link scheme, carrying the internal user ID.
func (s *Server) handleStravaCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		s.redirectToApp(w, r, url.Values{"error": {errParam}})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_code", "Authorization code is required")
		return
	}

	result, err := s.deps.ConnectStrava.Handle(r.Context(), command.ConnectStravaCommand{
		Code:        code,
		RedirectURI: s.callbackURI(r),
	})
	if err != nil {
		s.logger.Error("strava connect failed", logger.Err(err))
		s.redirectToApp(w, r, url.Values{"error": {"connection_failed"}})
		return
	}

	s.redirectToApp(w, r, url.Values{
		"userID":   {result.UserID},
		"stravaID": {result.StravaID},
	})
}

// callbackURI reconstructs the redirect URI Strava called us back on.
func (s *Server) callbackURI(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.Path)
}

// redirectToApp sends the browser back into the mobile app.
func (s *Server) redirectToApp(w http.ResponseWriter, r *http.Request, params url.Values) {
	target := s.config.MobileScheme + "://strava-connected"
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStravaActivities handles GET /users/{id}/strava/activities.
func (s *Server) handleGetStravaActivities(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetStravaActivities.Handle(r.Context(), query.GetStravaActivitiesQuery{
		UserID:  r.PathValue("id"),
		PerPage: getQueryParamInt(r, "per_page", 0),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetUserActivities handles GET /users/{id}/activities.
func (s *Server) handleGetUserActivities(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetUserActivities.Handle(r.Context(), query.GetUserActivitiesQuery{
		UserID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// saveActivityRequest is the POST /activities/save payload.
type saveActivityRequest struct {
	Activity  activity.Record `json:"activity"`
	LeagueIDs []string        `json:"leagueIDs"`
}

// handleSaveActivity handles POST /activities/save.
func (s *Server) handleSaveActivity(w http.ResponseWriter, r *http.Request) {
	var req saveActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	err := s.deps.SaveActivity.Handle(r.Context(), command.SaveActivityCommand{
		Record:    req.Activity,
		LeagueIDs: req.LeagueIDs,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEAGUE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeagueActivities handles GET /league/{id}/activities.
func (s *Server) handleGetLeagueActivities(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetLeagueActivities.Handle(r.Context(), query.GetLeagueActivitiesQuery{
		LeagueID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetLeagueRanking handles GET /league/{id}/ranking?period=.
func (s *Server) handleGetLeagueRanking(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetLeagueRanking.Handle(r.Context(), query.GetLeagueRankingQuery{
		LeagueID: r.PathValue("id"),
		Period:   r.URL.Query().Get("period"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleInvalidateRanking handles POST /admin/league/{id}/ranking/invalidate.
func (s *Server) handleInvalidateRanking(w http.ResponseWriter, r *http.Request) {
	if s.deps.RankingInvalidator == nil {
		writeJSONError(w, http.StatusNotImplemented, "no_cache", "Ranking cache is not configured")
		return
	}

	leagueID := r.PathValue("id")
	s.deps.RankingInvalidator.Invalidate(r.Context(), leagueID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "leagueID": leagueID})
}

// ══════════════════════════════════════════════════════════════════════════════
// SOCIAL HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// likeRequest is the POST /activities/{id}/like payload.
type likeRequest struct {
	UserID string `json:"userID"`
}

// handleToggleLike handles POST /activities/{id}/like.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	result, err := s.deps.ToggleLike.Handle(r.Context(), command.ToggleLikeCommand{
		ActivityID: r.PathValue("id"),
		UserID:     req.UserID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetComments handles GET /activities/{id}/comments.
func (s *Server) handleGetComments(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetComments.Handle(r.Context(), query.GetCommentsQuery{
		ActivityID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// commentRequest is the POST /activities/{id}/comments payload.
type commentRequest struct {
	UserID string `json:"userID"`
	Text   string `json:"text"`
}

// handleAddComment handles POST /activities/{id}/comments.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}

	comment, err := s.deps.AddComment.Handle(r.Context(), command.AddCommentCommand{
		ActivityID: r.PathValue("id"),
		UserID:     req.UserID,
		Text:       req.Text,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetAchievements handles GET /users/{id}/achievements.
func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	state, err := s.deps.GetAchievements.Handle(r.Context(), query.GetAchievementsQuery{
		UserID: r.PathValue("id"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleSaveAchievements handles POST /users/{id}/achievements.
func (s *Server) handleSaveAchievements(w http.ResponseWriter, r *http.Request) {
	var state achievement.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	state.UserID = r.PathValue("id")

	err := s.deps.SaveAchievements.Handle(r.Context(), command.SaveAchievementsCommand{State: state})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrTokenExpired):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Strava authorization is missing or expired")
	case errors.Is(err, shared.ErrExternalService):
		writeJSONError(w, http.StatusBadGateway, "upstream_error", "Upstream service failed")
	case errors.Is(err, shared.ErrServiceUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", "Service temporarily unavailable")
	default:
		s.logger.Error("unhandled error",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// getQueryParamInt extracts an integer query parameter with a default.
func getQueryParamInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	var result int
	if _, err := fmt.Sscanf(value, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}
