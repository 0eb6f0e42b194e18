package call

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/frontdesk-ai/frontdesk/backend/internal/model/operator"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/convo"
	"github.com/frontdesk-ai/frontdesk/backend/pkg/utils"
)

// Handler exposes the public caller-facing conversation endpoints.
type Handler struct {
	operators operator.Store
	engine    *convo.Engine
}

// New creates the call handler.
func New(operators operator.Store, engine *convo.Engine) *Handler {
	return &Handler{
		operators: operators,
		engine:    engine,
	}
}

// RegisterRoutes mounts the public conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/public/target", h.handleTarget)
	r.Post("/public/start", h.handleStart)
	r.Post("/public/message", h.handleMessage)
	r.Post("/public/end", h.handleEnd)
}

// handleTarget resolves a shareable-link slug to operator display info.
func (h *Handler) handleTarget(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		utils.RespondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	op, ok := h.operators.FindBySlug(r.Context(), slug)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "invalid link")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"operator": map[string]string{
			"id":      op.ID,
			"name":    op.Name,
			"company": op.Company,
		},
	})
}

// handleStart opens a new conversation session behind a link slug.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Slug       string         `json:"slug"`
		CallerInfo map[string]any `json:"callerInfo"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		utils.RespondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	op, ok := h.operators.FindBySlug(r.Context(), slug)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "invalid link")
		return
	}

	session, greeting, err := h.engine.StartSession(r.Context(), op, payload.CallerInfo)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"sessionId": session.ID,
		"greeting":  greeting,
		"startedAt": session.StartedAt,
	})
}

// handleMessage runs one conversation turn. Completion failures never
// reach this layer as errors; the engine always hands back a reply.
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := strings.TrimSpace(payload.SessionID)
	message := strings.TrimSpace(payload.Message)
	if sessionID == "" || message == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId and message are required")
		return
	}

	reply, err := h.engine.HandleMessage(r.Context(), sessionID, message)
	if err != nil {
		if errors.Is(err, convo.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to handle message")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// handleEnd closes the session and reports its duration. Ending a
// session the sweeper already removed is a normal race and reports 404.
func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := strings.TrimSpace(payload.SessionID)
	if sessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	record, err := h.engine.EndSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, convo.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to end session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"durationSeconds": record.DurationSeconds,
	})
}
