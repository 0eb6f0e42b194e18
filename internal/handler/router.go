package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	callHandler "github.com/frontdesk-ai/frontdesk/backend/internal/handler/call"
	streamHandler "github.com/frontdesk-ai/frontdesk/backend/internal/handler/stream"
	wsHandler "github.com/frontdesk-ai/frontdesk/backend/internal/handler/ws"
	middlewarePkg "github.com/frontdesk-ai/frontdesk/backend/internal/middleware"
	"github.com/frontdesk-ai/frontdesk/backend/internal/model/operator"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/convo"
	"github.com/frontdesk-ai/frontdesk/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. streamer may be nil
// when no completion model is configured; the SSE endpoint then serves
// fallback replies like every other turn path.
func NewRouter(operators operator.Store, engine *convo.Engine, streamer streamHandler.Streamer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	calls := callHandler.New(operators, engine)
	streams := streamHandler.New(streamer, engine)
	sockets := wsHandler.New(engine)

	r.Route("/api/v1", func(api chi.Router) {
		calls.RegisterRoutes(api)
		sockets.RegisterRoutes(api)

		api.Get("/public/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streams.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
				if errors.Is(err, convo.ErrSessionNotFound) {
					utils.RespondError(w, http.StatusNotFound, "session not found")
					return
				}
				utils.RespondError(w, http.StatusInternalServerError, "streaming failed")
			}
		})
	})

	r.Get("/health", handleHealth)
	r.Get("/", handleIndex)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"service": "Frontdesk AI Receptionist API",
		"status":  "running",
	})
}
