package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dukanx/vaani/internal/handler/assistant"
	"github.com/dukanx/vaani/internal/handler/voice"
	middlewarePkg "github.com/dukanx/vaani/internal/middleware"
	"github.com/dukanx/vaani/internal/service/dialogue"
	"github.com/dukanx/vaani/internal/service/query"
	"github.com/dukanx/vaani/internal/service/speech"
	"github.com/dukanx/vaani/pkg/utils"
)

// NewRouter wires HTTP routes to core services. The query engine and both
// speech transducers are optional; routes that need a missing collaborator
// answer with a service-unavailable error instead of being absent.
func NewRouter(manager *dialogue.Manager, queries *query.Engine, transcriber speech.Transcriber, synthesizer speech.Synthesizer, limiter *middlewarePkg.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	if limiter != nil {
		r.Use(limiter.Handler)
	}

	assistantHandler := assistant.New(manager, queries)

	r.Route("/api", func(api chi.Router) {
		assistantHandler.RegisterRoutes(api)

		if transcriber != nil {
			voice.New(manager, transcriber, synthesizer).RegisterRoutes(api)
		} else {
			api.Post("/voice/turn", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "voice pipeline unavailable")
			})
			api.Get("/voice/ws/{userId}", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "voice pipeline unavailable")
			})
		}

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{
				"status":  "healthy",
				"service": "vaani",
			})
		})
	})

	return r
}
