package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/aiakos/pkg/utils/logging"
	"github.com/secmon-lab/aiakos/pkg/utils/safe"
)

type Server struct {
	router                 *chi.Mux
	reviewUC               ReviewUseCase
	settingsUC             SettingsUseCase
	telegramWebhookHandler *TelegramWebhookHandler
	telegramWebhookSecret  string
}

type Options func(*Server)

// WithTelegramWebhook registers the webhook endpoint. The secret is the
// X-Telegram-Bot-Api-Secret-Token value set when the webhook was installed;
// empty disables the check.
func WithTelegramWebhook(handler *TelegramWebhookHandler, secret string) Options {
	return func(s *Server) {
		s.telegramWebhookHandler = handler
		s.telegramWebhookSecret = secret
	}
}

func New(reviewUC ReviewUseCase, settingsUC SettingsUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:     r,
		reviewUC:   reviewUC,
		settingsUC: settingsUC,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", ingestReviewHandler(s.reviewUC))
			r.Get("/", listReviewsHandler(s.reviewUC))
			r.Get("/{id}", getReviewHandler(s.reviewUC))
			r.Get("/{id}/actions", listActionsHandler(s.reviewUC))
		})
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", getSettingsHandler(s.settingsUC))
			r.Put("/", putSettingsHandler(s.settingsUC))
		})
	})

	// Telegram webhook endpoint (if configured) - no auth beyond the
	// shared secret token Telegram echoes on every delivery
	if s.telegramWebhookHandler != nil {
		r.Route("/hooks/telegram", func(r chi.Router) {
			r.Use(TelegramSecretMiddleware(s.telegramWebhookSecret))

			r.Post("/webhook", s.telegramWebhookHandler.ServeHTTP)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
