/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (zap)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the calendar frontend

ROUTE GROUPS:
  /api/calendar/*   Month, mode, commands, view
  /api/ledger/*     Marked days
  /api/totals       Totals
  /api/payments     Payment days
  /api/selection    Multi-selection
  /api/range/*      Range selection
  /api/clear        Clear everything
  /api/scenarios/*  Scenarios
  /                 Endpoint index

SECURITY NOTE:
  No authentication middleware. Run behind a trusted proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/daybook/serve.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(opts.Logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", h.GetInfo)
			r.Get("/view", h.GetView)
			r.Post("/commands", h.PostCommand)
			r.Put("/month", h.PutMonth)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", h.GetLedger)
			r.Get("/{date}", h.GetDay)
			r.Put("/{date}", h.PutDay)
			r.Delete("/{date}", h.DeleteDay)
		})

		r.Get("/totals", h.GetTotals)

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.AddPayments)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", h.GetSelection)
			r.Put("/", h.PutSelection)
		})

		r.Route("/range", func(r chi.Router) {
			r.Get("/", h.GetRange)
			r.Put("/", h.PutRange)
			r.Get("/dates", h.GetRangeDates)
		})

		r.Post("/clear", h.PostClear)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(indexPage))
	})

	return r
}

// requestLogger logs one line per request with zap.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Daybook</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Daybook API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/calendar">/api/calendar</a> - Calendar summary</li>
<li><a href="/api/calendar/view">/api/calendar/view</a> - Month view</li>
<li><a href="/api/ledger">/api/ledger</a> - Marked days</li>
<li><a href="/api/totals">/api/totals</a> - Totals</li>
<li><a href="/api/payments">/api/payments</a> - Payments</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Scenarios</li>
</ul>
</body>
</html>`
