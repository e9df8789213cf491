package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/httpx/middlewares"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
	ServiceName    string
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	limiter := middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Envelope{Success: true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Post("/check-account", handler.CheckAccount)
		r.Post("/create-connect-account", handler.CreateConnectAccount)
		r.Post("/create-payment", handler.CreatePayment)
		r.Post("/create-transfers", handler.CreateTransfers)
		r.Post("/create-express-login-link", handler.CreateExpressLoginLink)

		r.Get("/logs", handler.ListLogs)
		r.Post("/logs", handler.AppendLog)
		r.Delete("/logs", handler.ClearLogs)
		r.Get("/logs/count", handler.CountLogs)

		r.Get("/demo-accounts", handler.GetDemoAccounts)
		r.Put("/demo-accounts", handler.PutDemoAccounts)

		r.Get("/orchestrations/{orderId}", handler.GetOrchestration)
	})

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "dashboard-api"
	}
	return otelhttp.NewHandler(r, serviceName)
}
