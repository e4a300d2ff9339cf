package routing

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router wraps chi.Router. It owns the transport concerns (request ids, real
// IP, access log, panic recovery, CORS) and hands every unmatched request to
// the dispatcher mounted with Fallback.
type Router struct {
	mux chi.Router
}

// Options configures the host router.
type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter creates a Router with the default middleware stack.
func NewRouter(opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	return &Router{mux: r}
}

// ── Middleware ───────────────────────────────────────────────────────────────

// AccessLog logs one line per request once the response is written.
func AccessLog(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.String("remoteAddr", r.RemoteAddr),
			)
		})
	}
}

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Handlers ─────────────────────────────────────────────────────────────────

// Handle registers h for pattern under every method, e.g. "/metrics".
func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// Fallback sends every request no other pattern claims to h, including
// unknown methods. The dispatcher decides between a route and a 404.
func (r *Router) Fallback(h http.Handler) {
	r.mux.Handle("/", h)
	r.mux.Handle("/*", h)
	r.mux.NotFound(h.ServeHTTP)
	r.mux.MethodNotAllowed(h.ServeHTTP)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
