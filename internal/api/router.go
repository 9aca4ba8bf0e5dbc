package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/thingmesh/telemetry-go/internal/auth"
	"github.com/thingmesh/telemetry-go/internal/broker"
	"github.com/thingmesh/telemetry-go/internal/config"
	"github.com/thingmesh/telemetry-go/internal/store"
)

// NewRouter creates the command/query HTTP router.
//
// Read endpoints are public; every mutating endpoint and the actuator
// command pass through the token verifier before touching the store or
// the transport.
func NewRouter(repo store.Repo, pub broker.Publisher, verifier *auth.Verifier, cfg config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(requestLogger(logger))

	h := &handlers{
		repo:          repo,
		pub:           pub,
		verifier:      verifier,
		actuatorTopic: cfg.ActuatorTopic,
		maxBody:       cfg.MaxBodyBytes,
	}

	r.Get("/healthz", h.GetHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/sensors", h.ListSensors)
	r.Get("/sensors/*", h.ListSensorsByTopic)

	r.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Post("/sensors", h.PostSensor)
		r.Put("/sensors/{id}", h.PutSensor)
		r.Delete("/sensors/{id}", h.DeleteSensor)
		r.Post("/led", h.PostLED)
	})

	// Thing Description documents are plain static files.
	if cfg.TDDir != "" {
		fs := http.StripPrefix("/td/", http.FileServer(http.Dir(cfg.TDDir)))
		r.Get("/td/*", fs.ServeHTTP)
	}

	return r
}

type handlers struct {
	repo          store.Repo
	pub           broker.Publisher
	verifier      *auth.Verifier
	actuatorTopic string
	maxBody       int64
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
