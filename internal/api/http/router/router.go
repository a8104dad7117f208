package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhendriks/photoregister/internal/api/http/handler"
	"github.com/jhendriks/photoregister/internal/api/http/middleware"
	"github.com/jhendriks/photoregister/internal/logger"
)

// Router wires the photo endpoints, health check and metrics exposition
// behind the shared middleware chain.
type Router struct {
	photoService handler.PhotoService
	logger       *logger.Logger
}

// New creates a new Router instance.
func New(photoService handler.PhotoService, logger *logger.Logger) *Router {
	return &Router{
		photoService: photoService,
		logger:       logger,
	}
}

// Register builds the HTTP handler with all routes and middleware.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)
	photoHandler := handler.NewPhoto(r.photoService, r.logger)

	mux := chi.NewRouter()
	mux.Use(recovery.Handle)
	mux.Use(logging.Handle)

	mux.Post("/v1/photo", photoHandler.HandlePhotoRequest)
	mux.Get("/health", photoHandler.HandleHealth)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return mux
}
