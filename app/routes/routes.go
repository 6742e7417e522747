package routes

import (
	"net/http"

	"miniblog/app/controllers"
	"miniblog/app/logger"
	"miniblog/app/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PostPrefixes are the path prefixes the post handlers are mounted under.
// Both expose identical behavior.
var PostPrefixes = []string{"/api/posts", "/posts"}

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	Posts  *controllers.PostController
	Home   *controllers.HomeController
	Logger logger.Logger
	// Registry is optional; when set, request metrics are recorded and
	// exposed on GET /metrics.
	Registry *prometheus.Registry
}

// SetupRoutes defines the application's routes and returns the full handler
// chain: request logging, CORS, panic recovery and the router itself.
func SetupRoutes(deps Dependencies) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(controllers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(controllers.MethodNotAllowed)

	if deps.Registry != nil {
		router.Use(middleware.NewMetrics(deps.Registry).Middleware)
		router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
	}

	home := deps.Home
	if home == nil {
		home = controllers.NewHomeController()
	}
	router.HandleFunc("/", home.Index).Methods(http.MethodGet)
	router.HandleFunc("/health", home.Health).Methods(http.MethodGet)

	for _, prefix := range PostPrefixes {
		mountPosts(router.PathPrefix(prefix).Subrouter(), deps.Posts)
	}

	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}

	var handler http.Handler = router
	handler = middleware.Recoverer(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logger(log)(handler)
	return handler
}

// mountPosts registers the post handler set on a prefix subrouter.
func mountPosts(r *mux.Router, pc *controllers.PostController) {
	r.HandleFunc("", pc.Create).Methods(http.MethodPost)
	r.HandleFunc("", pc.Index).Methods(http.MethodGet)
	r.HandleFunc("/{id}", pc.Delete).Methods(http.MethodDelete)
}
