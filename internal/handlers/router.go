package handlers

import (
	"net/http"
	"taskManager/internal/middleware"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	RateLimit      int
	CORSOrigins    []string
}

func NewRouter(cfg RouterConfig, tasks *TaskHandler, page *PageHandler, diagnostics *DiagnosticsHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.RateLimit(cfg.RateLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", page.Index)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", tasks.GetTasks)  // GET /api/tasks
		r.Post("/", tasks.PostTask) // POST /api/tasks

		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", tasks.GetTaskByID)       // GET /api/tasks/{id}
			r.Put("/", tasks.UpdateTaskByID)    // PUT /api/tasks/{id}
			r.Delete("/", tasks.DeleteTaskByID) // DELETE /api/tasks/{id}
		})
	})

	r.Get("/health", diagnostics.HealthCheck)

	r.Route("/diagnostics", func(r chi.Router) {
		r.Get("/notifier", diagnostics.NotifierProbe)
		r.Get("/storage", diagnostics.StorageProbe)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responseWithError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responseWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
