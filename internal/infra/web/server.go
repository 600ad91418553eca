package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tutor-lesson-pipeline/internal/domain/ports/queue"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
)

// Server is the job submission gateway. It validates input, creates the job
// record, enqueues the message and answers polling clients. All processing
// happens in the worker; the gateway never touches a job after enqueueing.
type Server struct {
	jobs     repository.LessonJobRepository
	children repository.ChildRepository // nil disables the ownership check
	queue    queue.JobQueue
	auth     *AuthManager // nil disables bearer auth (dev / memory mode)
	log      *zerolog.Logger
}

func NewServer(
	jobs repository.LessonJobRepository,
	children repository.ChildRepository,
	q queue.JobQueue,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		jobs:     jobs,
		children: children,
		queue:    q,
		auth:     auth,
		log:      logger,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": "healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/lessons", func(r chi.Router) {
		if s.auth != nil {
			r.Use(s.auth.Middleware)
		}
		r.Post("/", s.handleCreateLesson)
		r.Get("/{lessonID}", s.handleGetLesson)
	})

	return r
}
