package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/queue"
	"tutor-lesson-pipeline/internal/infra/metrics"
)

type createLessonRequest struct {
	ChildID  string `json:"child_id"`
	FilePath string `json:"file_path"`
}

type lessonJobResponse struct {
	LessonID string        `json:"lesson_id"`
	Status   string        `json:"status"`
	Lesson   *model.Lesson `json:"lesson,omitempty"`
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		writeError(w, http.StatusBadRequest, "file_path is required (e.g., 'uploads/book.pdf')")
		return
	}

	// Ownership check when both a child repo and an authenticated parent
	// are wired. Children are read-only here.
	if s.children != nil {
		if parentID, ok := ParentFromContext(ctx); ok {
			child, err := s.children.FindByID(ctx, req.ChildID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					writeError(w, http.StatusNotFound, "child not found")
					return
				}
				s.log.Error().Err(err).Msg("child lookup failed")
				writeError(w, http.StatusInternalServerError, "could not create lesson")
				return
			}
			if child.ParentID != parentID {
				writeError(w, http.StatusForbidden, "child does not belong to this account")
				return
			}
		}
	}

	job, err := model.NewLessonJob(req.ChildID, req.FilePath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lesson request")
		return
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.log.Error().Err(err).Msg("create lesson job record failed")
		writeError(w, http.StatusInternalServerError, "could not create lesson")
		return
	}

	msg := queue.JobMessage{JobID: job.ID, FilePath: job.FilePath, ChildID: job.ChildID}
	if err := s.queue.Enqueue(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("enqueue failed")
		writeError(w, http.StatusInternalServerError, "could not queue lesson")
		return
	}

	metrics.IncJobEnqueued()
	s.log.Info().Str("job_id", job.ID).Str("file_path", job.FilePath).Msg("lesson job queued")
	writeJSON(w, http.StatusAccepted, lessonJobResponse{
		LessonID: job.ID,
		Status:   string(job.Status),
	})
}

// handleGetLesson serves polling clients straight from the status store,
// bypassing the worker. Only the coarse status crosses this boundary; the
// stored diagnostic never does.
func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lessonID")

	job, err := s.jobs.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lesson not found")
			return
		}
		s.log.Error().Err(err).Str("job_id", id).Msg("lesson lookup failed")
		writeError(w, http.StatusInternalServerError, "could not load lesson")
		return
	}

	resp := lessonJobResponse{LessonID: job.ID, Status: string(job.Status)}
	if job.Status == model.JobStatusCompleted {
		resp.Lesson = job.Lesson
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
