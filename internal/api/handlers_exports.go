package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/arthur-theuer/signaleditor/internal/pipeline"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type exportRequest struct {
	File   string `json:"file" validate:"required"`
	Title  string `json:"title" validate:"max=200"`
	Stitch bool   `json:"stitch"`
}

func (e *exportRequest) Bind(r *http.Request) error {
	if e.File != "" && !routestore.ValidName(e.File) {
		return fmt.Errorf("%w: %q", routestore.ErrInvalidName, e.File)
	}
	return nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data := &exportRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}

	job := pipeline.NewJob(data.File, data.Title, data.Stitch)
	if err := s.orchestrator.Submit(job); err != nil {
		s.metrics.exportSubmitted("rejected")
		render.Render(w, r, ErrUnavailable(err))
		return
	}
	s.metrics.exportSubmitted("queued")

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/exports/%s/status", job.ID),
	})
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		render.Render(w, r, ErrNotFound(errors.New("job not found")))
		return
	}
	render.JSON(w, r, job.Snapshot())
}

// handleExportDownload serves the rendered report once the job is done.
// Partial reports, with unresolved imports, are served too.
func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		render.Render(w, r, ErrNotFound(errors.New("job not found")))
		return
	}
	snap := job.Snapshot()
	data := job.Result()
	if data == nil || !snap.Status.Done() {
		render.Render(w, r, ErrConflict(fmt.Errorf("job is %s", snap.Status)))
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(snap.File)))
	w.Header().Set("ETag", `"`+snap.ContentHash+`"`)
	w.Write(data)
}

// downloadName swaps the extension of a route file for .docx.
func downloadName(file string) string {
	base := file
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base + ".docx"
}
