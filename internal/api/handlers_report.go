package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
)

type reportRequest struct {
	Entries route.Entries `json:"entries"`
	// Resolve flattens imports before the rows are built.
	Resolve bool `json:"resolve"`
}

func (rr *reportRequest) Bind(r *http.Request) error { return nil }

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data := &reportRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}

	seq := []route.Entry(data.Entries)
	if data.Resolve {
		seq = s.resolver.Flatten(r.Context(), seq)
	}
	render.JSON(w, r, map[string]any{
		"rows":       s.builder.BuildRows(seq),
		"unresolved": resolver.Unresolved(seq),
	})
}

type resolveRequest struct {
	File string `json:"file" validate:"required"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (rr *resolveRequest) Bind(r *http.Request) error { return nil }

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	data := &resolveRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}

	res, err := s.resolver.Resolve(r.Context(), route.ImportRef{File: data.File, From: data.From, To: data.To})
	if err != nil {
		switch {
		case errors.Is(err, routestore.ErrNotFound):
			render.Render(w, r, ErrNotFound(err))
		case routestore.IsRetryable(err):
			render.Render(w, r, ErrStore(err))
		default:
			render.Render(w, r, ErrResolve(err))
		}
		return
	}
	render.JSON(w, r, map[string]any{
		"entries": route.Entries(res.Entries),
		"meta":    res.Meta,
	})
}

type stitchRequest struct {
	Entries route.Entries `json:"entries" validate:"required"`
}

func (sr *stitchRequest) Bind(r *http.Request) error { return nil }

func (s *Server) handleStitch(w http.ResponseWriter, r *http.Request) {
	data := &stitchRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}

	rep := s.resolver.AutoStitch(r.Context(), data.Entries)
	if rep.Stitched == nil {
		rep.Stitched = []resolver.Seam{}
	}
	if rep.Skipped == nil {
		rep.Skipped = []resolver.SkippedPair{}
	}
	render.JSON(w, r, map[string]any{
		"entries":  data.Entries,
		"stitched": rep.Stitched,
		"skipped":  rep.Skipped,
	})
}
