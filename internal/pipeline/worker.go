package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/arthur-theuer/signaleditor/internal/report"
	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/route"
)

// Worker turns a stored route file into a DOCX report.
type Worker struct {
	res     *resolver.Resolver
	builder report.Builder
	log     *slog.Logger
}

func NewWorker(res *resolver.Resolver, builder report.Builder, log *slog.Logger) *Worker {
	return &Worker{res: res, builder: builder, log: log}
}

// Process runs the full export pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file", job.File)

	// Phase 1: Load the source document.
	job.SetStatus(StatusResolving, "resolving")
	doc, err := w.res.Document(ctx, job.File)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "resolving")
		return
	}
	title := job.Title
	if title == "" {
		title = doc.Meta.Title()
	}
	imports := countImports(doc.Entries)

	// Phase 2: Connect adjacent imports.
	stitched := 0
	if job.Stitch && imports > 1 {
		job.SetStatus(StatusStitching, "stitching")
		sr := w.res.AutoStitch(ctx, doc.Entries)
		stitched = len(sr.Stitched)
		for _, p := range sr.Skipped {
			log.Info("pair not stitched", "a", p.A, "b", p.B, "reason", p.Reason)
		}
	}
	job.SetImports(imports, stitched)

	// Phase 3: Flatten and build the rows.
	job.SetStatus(StatusReporting, "reporting")
	entries := w.res.FlattenFrom(ctx, job.File, doc.Entries)
	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "reporting")
		return
	}
	rows := w.builder.BuildRows(entries)
	unresolved := resolver.Unresolved(entries)
	job.SetRows(len(rows), unresolved)
	log.Info("report built", "rows", len(rows), "imports", imports, "unresolved", unresolved)

	// Phase 4: Render.
	job.SetStatus(StatusRendering, "rendering")
	var buf bytes.Buffer
	if err := report.WriteDOCX(&buf, title, rows); err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	job.SetResult(buf.Bytes())

	if unresolved > 0 {
		for _, e := range entries {
			if imp, ok := e.(*route.Import); ok {
				job.AddError(fmt.Sprintf("import %d: %s nicht aufgelöst", imp.ID, imp.Ref.File))
			}
		}
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}

func countImports(entries []route.Entry) int {
	n := 0
	for _, e := range entries {
		if e.Kind() == route.KindImport {
			n++
		}
	}
	return n
}
