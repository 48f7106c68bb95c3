package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

// Seam is a stitched pair of imports sharing Node.
type Seam struct {
	A    int    `json:"a"`
	B    int    `json:"b"`
	Node string `json:"node"`
}

// SkippedPair is an adjacent import pair auto-stitch left untouched.
type SkippedPair struct {
	A      int    `json:"a"`
	B      int    `json:"b"`
	Reason string `json:"reason"`
}

// StitchReport lists what AutoStitch did. Indices point into the input.
type StitchReport struct {
	Stitched []Seam        `json:"stitched"`
	Skipped  []SkippedPair `json:"skipped"`
}

const (
	reasonMissingFile  = textNoFile
	reasonNoSharedNode = textNoSharedNode
)

// AutoStitch connects each pair of consecutive imports in seq at the last
// node of A's document that B's document also contains: A.To and B.From
// are set to it. Both documents are loaded in full, ignoring existing
// slice bounds. Pairs that cannot be stitched keep their bounds and are
// listed in the report. The imports are modified in place; pairs are
// processed in order so each pair sees the previous pair's changes.
func (r *Resolver) AutoStitch(ctx context.Context, seq []route.Entry) StitchReport {
	var idx []int
	for i, e := range seq {
		if _, ok := e.(*route.Import); ok {
			idx = append(idx, i)
		}
	}

	var report StitchReport
	for k := 0; k+1 < len(idx); k++ {
		ia, ib := idx[k], idx[k+1]
		a := seq[ia].(*route.Import)
		b := seq[ib].(*route.Import)

		skip := func(reason string) {
			report.Skipped = append(report.Skipped, SkippedPair{A: ia, B: ib, Reason: reason})
			r.metrics.stitch("skipped")
		}

		if a.Ref.File == "" || b.Ref.File == "" {
			skip(reasonMissingFile)
			continue
		}

		var resA, resB Resolution
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			resA, err = r.Resolve(gctx, route.ImportRef{File: a.Ref.File})
			return err
		})
		g.Go(func() error {
			var err error
			resB, err = r.Resolve(gctx, route.ImportRef{File: b.Ref.File})
			return err
		})
		if err := g.Wait(); err != nil {
			r.log.Debug("stitch pair skipped", "a", a.Ref.File, "b", b.Ref.File, "error", err)
			skip(err.Error())
			continue
		}

		shared := lastSharedNode(route.NodeNames(resA.Entries), route.NodeNames(resB.Entries))
		if shared == "" {
			skip(reasonNoSharedNode)
			continue
		}

		a.Ref.To = shared
		b.Ref.From = shared
		report.Stitched = append(report.Stitched, Seam{A: ia, B: ib, Node: shared})
		r.metrics.stitch("stitched")
	}
	return report
}

// lastSharedNode scans a from the end for the first name also in b.
func lastSharedNode(a, b []string) string {
	inB := make(map[string]struct{}, len(b))
	for _, name := range b {
		inB[name] = struct{}{}
	}
	for i := len(a) - 1; i >= 0; i-- {
		if _, ok := inB[a[i]]; ok {
			return a[i]
		}
	}
	return ""
}
