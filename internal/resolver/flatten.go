package resolver

import (
	"context"
	"slices"

	"github.com/arthur-theuer/signaleditor/internal/route"
)

// Flatten replaces every resolvable import in seq with its entries. An
// import that fails to resolve stays in place unchanged. Imports inside
// imported fragments are followed up to the configured depth; an import
// of a file that is already being expanded is left unresolved.
//
// When an appended node repeats the name of the node right before it, the
// two merge: the earlier node takes the later km if it has none, and the
// later one is dropped. The result shares no entries with seq or the cache.
func (r *Resolver) Flatten(ctx context.Context, seq []route.Entry) []route.Entry {
	return r.flatten(ctx, seq, nil, 0)
}

// FlattenFrom flattens the entries of the stored file name. Imports of
// name itself are treated as a cycle.
func (r *Resolver) FlattenFrom(ctx context.Context, name string, seq []route.Entry) []route.Entry {
	return r.flatten(ctx, seq, []string{name}, 0)
}

// stack lists the files being expanded; depth counts the imports followed
// to reach seq.
func (r *Resolver) flatten(ctx context.Context, seq []route.Entry, stack []string, depth int) []route.Entry {
	out := make([]route.Entry, 0, len(seq))
	for _, e := range seq {
		imp, ok := e.(*route.Import)
		if !ok {
			out = append(out, e.Clone())
			continue
		}

		file := imp.Ref.File
		cycle := slices.Contains(stack, file)
		if depth >= r.maxDepth || cycle {
			r.log.Warn("import not followed", "file", file, "depth", depth, "cycle", cycle)
			r.metrics.unresolvedImport()
			out = append(out, imp.Clone())
			continue
		}

		res, err := r.Resolve(ctx, imp.Ref)
		if err != nil {
			r.log.Debug("import unresolved", "file", file, "error", err)
			r.metrics.unresolvedImport()
			out = append(out, imp.Clone())
			continue
		}

		for _, sub := range r.flatten(ctx, res.Entries, append(slices.Clip(stack), file), depth+1) {
			out = appendMerged(out, sub)
		}
	}
	return out
}

// appendMerged appends e unless it is a node with the same name as the
// last entry of out.
func appendMerged(out []route.Entry, e route.Entry) []route.Entry {
	n, ok := e.(*route.Node)
	if !ok || len(out) == 0 {
		return append(out, e)
	}
	prev, ok := out[len(out)-1].(*route.Node)
	if !ok || prev.Name != n.Name {
		return append(out, e)
	}
	if prev.Km == nil && n.Km != nil {
		prev.Km = route.Km(*n.Km)
	}
	return out
}

// Unresolved counts the imports left in a flattened sequence.
func Unresolved(seq []route.Entry) int {
	n := 0
	for _, e := range seq {
		if e.Kind() == route.KindImport {
			n++
		}
	}
	return n
}
