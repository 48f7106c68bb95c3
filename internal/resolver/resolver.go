// Package resolver loads imported route fragments, slices them by node
// names and stitches them into one flat entry sequence.
package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arthur-theuer/signaleditor/internal/parser"
	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
)

const (
	DefaultCacheSize = 256
	DefaultMaxDepth  = 8
)

// Options tune a Resolver. Zero values pick the defaults.
type Options struct {
	CacheSize int
	MaxDepth  int
	Logger    *slog.Logger
	Metrics   *Metrics
}

// Resolution is a resolved import: the selected entries and the metadata
// of the document they came from.
type Resolution struct {
	Entries []route.Entry
	Meta    route.Meta
}

// Resolver resolves imports against a store. Parsed documents are kept in
// an LRU cache keyed by file name; callers only ever receive clones.
// A Resolver is safe for concurrent use.
type Resolver struct {
	store    routestore.Store
	cache    *lru.Cache[string, *route.Document]
	maxDepth int
	log      *slog.Logger
	metrics  *Metrics
}

func New(store routestore.Store, opts Options) (*Resolver, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cache, err := lru.New[string, *route.Document](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Resolver{
		store:    store,
		cache:    cache,
		maxDepth: opts.MaxDepth,
		log:      opts.Logger.With("component", "resolver"),
		metrics:  opts.Metrics,
	}, nil
}

// Resolve loads ref.File and slices it from the node ref.From to the node
// ref.To, both inclusive. To is searched after From only.
func (r *Resolver) Resolve(ctx context.Context, ref route.ImportRef) (Resolution, error) {
	if ref.File == "" {
		r.metrics.failure("no_file")
		return Resolution{}, ErrNoFile
	}

	doc, err := r.Document(ctx, ref.File)
	if err != nil {
		return Resolution{}, err
	}

	entries := doc.Entries
	if ref.From != "" {
		idx := route.IndexOfNode(entries, ref.From)
		if idx == -1 {
			r.metrics.failure("node_not_found")
			return Resolution{}, &NodeNotFoundError{Name: ref.From}
		}
		entries = entries[idx:]
	}
	if ref.To != "" {
		idx := route.IndexOfNode(entries, ref.To)
		if idx == -1 {
			r.metrics.failure("node_not_found")
			return Resolution{}, &NodeNotFoundError{Name: ref.To}
		}
		entries = entries[:idx+1]
	}

	return Resolution{Entries: route.CloneAll(entries), Meta: doc.Meta}, nil
}

// Document returns a copy of the full parsed document stored under name.
func (r *Resolver) Document(ctx context.Context, name string) (*route.Document, error) {
	doc, err := r.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return cloneDocument(doc), nil
}

func (r *Resolver) load(ctx context.Context, name string) (*route.Document, error) {
	if doc, ok := r.cache.Get(name); ok {
		r.metrics.hit()
		return doc, nil
	}
	r.metrics.miss()
	r.log.Debug("cache miss", "file", name)

	p := parser.ForFile(name)
	data, err := r.store.Fetch(ctx, name)
	if err != nil {
		r.metrics.failure("fetch")
		r.log.Warn("fetch failed", "file", name, "error", err)
		return nil, err
	}

	doc, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		if errors.Is(err, ErrNoEmbeddedData) {
			r.metrics.failure("no_embedded_data")
			return nil, err
		}
		r.metrics.failure("parse")
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	r.cache.Add(name, doc)
	return doc, nil
}

// Put caches doc under name, e.g. for a file loaded outside the store.
func (r *Resolver) Put(name string, doc *route.Document) {
	r.cache.Add(name, cloneDocument(doc))
}

// Invalidate drops name from the cache.
func (r *Resolver) Invalidate(name string) {
	if r.cache.Remove(name) {
		r.log.Debug("cache invalidated", "file", name)
	}
}

// Purge empties the cache.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

// Cached reports whether name is currently cached.
func (r *Resolver) Cached(name string) bool {
	return r.cache.Contains(name)
}

func cloneDocument(doc *route.Document) *route.Document {
	return &route.Document{Meta: doc.Meta, Entries: route.CloneAll(doc.Entries)}
}
