package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
)

func TestFlatten_MergesSeamNode(t *testing.T) {
	store := routestore.NewMemStore()
	save(t, store, "x.yaml", node(1, "P"), sig(2, "Blocksignal 1"), node(3, "Q"))
	save(t, store, "y.yaml", nodeKm(1, "Q", 12.3), sig(2, "Blocksignal 2"), node(3, "R"))
	r := newResolver(t, store, Options{})
	ctx := context.Background()

	out := r.Flatten(ctx, []route.Entry{imp(1, "x.yaml", "", ""), imp(2, "y.yaml", "", "")})

	assert.Equal(t, []string{
		"node:P", "signal:Blocksignal 1", "node:Q", "signal:Blocksignal 2", "node:R",
	}, names(out))
	q := out[2].(*route.Node)
	require.NotNil(t, q.Km)
	assert.Equal(t, 12.3, *q.Km)

	cached, err := r.Document(ctx, "x.yaml")
	require.NoError(t, err)
	assert.Nil(t, cached.Entries[2].Head().Km, "merge must not touch the cached document")
}

func TestFlatten_KeepsExistingKm(t *testing.T) {
	store := routestore.NewMemStore()
	save(t, store, "y.yaml", nodeKm(1, "Q", 12.3), node(2, "R"))
	r := newResolver(t, store, Options{})

	out := r.Flatten(context.Background(), []route.Entry{nodeKm(1, "Q", 4), imp(2, "y.yaml", "", "")})
	assert.Equal(t, []string{"node:Q", "node:R"}, names(out))
	assert.Equal(t, 4.0, *out[0].Head().Km)
}

func TestFlatten_DoesNotMutateInput(t *testing.T) {
	store := routestore.NewMemStore()
	save(t, store, "y.yaml", nodeKm(1, "Q", 7), node(2, "R"))
	r := newResolver(t, store, Options{})

	in := node(1, "Q")
	r.Flatten(context.Background(), []route.Entry{in, imp(2, "y.yaml", "", "")})
	assert.Nil(t, in.Km)
}

func TestFlatten_UnresolvedPassThrough(t *testing.T) {
	store := routestore.NewMemStore()
	save(t, store, "x.yaml", node(1, "A"))
	r := newResolver(t, store, Options{})

	seq := []route.Entry{
		sig(1, "Einfahrsignal Zug"),
		imp(2, "fehlt.yaml", "", ""),
		imp(3, "x.yaml", "Z", ""),
		imp(4, "", "", ""),
		imp(5, "x.yaml", "", ""),
	}
	out := r.Flatten(context.Background(), seq)

	assert.Equal(t, []string{
		"signal:Einfahrsignal Zug", "import:fehlt.yaml", "import:x.yaml", "import:", "node:A",
	}, names(out))
	assert.Equal(t, 3, Unresolved(out))
	assert.Equal(t, "Z", out[2].(*route.Import).Ref.From)
}

func TestFlatten_NestedImportsAndCycles(t *testing.T) {
	store := routestore.NewMemStore()
	save(t, store, "a.yaml", node(1, "A"), imp(2, "b.yaml", "", ""))
	save(t, store, "b.yaml", node(1, "B"), imp(2, "a.yaml", "", ""))
	r := newResolver(t, store, Options{})

	out := r.Flatten(context.Background(), []route.Entry{imp(1, "a.yaml", "", "")})
	assert.Equal(t, []string{"node:A", "node:B", "import:a.yaml"}, names(out))
}

func TestFlatten_MaxDepth(t *testing.T) {
	store := routestore.NewMemStore()
	save(t, store, "a.yaml", node(1, "A"), imp(2, "b.yaml", "", ""))
	save(t, store, "b.yaml", node(1, "B"))
	r := newResolver(t, store, Options{MaxDepth: 1})

	out := r.Flatten(context.Background(), []route.Entry{imp(1, "a.yaml", "", "")})
	assert.Equal(t, []string{"node:A", "import:b.yaml"}, names(out))
}

func TestFlattenFrom_SelfImport(t *testing.T) {
	store := routestore.NewMemStore()
	save(t, store, "x.yaml", node(1, "A"), imp(2, "x.yaml", "", ""), node(3, "B"))
	r := newResolver(t, store, Options{})
	ctx := context.Background()

	doc, err := r.Document(ctx, "x.yaml")
	require.NoError(t, err)

	out := r.FlattenFrom(ctx, "x.yaml", doc.Entries)
	assert.Equal(t, []string{"node:A", "import:x.yaml", "node:B"}, names(out))
	assert.Equal(t, 1, Unresolved(out))
}
