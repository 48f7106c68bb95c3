package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-theuer/signaleditor/internal/config"
	"github.com/arthur-theuer/signaleditor/internal/pipeline"
	"github.com/arthur-theuer/signaleditor/internal/report"
	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
	"github.com/arthur-theuer/signaleditor/internal/stations"
)

const testPIN = "4711"

const fileA = `typ: strecke
linie: S5
von: PF
nach: THW

signale:
  - id: 1
    knoten: PF

  - id: 2
    signal_1: Blocksignal 1

  - id: 3
    knoten: THW
`

const fileB = `typ: strecke
linie: S5
von: THW
nach: ZG

signale:
  - id: 1
    knoten: THW

  - id: 2
    signal_1: Einfahrsignal Zug

  - id: 3
    knoten: ZG
`

const fileAB = `typ: strecke
linie: S5
name: S5 Pfäffikon - Zug

signale:
  - id: 1
    import: { datei: a.yaml }

  - id: 2
    import: { datei: b.yaml }
`

type testEnv struct {
	srv   *Server
	store *routestore.MemStore
	res   *resolver.Resolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		EditorPIN:      testPIN,
		WorkerCount:    1,
		MaxQueueSize:   4,
		JobTTL:         time.Hour,
		MaxUploadBytes: 1 << 20,
	}

	store := routestore.NewMemStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a.yaml", []byte(fileA)))
	require.NoError(t, store.Save(ctx, "b.yaml", []byte(fileB)))
	require.NoError(t, store.Save(ctx, "ab.yaml", []byte(fileAB)))

	res, err := resolver.New(store, resolver.Options{Logger: log})
	require.NoError(t, err)

	builder := report.Builder{Stations: stations.Default()}
	orch := pipeline.NewOrchestrator(cfg, res, builder, log)
	orch.Start(ctx)
	t.Cleanup(orch.Stop)

	reg := prometheus.NewRegistry()
	srv := NewServer(Deps{
		Orchestrator: orch,
		Resolver:     res,
		Store:        store,
		Builder:      builder,
		Metrics:      NewMetrics(reg),
		Gatherer:     reg,
	}, log, cfg)
	return &testEnv{srv: srv, store: store, res: res}
}

// do sends an authenticated request; a non-string body is sent as JSON.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
		contentType = "text/yaml"
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
		contentType = "application/json"
	}
	req := httptest.NewRequest(method, path, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+testPIN)
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	env.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `signaleditor_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization")

	req = httptest.NewRequest(http.MethodGet, "/api/files", nil)
	req.Header.Set("Authorization", "Bearer 0000")
	rec = httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth", map[string]string{"pin": testPIN})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth", map[string]string{"pin": "1234"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
