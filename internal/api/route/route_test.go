package route

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bassista/go_notes/internal/app"
	"github.com/bassista/go_notes/internal/config"
	"github.com/bassista/go_notes/internal/metrics"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T, metricsEnabled bool) (*gin.Engine, *app.App) {
	t.Helper()
	t.Setenv("HONEYBADGER_API_KEY", "")

	dir := t.TempDir()
	staticDir := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(staticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>notes</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('notes')"), 0o644))

	store, err := repository.NewJSONRepository(filepath.Join(dir, "notes.json"))
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{
			RequestTimeout:     time.Second,
			CORSAllowedOrigins: "*",
		},
		Misc: config.MiscConfig{
			StaticDir:      staticDir,
			MetricsEnabled: metricsEnabled,
		},
	}

	a, err := app.New(cfg, store, metrics.NewTestManager())
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)

	logger, _ := test.NewNullLogger()
	return SetupRoutes(a, logger), a
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRoutes_Health(t *testing.T) {
	r, _ := newTestEngine(t, true)

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"UP"}`, w.Body.String())
}

func TestSetupRoutes_NotesLifecycle(t *testing.T) {
	r, _ := newTestEngine(t, true)

	w := serve(r, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(r, http.MethodPost, "/api/notes", `{"title":"A","content":"<p>x</p>"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created repository.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = serve(r, http.MethodPost, "/api/notes",
		`{"id":"`+created.ID+`","title":"B","content":"<p>y</p>","side_notes":["s1","s2"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched repository.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, repository.Note{ID: created.ID, Title: "B", Content: "<p>y</p>", SideNotes: []string{"s1", "s2"}}, fetched)

	w = serve(r, http.MethodGet, "/api/notes", "")
	var all []repository.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	w = serve(r, http.MethodGet, "/api/notes/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"note not found"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/api/notes", `{"content":"no title"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSetupRoutes_Metrics(t *testing.T) {
	r, _ := newTestEngine(t, true)

	serve(r, http.MethodGet, "/api/notes", "")
	w := serve(r, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_notes_test_server_request")
	assert.Contains(t, w.Body.String(), `route="/api/notes"`)
	assert.Contains(t, w.Body.String(), "go_notes_test_server_store_operations")
}

func TestSetupRoutes_MetricsDisabled(t *testing.T) {
	r, _ := newTestEngine(t, false)

	w := serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRoutes_UI(t *testing.T) {
	r, _ := newTestEngine(t, true)

	w := serve(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notes")

	w = serve(r, http.MethodGet, "/static/app.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "console.log"))
}

func TestSetupRoutes_NoRoute(t *testing.T) {
	r, _ := newTestEngine(t, true)

	w := serve(r, http.MethodGet, "/does/not/exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestSetupRoutes_CORSPreflight(t *testing.T) {
	r, _ := newTestEngine(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/notes", nil)
	req.Header.Set("Origin", "http://editor.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
