package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentplug/internal/api"
	"agentplug/internal/catalog"
	"agentplug/internal/registry"
	"agentplug/internal/runner"
	"agentplug/internal/settings"
	"agentplug/internal/testing/fixtures/plugins"
	"agentplug/internal/webui"
	"agentplug/pkg/logging"
)

type fixture struct {
	handler http.Handler
	store   *catalog.Store
	funcs   *runner.Funcs
	dirs    []string
	base    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dirs := plugins.Roots(t, "usr/plugins", "plugins")
	plugins.Write(t, dirs[1], plugins.Plugin{ID: "text_editor", Version: "1", Files: map[string]string{
		"api/save.py":   "",
		"api/crash.py":  "",
		"api/fail.py":   "",
		"webui/main.js": "console.log('editor')",
		settings.DefaultsFile: "default_line_count: 100\n",
		"extensions/webui/sidebar-start/panel.html": `<div x-data x-move-to-end></div>`,
	}})
	plugins.Write(t, dirs[0], plugins.Plugin{ID: "memory", Version: "2"})
	plugins.Write(t, dirs[1], plugins.Plugin{ID: "memory", Version: "1"})

	store := catalog.NewStore(registry.NewRoots(dirs...))
	base := t.TempDir()
	resolver := settings.NewResolver(store, filepath.Join(base, "projects"), filepath.Join(base, "agents"))
	broker, err := webui.NewBroker(store, 16)
	require.NoError(t, err)

	funcs := runner.NewFuncs(nil)
	funcs.RegisterHandler("text_editor", "api/save.py", func(_ context.Context, body []byte) ([]byte, error) {
		return append([]byte(`{"echo":`), append(body, '}')...), nil
	})
	funcs.RegisterHandler("text_editor", "api/crash.py", func(context.Context, []byte) ([]byte, error) {
		panic("handler bug")
	})
	funcs.RegisterHandler("text_editor", "api/fail.py", func(context.Context, []byte) ([]byte, error) {
		return nil, &runner.HandlerError{Status: http.StatusConflict, Body: []byte(`{"reason":"locked"}`)}
	})

	srv := New(Options{Store: store, Settings: resolver, Broker: broker, Invoker: funcs})
	return &fixture{handler: srv.Handler(), store: store, funcs: funcs, dirs: dirs, base: base}
}

func newLocalListener() (net.Listener, error) {
	return net.Listen("tcp", "127.0.0.1:0")
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestStaticAsset(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/plugins/text_editor/webui/main.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log('editor')", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = f.do(t, http.MethodGet, "/plugins/text_editor/webui/missing.js", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/plugins/ghost/webui/main.js", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp api.ErrorResponse
	decode(t, rec, &errResp)
	assert.Contains(t, errResp.Error, "ghost")
}

func TestStaticAsset_SymlinkEscapeForbidden(t *testing.T) {
	f := newFixture(t)
	outside := filepath.Join(f.base, "secret.txt")
	plugins.WriteFile(t, outside, "top secret")
	link := filepath.Join(f.dirs[1], "text_editor", "webui", "secret.txt")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	rec := f.do(t, http.MethodGet, "/plugins/text_editor/webui/secret.txt", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "top secret")
}

func TestStaticAsset_DotSegmentsLoggedAndForbidden(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	logging.Init(logging.LevelInfo, logging.FormatJSON, &buf)
	t.Cleanup(func() { logging.Init(logging.LevelInfo, logging.FormatText, io.Discard) })

	for _, target := range []string{
		"/plugins/text_editor/../memory/plugin.yaml",
		"/plugins/ghost/../../etc/passwd",
		"/plugins/../text_editor/webui/main.js",
		"/plugins/text_editor/webui/../../../secret.txt",
	} {
		buf.Reset()
		rec := f.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, target)
		assert.Empty(t, rec.Header().Get("Location"), target)
		assert.Contains(t, buf.String(), `"security":true`, target)
	}

	// Dot segments that stay inside the plugin are served directly.
	rec := f.do(t, http.MethodGet, "/plugins/text_editor/webui/../webui/./main.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log('editor')", rec.Body.String())
}

func TestPluginAPI(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/plugins/text_editor/save", `{"path":"a.txt"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"echo":{"path":"a.txt"}}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/plugins/text_editor/nope", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/plugins/text_editor/fail", `{}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"reason":"locked"}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/plugins/text_editor/crash", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The server keeps serving after a panic.
	rec = f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestManagement_ConfigRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/plugins", `{"action":"get_config","plugin_id":"text_editor","scope_context":{"project":"P"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.ConfigResponse
	decode(t, rec, &resp)
	assert.Equal(t, "default", resp.Scope)
	assert.Equal(t, float64(100), resp.Config["default_line_count"])

	rec = f.do(t, http.MethodPost, "/api/plugins", `{"action":"save_config","plugin_id":"text_editor","scope_context":{"project":"P","profile":"Q"},"payload":{"default_line_count":5}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &resp)
	assert.Equal(t, "project+profile", resp.Scope)

	rec = f.do(t, http.MethodPost, "/api/plugins", `{"action":"get_config","plugin_id":"text_editor","scope_context":{"project":"P","profile":"Q"}}`)
	decode(t, rec, &resp)
	assert.Equal(t, "project+profile", resp.Scope)
	assert.Equal(t, float64(5), resp.Config["default_line_count"])

	rec = f.do(t, http.MethodPost, "/api/plugins", `{"action":"get_defaults","plugin_id":"text_editor"}`)
	decode(t, rec, &resp)
	assert.Equal(t, "default", resp.Scope)
}

func TestManagement_SaveKeepsLargeIntegers(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/plugins", `{"action":"save_config","plugin_id":"text_editor","scope_context":{"project":"P"},"payload":{"id":9007199254740993}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":9007199254740993`)

	rec = f.do(t, http.MethodPost, "/api/plugins", `{"action":"get_config","plugin_id":"text_editor","scope_context":{"project":"P"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":9007199254740993`)
}

func TestManagement_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown action", `{"action":"delete_everything","plugin_id":"text_editor"}`, http.StatusBadRequest},
		{"malformed body", `{"action":`, http.StatusBadRequest},
		{"unknown plugin", `{"action":"get_config","plugin_id":"ghost"}`, http.StatusNotFound},
		{"missing plugin id", `{"action":"get_config"}`, http.StatusBadRequest},
		{"traversal in project", `{"action":"get_config","plugin_id":"text_editor","scope_context":{"project":"../x"}}`, http.StatusBadRequest},
		{"save without payload", `{"action":"save_config","plugin_id":"text_editor"}`, http.StatusBadRequest},
		{"save non-object payload", `{"action":"save_config","plugin_id":"text_editor","payload":[1]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/plugins", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var errResp api.ErrorResponse
			decode(t, rec, &errResp)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestListAndReload(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/plugins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list api.PluginListResponse
	decode(t, rec, &list)
	require.Len(t, list.Plugins, 2)
	assert.Equal(t, "memory", list.Plugins[0].ID)
	assert.Equal(t, "2", list.Plugins[0].Version)
	assert.Len(t, list.Plugins[0].Shadows, 1)

	plugins.Write(t, f.dirs[0], plugins.Plugin{ID: "newcomer"})
	rec = f.do(t, http.MethodPost, "/api/plugins/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reloaded api.PluginListResponse
	decode(t, rec, &reloaded)
	assert.Greater(t, reloaded.Version, list.Version)
	assert.Len(t, reloaded.Plugins, 3)
}

func TestLoadWebUIExtensions(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/load_webui_extensions", `{"extension_point":"sidebar-start","filters":["html"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Extensions []webui.Contribution `json:"extensions"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Extensions, 1)
	assert.Equal(t, "text_editor", resp.Extensions[0].PluginID)

	rec = f.do(t, http.MethodPost, "/api/load_webui_extensions", `{"extension_point":"nowhere"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"extensions":[]}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/load_webui_extensions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddleware(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/plugins", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))

	rec = f.do(t, http.MethodGet, "/no/such/route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	f := newFixture(t)
	srv := New(Options{Store: f.store, Invoker: f.funcs})
	ln, err := newLocalListener()
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	err = <-done
	assert.True(t, err == nil || errors.Is(err, context.Canceled), "unexpected error: %v", err)
}
