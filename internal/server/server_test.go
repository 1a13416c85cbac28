package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/ortu/internal/config"
	"github.com/HendryAvila/ortu/internal/history"
	"github.com/HendryAvila/ortu/internal/logger"
)

type staticReader struct{ text string }

func (r staticReader) ReadAll() (string, error) { return r.text, nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.SweepInterval = time.Hour
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, text string) *App {
	t.Helper()
	app, err := New(cfg, logger.NewNop(), WithReader(staticReader{text: text}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func rpc(t *testing.T, app *App, msg string) string {
	t.Helper()
	resp := app.MCP().HandleMessage(context.Background(), json.RawMessage(msg))
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(out)
}

func TestNew_RegistersAllTools(t *testing.T) {
	app := newTestApp(t, testConfig(t), "")

	rpc(t, app, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)
	out := rpc(t, app, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	for _, name := range []string{
		"ortu_get_history", "ortu_delete_entry", "ortu_toggle_permanent",
		"ortu_set_category", "ortu_get_categories", "ortu_create_group",
		"ortu_delete_group", "ortu_rename_group", "ortu_add_to_group",
		"ortu_remove_from_group", "ortu_export_group", "ortu_import_group",
		"ortu_export_all_txt", "ortu_backup_data", "ortu_restore_data",
		"ortu_manual_cleanup", "ortu_stats",
	} {
		assert.Contains(t, out, `"`+name+`"`)
	}
}

func TestNew_RegistersPromptsAndResources(t *testing.T) {
	app := newTestApp(t, testConfig(t), "")

	rpc(t, app, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)

	out := rpc(t, app, `{"jsonrpc":"2.0","id":2,"method":"prompts/list"}`)
	assert.Contains(t, out, `"ortu-recall"`)
	assert.Contains(t, out, `"ortu-organize"`)

	out = rpc(t, app, `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)
	assert.Contains(t, out, `"ortu://history/stats"`)
	assert.Contains(t, out, `"ortu://groups"`)
}

func TestNew_PurgesEphemeralOnStart(t *testing.T) {
	cfg := testConfig(t)

	store, err := OpenStore(cfg, nil, logger.NewNop())
	require.NoError(t, err)
	_, err = store.InsertItem("left over", nil)
	require.NoError(t, err)
	pinned, err := store.InsertItem("pinned", nil)
	require.NoError(t, err)
	require.NoError(t, store.TogglePermanent(pinned))
	require.NoError(t, store.Close())

	app := newTestApp(t, cfg, "")
	items, err := app.Store().GetHistory(nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pinned", items[0].RawContent)
}

func TestNew_RulesFileOverridesBuckets(t *testing.T) {
	cfg := testConfig(t)
	cfg.RulesFile = filepath.Join(t.TempDir(), "rules.yaml")
	body := `rules:
  - category: Deploy
    patterns: ['^deployctl\s']
buckets:
  Ops:
    categories: [Deploy]
`
	require.NoError(t, os.WriteFile(cfg.RulesFile, []byte(body), 0o644))

	app := newTestApp(t, cfg, "")
	assert.Equal(t, []string{"Ops"}, app.Store().Buckets().Names())
}

func TestNew_InvalidRulesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(cfg, logger.NewNop(), WithReader(staticReader{}))
	assert.Error(t, err)
}

// serveInBackground runs app.Serve on an input that never yields, so the
// stdio loop stays alive until the returned stop func cancels it.
func serveInBackground(t *testing.T, app *App) (stop func()) {
	t.Helper()
	pr, pw, err := os.Pipe()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, pr, &discard{}) }()

	return func() {
		t.Helper()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
		_ = pw.Close()
		_ = pr.Close()
	}
}

func TestServe_CapturesUntilCancelled(t *testing.T) {
	app := newTestApp(t, testConfig(t), "kubectl get pods")
	stop := serveInBackground(t, app)

	assert.Eventually(t, func() bool {
		items, err := app.Store().GetHistory(history.ParseFilter("category:Kubernetes"))
		return err == nil && len(items) == 1
	}, 2*time.Second, 10*time.Millisecond)

	stop()
}

// ─── Single capturing instance ──────────────────────────────────────────────

func TestNew_SecondInstanceServesToolsOnly(t *testing.T) {
	cfg := testConfig(t)
	first := newTestApp(t, cfg, "docker ps -a")
	second := newTestApp(t, cfg, "docker ps -a")

	assert.True(t, first.Primary())
	assert.False(t, second.Primary())

	stopFirst := serveInBackground(t, first)
	stopSecond := serveInBackground(t, second)

	assert.Eventually(t, func() bool {
		items, err := first.Store().GetHistory(history.PlainFilter{Text: "docker ps -a"})
		return err == nil && len(items) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Many poll intervals for both apps.
	time.Sleep(200 * time.Millisecond)
	stopSecond()
	stopFirst()

	items, err := second.Store().GetHistory(history.PlainFilter{Text: "docker ps -a"})
	require.NoError(t, err)
	assert.Len(t, items, 1, "one clipboard value must be stored once")
}

func TestNew_SecondInstanceKeepsRunningHistory(t *testing.T) {
	cfg := testConfig(t)
	first := newTestApp(t, cfg, "")
	_, err := first.Store().InsertItem("unpinned from the first instance", nil)
	require.NoError(t, err)

	second := newTestApp(t, cfg, "")
	require.False(t, second.Primary())

	items, err := second.Store().GetHistory(nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "unpinned from the first instance", items[0].RawContent)
}

func TestNew_LockReleasedOnClose(t *testing.T) {
	cfg := testConfig(t)
	first := newTestApp(t, cfg, "")
	require.True(t, first.Primary())
	require.NoError(t, first.Close())

	next := newTestApp(t, cfg, "")
	assert.True(t, next.Primary())
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
