package app

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdeck/reviewdeck/internal/backend"
	"github.com/reviewdeck/reviewdeck/internal/backend/fakeserver"
	"github.com/reviewdeck/reviewdeck/internal/prefs"
)

func bootstrap(t *testing.T, lastApp string, opts ...fakeserver.Option) *Env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	srv := httptest.NewServer(fakeserver.New(opts...))
	t.Cleanup(srv.Close)

	configPath := filepath.Join(dir, "config.toml")
	logPath := filepath.Join(dir, "logs", "reviewdeck.log")
	require.NoError(t, os.WriteFile(configPath, []byte("log_file = \""+logPath+"\"\n"), 0o644))

	prefsPath := filepath.Join(dir, "prefs.toml")
	require.NoError(t, prefs.Save(prefsPath, prefs.Prefs{Theme: "Slate", LastApp: lastApp}))

	env, err := Bootstrap(Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		APIBase:    srv.URL,
		LogLevel:   "debug",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func app(appID string, reviews int) backend.AppDetail {
	detail := backend.AppDetail{AppInfo: backend.AppInfo{AppID: appID, AppName: appID}}
	for i := 0; i < reviews; i++ {
		detail.Reviews = append(detail.Reviews, backend.Review{ID: int64(i + 1), Rating: 4, ReviewContent: "fine"})
	}
	return detail
}

func TestBootstrap_WiresConfigLoggingAndPrefs(t *testing.T) {
	env := bootstrap(t, "")

	assert.Equal(t, "debug", env.Config.LogLevel)
	assert.Equal(t, env.Config.APIBase, env.Client.BaseURL())
	assert.Equal(t, "Slate", env.Prefs.Theme)
	assert.FileExists(t, env.Log.Path())
}

func TestBootstrap_LeavesBackendWorkToTheUI(t *testing.T) {
	env := bootstrap(t, "com.b", fakeserver.WithApps(app("com.a", 1), app("com.b", 2)))

	assert.Equal(t, "com.b", env.Prefs.LastApp)
	assert.False(t, env.Roster.Snapshot().Loaded)
	assert.Empty(t, env.Detail.Snapshot().AppID())
	assert.False(t, env.Detail.Snapshot().Loading())
	assert.True(t, env.Ops.Notification().IsZero())
}

func TestBootstrap_RejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	_, err := Bootstrap(Options{ConfigPath: filepath.Join(dir, "none.toml"), LogLevel: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}
