package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/config"
	"github.com/five82/movieflix/internal/storage"
	"github.com/five82/movieflix/internal/tmdb"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestSetupWithoutAPIKey(t *testing.T) {
	t.Setenv(config.APIKeyEnv, "")
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "data_dir = \""+filepath.ToSlash(dir)+"\"\nhistory_limit = 3\n")

	env, err := Setup(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() { _ = env.Close() }()

	if _, err := env.Catalog(); !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("Catalog error = %v, want ErrMissingAPIKey", err)
	}

	for i := int64(1); i <= 5; i++ {
		if err := env.Library.RecordView(tmdb.Movie{ID: i, Title: "m"}, time.Now()); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	if got := len(env.Library.History()); got != 3 {
		t.Fatalf("history length = %d, want configured limit 3", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "library.json")); err != nil {
		t.Fatalf("store file not created: %v", err)
	}
}

func TestSetupSQLiteBackendWithKey(t *testing.T) {
	t.Setenv(config.APIKeyEnv, "from-env")
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "data_dir = \""+filepath.ToSlash(dir)+"\"\nstore_backend = \"sqlite\"\n")

	env, err := Setup(Options{ConfigPath: cfgPath, Verbose: true})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() { _ = env.Close() }()

	if _, ok := env.KV.(*storage.SQLiteKV); !ok {
		t.Fatalf("KV = %T, want *storage.SQLiteKV", env.KV)
	}
	c1, err := env.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	c2, _ := env.Catalog()
	if c1 != c2 {
		t.Fatalf("Catalog built a second client")
	}
}

func TestSetupRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "data_dir = \""+filepath.ToSlash(dir)+"\"\nstore_backend = \"redis\"\n")

	if _, err := Setup(Options{ConfigPath: cfgPath}); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Fatalf("Setup error = %v, want ErrUnknownBackend", err)
	}
}

func TestWatchStoreReportsExternalWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, stop := watchStore(ctx, path, zap.NewNop())
	if changes == nil {
		t.Fatalf("watcher did not start")
	}

	other, err := storage.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := other.Set("watchlist", "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatalf("no change reported")
	}
	stop()
}

func TestWatchStoreMissingDirectory(t *testing.T) {
	changes, stop := watchStore(context.Background(), filepath.Join(t.TempDir(), "missing", "library.json"), zap.NewNop())
	defer stop()
	if changes != nil {
		t.Fatalf("expected nil channel for unwatchable path")
	}
}
