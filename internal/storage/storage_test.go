package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestKV_Backends(t *testing.T) {
	cases := []struct {
		backend string
		file    string
	}{
		{BackendFile, "library.json"},
		{BackendSQLite, "library.db"},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data", tc.file)
			kv, err := Open(tc.backend, path)
			if err != nil {
				t.Fatalf("Open(%s) returned error: %v", tc.backend, err)
			}
			t.Cleanup(func() { _ = kv.Close() })

			if _, ok, err := kv.Get("watchlist"); err != nil || ok {
				t.Fatalf("Get on empty store = ok %v err %v, want missing", ok, err)
			}
			if err := kv.Set("watchlist", `[{"id":1}]`); err != nil {
				t.Fatalf("Set returned error: %v", err)
			}
			if err := kv.Set("watchlist", `[{"id":2}]`); err != nil {
				t.Fatalf("Set overwrite returned error: %v", err)
			}
			got, ok, err := kv.Get("watchlist")
			if err != nil || !ok || got != `[{"id":2}]` {
				t.Fatalf("Get = %q ok %v err %v, want overwritten value", got, ok, err)
			}
			if err := kv.Remove("watchlist"); err != nil {
				t.Fatalf("Remove returned error: %v", err)
			}
			if err := kv.Remove("watchlist"); err != nil {
				t.Fatalf("Remove missing returned error: %v", err)
			}
			if _, ok, _ := kv.Get("watchlist"); ok {
				t.Fatalf("Get after Remove reported ok")
			}
		})
	}
}

func TestFileKV_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	first, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if err := first.Set("movieHistory", "[]"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	second, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if got, ok, err := second.Get("movieHistory"); err != nil || !ok || got != "[]" {
		t.Fatalf("Get = %q ok %v err %v, want [] from first instance", got, ok, err)
	}
	assertNoTempFiles(t, path)
}

func TestFileKV_ConcurrentHandlesDoNotShareTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	handles := make([]*FileKV, 2)
	for i := range handles {
		kv, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile returned error: %v", err)
		}
		handles[i] = kv
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(handles)*50)
	for i, kv := range handles {
		wg.Add(1)
		go func(i int, kv *FileKV) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				if err := kv.Set(fmt.Sprintf("key%d", i), fmt.Sprintf("[%d]", n)); err != nil {
					errs <- err
				}
			}
		}(i, kv)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Set returned error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("store is not valid JSON after concurrent saves: %v\n%s", err, raw)
	}
	assertNoTempFiles(t, path)
}

func assertNoTempFiles(t *testing.T, path string) {
	t.Helper()
	matches, err := filepath.Glob(path + ".*tmp")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestFileKV_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	kv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if _, _, err := kv.Get("watchlist"); err == nil || !strings.Contains(err.Error(), "decode store") {
		t.Fatalf("Get error = %v, want decode store error", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("Open error = %v, want ErrUnknownBackend", err)
	}
}

func TestWatcher_ReportsWritesFromAnotherHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	kv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := kv.Set("watchlist", "[]"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatalf("no change notification after write")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "library.json"))
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-w.Changes():
		t.Fatalf("unexpected change notification for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "library.json"))
	if err != nil {
		t.Fatalf("NewWatcher returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}
