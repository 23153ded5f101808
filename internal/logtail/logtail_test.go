package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movieflix.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func jsonLine(i int, level string) string {
	return fmt.Sprintf(`{"level":%q,"ts":"2024-03-05T14:07:%02d.000Z","logger":"ui","msg":"event %d","n":%d}`, level, i, i, i)
}

func messages(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestRead(t *testing.T) {
	var lines, all []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, jsonLine(i, "info"))
		all = append(all, fmt.Sprintf("event %d", i))
	}
	path := writeLog(t, lines)

	tests := []struct {
		name     string
		maxLines int
		want     []string
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"partial", 5, all[5:]},
		{"exactly all", 10, all},
		{"more than exists", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(path, tt.maxLines, zapcore.DebugLevel)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Read = %v, want nil", got)
				}
				return
			}
			if diff := cmp.Diff(tt.want, messages(got)); diff != "" {
				t.Fatalf("Read mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadFiltersByLevel(t *testing.T) {
	path := writeLog(t, []string{
		jsonLine(1, "debug"),
		jsonLine(2, "warn"),
		jsonLine(3, "info"),
		jsonLine(4, "error"),
		"",
		"panic: something broke",
	})

	got, err := Read(path, 10, zapcore.WarnLevel)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff([]string{"event 2", "event 4"}, messages(got)); diff != "" {
		t.Fatalf("warn+ mismatch (-want +got):\n%s", diff)
	}

	got, err = Read(path, 10, zapcore.InfoLevel)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 4 || got[3].Raw != "panic: something broke" {
		t.Fatalf("info+ = %+v, want 3 JSON entries plus the raw line", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10, zapcore.DebugLevel)
	if err != nil || got != nil {
		t.Fatalf("Read missing = %v, %v; want nil, nil", got, err)
	}
}

func TestFormat(t *testing.T) {
	e := Parse(`{"level":"warn","ts":"2024-03-05T14:07:00.000Z","logger":"ui","msg":"search failed","query":"heat","error":"boom","caller":"ui/search.go:10"}`)
	want := "2024-03-05T14:07:00.000Z  WARN  ui  search failed  error=boom query=heat"
	if got := e.Format(); got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}

	raw := Parse("not json")
	if raw.Level != zapcore.InfoLevel || raw.Format() != "not json" {
		t.Fatalf("raw entry = %+v", raw)
	}
}
