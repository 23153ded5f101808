package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Entry is one line of the movieflix JSON log.
type Entry struct {
	Time    string
	Level   zapcore.Level
	Logger  string
	Message string
	Fields  map[string]any
	// Raw is the line as read. Lines that are not JSON keep only Raw.
	Raw string
}

// reserved keys written by logging.New's encoder.
var reserved = map[string]struct{}{
	"ts": {}, "level": {}, "logger": {}, "msg": {}, "caller": {}, "stacktrace": {},
}

// Read returns up to maxLines entries from the end of the log at path whose
// level is at least minLevel. A missing file yields no entries.
func Read(path string, maxLines int, minLevel zapcore.Level) ([]Entry, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]Entry, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx := 0, 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry := Parse(line)
		if entry.Level < minLevel {
			continue
		}
		ring[idx] = entry
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	entries := make([]Entry, count)
	if count == maxLines {
		for i := range count {
			entries[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(entries, ring[:count])
	}
	return entries, nil
}

// Parse decodes one JSON log line. Non-JSON lines come back at info level
// with only Raw set so they are never dropped by the default filter.
func Parse(line string) Entry {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{Level: zapcore.InfoLevel, Raw: line}
	}

	e := Entry{Raw: line, Level: zapcore.InfoLevel, Fields: map[string]any{}}
	e.Time, _ = raw["ts"].(string)
	e.Logger, _ = raw["logger"].(string)
	e.Message, _ = raw["msg"].(string)
	if lvl, ok := raw["level"].(string); ok {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			e.Level = parsed
		}
	}
	for k, v := range raw {
		if _, skip := reserved[k]; !skip {
			e.Fields[k] = v
		}
	}
	return e
}

// Format renders an entry as a single human-readable line:
//
//	2024-03-05T14:07:00.000Z  WARN  ui  search failed  error=boom query=heat
func (e Entry) Format() string {
	if e.Message == "" && e.Time == "" {
		return e.Raw
	}
	parts := []string{e.Time, strings.ToUpper(e.Level.String())}
	if e.Logger != "" {
		parts = append(parts, e.Logger)
	}
	parts = append(parts, e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", k, e.Fields[k]))
	}
	if len(fields) > 0 {
		parts = append(parts, strings.Join(fields, " "))
	}
	return strings.Join(parts, "  ")
}
