package ui

import (
	"fmt"
	"strings"

	"github.com/five82/movieflix/internal/tmdb"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// formatRuntime renders a runtime in minutes, or N/A when unknown.
func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// joinGenres renders genre names separated by commas, or N/A.
func joinGenres(genres []tmdb.Genre) string {
	if len(genres) == 0 {
		return "N/A"
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "N/A"
	}
	return strings.Join(names, ", ")
}

// orNA returns value, or N/A when it is blank.
func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

// wrapText hard-wraps text on word boundaries to width columns.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	for _, w := range words {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(w)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
