package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, view tabs and feed status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("MOVIEFLIX", styles.Logo)}

	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v)
		if compact {
			label = v.String()
		}
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Bold(true).Render(" "+label+" "))
		} else {
			tabs = append(tabs, bg.Render(label, styles.MutedText))
		}
	}
	parts = append(parts, bg.Join(tabs, " "))

	adultStyle := styles.MutedText
	if !m.adultFilter {
		adultStyle = styles.WarningText
	}
	parts = append(parts, bg.Render(m.adultLabel(), adultStyle))

	if status := m.feedStatus(styles, bg, compact); status != "" {
		parts = append(parts, status)
	}

	if m.errorMsg != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.errorMsg, 40), styles.WarningText),
		)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// feedStatus summarizes the state of the home rows.
func (m Model) feedStatus(styles Styles, bg BgStyle, compact bool) string {
	snap := m.snapshot
	switch {
	case !snap.HasFeed && snap.LastError == nil:
		return bg.Render(m.spinner.View()+" Loading movies...", styles.WarningText)
	case snap.IsOffline():
		return bg.Render("OFFLINE", styles.DangerText) + bg.Space() +
			bg.Render("Retrying...", styles.WarningText)
	}

	var parts []string
	if ts := formatTimestamp(snap.LastUpdated, m.now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}
	if snap.LastError != nil {
		maxErr := ternaryInt(compact, 30, 60)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(snap.LastError.Error(), maxErr), styles.DangerText),
		)
	}
	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	s := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		s += " (now)"
	case since < time.Hour:
		s += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		s += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return s
}

func ternaryInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.search.active:
		commands = []cmd{
			{"enter", "Search"},
			{"tab", "Complete"},
			{"up/down", "Suggestions"},
			{"esc", "Cancel"},
		}
	case m.currentView == ViewWatchlist:
		commands = []cmd{
			{"enter", "Details"},
			{"x", "Remove"},
			{"hjkl", "Navigate"},
			{"/", "Search"},
			{"?", "More"},
		}
	case m.currentView == ViewHistory:
		commands = []cmd{
			{"enter", "Details"},
			{"C", "Clear"},
			{"hjkl", "Navigate"},
			{"/", "Search"},
			{"?", "More"},
		}
	case m.currentView == ViewAbout:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"pgup/pgdown", "Page"},
			{"esc", "Home"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"enter", "Details"},
			{"i", "Featured"},
			{"/", "Search"},
			{"hjkl", "Navigate"},
			{"a", m.adultLabel()},
			{"r", "Reload"},
		}
		if m.search.results != nil {
			commands = append(commands, cmd{"X", "Clear results"})
		}
		commands = append(commands, cmd{"?", "More"})
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
