package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

const aboutMarkdown = `# About MovieFlix

Welcome to **MovieFlix**, your ultimate destination for discovering movies.
Our mission is to bring the magic of cinema to your fingertips with an
experience that is simple, fast and fun.

## Features

### Vast Library
Browse thousands of titles across every genre, from timeless classics to the
latest releases.

### Stay Updated on Trending Movies
See what everyone is watching this week and never miss a popular release.

### Build Your Watchlist
Save the movies you want to see and come back to them any time.

## Meet the Team

| Name | Role |
| --- | --- |
| KEVIN JOHN DOWD | Founder & CEO |
| SANTOSH ADHIKARI | Chief Technology Officer |
| JOHN ALLYSEN | Content Director |
| VISHESH GROVER | UX Designer |

## Join MovieFlix Today

Start exploring, build your watchlist and find your next favorite film.
`

// updateAboutViewport re-renders the About page when the terminal width
// changed since the last render.
func (m *Model) updateAboutViewport() {
	if !m.ready {
		return
	}
	width := max(m.width-2, 20)
	height := max(m.height-3, 1)

	if m.aboutWidth == width {
		m.aboutViewport.Height = height
		return
	}

	m.aboutViewport = viewport.New(width, height)
	m.aboutViewport.SetContent(renderAboutMarkdown(width, m.log))
	m.aboutWidth = width
}

// renderAboutMarkdown renders the About page, falling back to the raw
// markdown when the renderer fails.
func renderAboutMarkdown(width int, log *zap.Logger) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		log.Warn("create markdown renderer failed", zap.Error(err))
		return aboutMarkdown
	}
	out, err := r.Render(aboutMarkdown)
	if err != nil {
		log.Warn("render about page failed", zap.Error(err))
		return aboutMarkdown
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderAbout(height int) string {
	vp := m.aboutViewport
	vp.Height = max(height, 1)
	return vp.View()
}

func (m Model) handleAboutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.aboutViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.aboutViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.aboutViewport.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.aboutViewport.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.aboutViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.aboutViewport.GotoBottom()
	}
	return m, nil
}
