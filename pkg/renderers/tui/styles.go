package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
)

var (
	colorBlue    = lipgloss.Color("#89b4fa")
	colorRed     = lipgloss.Color("#f38ba8")
	colorGreen   = lipgloss.Color("#a6e3a1")
	colorText    = lipgloss.Color("#cdd6f4")
	colorOverlay = lipgloss.Color("#7f849c")
)

// Styles controls how the session decorates its messages.
type Styles struct {
	Title       lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	InvalidTab  lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Muted       lipgloss.Style
}

// DefaultStyles returns the built-in palette.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		ActiveTab:   lipgloss.NewStyle().Foreground(colorBlue).Bold(true).Underline(true).Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().Foreground(colorText).Padding(0, 1),
		InvalidTab:  lipgloss.NewStyle().Foreground(colorRed).Padding(0, 1),
		Error:       lipgloss.NewStyle().Foreground(colorRed),
		Success:     lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(colorOverlay),
	}
}

// TabBar renders the tab strip for view. Tabs holding errors show a count.
func (s Styles) TabBar(view form.View, labels map[model.TabID]string) string {
	parts := make([]string, 0, len(view.Tabs)*2)
	for i, tab := range view.Tabs {
		if i > 0 {
			parts = append(parts, s.Muted.Render("|"))
		}
		label := labels[tab.ID]
		if strings.TrimSpace(label) == "" {
			label = string(tab.ID)
		}
		if tab.Errors > 0 {
			label = fmt.Sprintf("%s (%d)", label, tab.Errors)
		}
		style := s.InactiveTab
		switch {
		case tab.Active:
			style = s.ActiveTab
		case tab.Errors > 0:
			style = s.InvalidTab
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
