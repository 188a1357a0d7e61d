package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/questcheck/engine/sanity"
)

// renderStatusBar produces a full-width inverted status line showing the
// world, result counts per kind, the active filter and the hint toggle.
func (m Model) renderStatusBar() string {
	shown := m.visibleResults()
	left := fmt.Sprintf(" %s | %s", m.world, sanity.Summary(shown))
	if m.filter != "" {
		left += fmt.Sprintf(" | %d/%d match %q", len(shown), len(m.cfg.Filter(m.results)), m.filter)
	}

	hints := "off"
	if m.cfg.Suggest {
		hints = "on"
	}
	right := fmt.Sprintf("hints:%s ", hints)
	if !m.checked {
		right = "checking... " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right

	style := styleStatusBar
	if m.checked && len(shown) == 0 && m.filter == "" {
		style = styleStatusClean
	}
	return style.Width(m.width).Render(bar)
}
