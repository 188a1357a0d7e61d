package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/questcheck/engine/sanity"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusClean = styleStatusBar.
				Foreground(lipgloss.Color("42"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	styleKind = map[sanity.ContextKind]lipgloss.Style{
		sanity.ContextTemplate: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		sanity.ContextObject:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		sanity.ContextFactory:  lipgloss.NewStyle().Foreground(lipgloss.Color("177")),
		sanity.ContextQuest:    lipgloss.NewStyle().Foreground(lipgloss.Color("228")),
	}

	styleHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	styleParam = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleClean = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	styleUserInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindHeader
	kindResult
	kindClean
	kindSystem
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case line == "no problems":
		return kindClean
	case isHeader(line):
		return kindHeader
	case resultKind(line) >= 0:
		return kindResult
	default:
		return kindPlain
	}
}

func isHeader(line string) bool {
	for _, k := range []sanity.ContextKind{sanity.ContextTemplate, sanity.ContextObject, sanity.ContextFactory, sanity.ContextQuest} {
		if strings.HasPrefix(line, k.Title()+" (") && strings.HasSuffix(line, ")") {
			return true
		}
	}
	return false
}

// resultKind returns the kind of resource a result line names, or -1.
func resultKind(line string) sanity.ContextKind {
	line = strings.TrimSpace(line)
	prefixes := map[string]sanity.ContextKind{
		"Template ": sanity.ContextTemplate,
		"Object ":   sanity.ContextObject,
		"Factory ":  sanity.ContextFactory,
		"Quest ":    sanity.ContextQuest,
	}
	for p, k := range prefixes {
		if strings.HasPrefix(line, p) && strings.Contains(line, ": ") {
			return k
		}
	}
	return -1
}

// styledResult renders a result line in its kind's color with the
// trailing "did you mean" hint dimmed.
func styledResult(line string) string {
	style := styleKind[resultKind(line)]
	if i := strings.LastIndex(line, " (did you mean"); i >= 0 {
		return style.Render(line[:i]) + styleHint.Render(line[i:])
	}
	return style.Render(line)
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeader:
		return styleHeader.Render(line)
	case kindResult:
		return styledResult(line)
	case kindClean:
		return styleClean.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	default:
		return styleParam.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
