// Package cli provides terminal output of check reports and an interactive
// inspector loop over a loaded world.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/questcheck/config"
	"github.com/nathoo/questcheck/engine"
	"github.com/nathoo/questcheck/engine/report"
	"github.com/nathoo/questcheck/engine/sanity"
)

// CLI handles terminal interaction with the content author.
type CLI struct {
	Engine    *engine.Engine
	Config    *config.Config
	World     string
	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config, world string) *CLI {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	return &CLI{
		Engine: eng,
		Config: cfg,
		World:  world,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// PrintReport writes results grouped by resource kind, in check order
// within each group, followed by the summary line.
func (c *CLI) PrintReport(results []sanity.Result) {
	results = c.Config.Filter(results)
	for _, g := range sanity.GroupByKind(results) {
		c.printLine(fmt.Sprintf("%s (%d)", g.Kind.Title(), len(g.Results)))
		for _, r := range g.Results {
			c.printLine("  " + r.String())
		}
		c.printLine("")
	}
	c.printLine(sanity.Summary(results))
}

// PrintDelta writes the results added and removed since a baseline.
func (c *CLI) PrintDelta(d report.Delta) {
	if d.Empty() {
		c.printLine("no changes since baseline")
		return
	}
	for _, r := range c.Config.Filter(d.Added) {
		c.printLine("+ " + r.String())
	}
	for _, r := range c.Config.Filter(d.Removed) {
		c.printLine("- " + r.String())
	}
	c.printLine(fmt.Sprintf("%d new, %d fixed", len(d.Added), len(d.Removed)))
}

// Run starts the inspector loop: prompt, input, dispatch, output.
func (c *CLI) Run() {
	c.printSystem(fmt.Sprintf("questcheck: world %s loaded. Type /help for commands.", c.World))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		}
		if !strings.HasPrefix(input, "/") {
			c.printSystem("Commands start with '/'. Type /help for available commands.")
			continue
		}
		c.lastCmd = input
		if c.handleMeta(input) {
			return
		}
	}
}

// handleMeta dispatches commands. Returns true if the loop should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	arg := strings.TrimSpace(strings.TrimPrefix(input, cmd))

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/check":
		c.PrintReport(c.Engine.CheckAll())
	case "/template":
		c.cmdTemplate(arg)
	case "/quest":
		c.cmdQuest(arg)
	case "/object":
		c.cmdObject(arg)
	case "/kinds":
		c.cmdKinds(arg)
	case "/suggest":
		c.Config.Suggest = !c.Config.Suggest
		c.Engine.SetSuggest(c.Config.Suggest)
		if c.Config.Suggest {
			c.printSystem("Suggestions enabled.")
		} else {
			c.printSystem("Suggestions disabled.")
		}
	case "/save":
		c.cmdSave(arg)
	case "/diff":
		c.cmdDiff(arg)
	case "/help":
		c.cmdHelp()
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdTemplate(name string) {
	tpl, ok := c.Engine.Repo.FindTemplate(name)
	if !ok {
		c.printSystem(fmt.Sprintf("No template named %q.", name))
		return
	}
	c.printRows(c.Engine.Describe(c.Engine.TemplateParameters(tpl)))
}

func (c *CLI) cmdQuest(name string) {
	q, ok := c.Engine.Repo.FindQuest(name)
	if !ok {
		c.printSystem(fmt.Sprintf("No quest named %q.", name))
		return
	}
	c.printRows(c.Engine.Describe(c.Engine.QuestParameters(q)))
}

func (c *CLI) cmdObject(name string) {
	obj, ok := c.Engine.Repo.FindObject(name)
	if !ok {
		c.printSystem(fmt.Sprintf("No object named %q.", name))
		return
	}
	c.printRows(c.Engine.Describe(c.Engine.ObjectParameters(obj)))
}

func (c *CLI) printRows(rows []engine.ParamRow) {
	if len(rows) == 0 {
		c.printLine("(no parameters)")
		return
	}
	for _, r := range rows {
		c.printLine("  " + engine.FormatRow(r))
	}
}

func (c *CLI) cmdKinds(family string) {
	current := ""
	for _, k := range c.Engine.ListKinds() {
		if family != "" && k.Family != family {
			continue
		}
		if k.Family != current {
			current = k.Family
			c.printLine(current + ":")
		}
		line := "  " + k.Name
		if len(k.Fields) > 0 {
			line += " (" + strings.Join(k.Fields, ", ") + ")"
		}
		c.printLine(line)
	}
	if current == "" {
		c.printSystem(fmt.Sprintf("No kinds in family %q.", family))
	}
}

func (c *CLI) cmdSave(path string) {
	if path == "" {
		path = "questcheck-report.json"
	}
	data, err := report.Save(c.World, c.Engine.Results())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Report saved to %s.", path))
}

func (c *CLI) cmdDiff(path string) {
	if path == "" {
		path = "questcheck-report.json"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Diff failed: %v", err))
		return
	}
	base, err := report.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Diff failed: %v", err))
		return
	}
	c.PrintDelta(report.Diff(base.Results, c.Engine.CheckAll()))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"Commands:",
		"  /check            Run every check and print the report",
		"  /template <name>  Show the parameters a template requires",
		"  /quest <name>     Show the parameters a quest requires",
		"  /object <name>    Show the parameters an object must bind",
		"  /kinds [family]   List trigger, reward and seqop kinds",
		"  /suggest          Toggle 'did you mean' hints",
		"  /save [file]      Save the last report as JSON",
		"  /diff [file]      Compare a fresh run against a saved report",
		"  /help             Show this help",
		"  /quit             Exit",
		"  again (g)         Repeat the last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
