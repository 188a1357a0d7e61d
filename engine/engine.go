// Package engine wires the world repository, symbol table, kind registry,
// parameter collector and sanity checker into the single entry point used
// by the command line, the TUI and the MCP server.
package engine

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/nathoo/questcheck/engine/collect"
	"github.com/nathoo/questcheck/engine/domain"
	"github.com/nathoo/questcheck/engine/kinds"
	"github.com/nathoo/questcheck/engine/sanity"
	"github.com/nathoo/questcheck/engine/symbols"
	"github.com/nathoo/questcheck/engine/world"
	"github.com/nathoo/questcheck/types"
)

// Engine holds the loaded world and the analysis state of the last run.
type Engine struct {
	Repo    world.Repository
	Symbols *symbols.Table
	Kinds   *kinds.Registry

	collector *collect.Collector
	checker   *sanity.Checker
}

// New creates an engine over repo with the built-in kinds.
func New(repo world.Repository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	tbl := symbols.NewTable()
	reg := kinds.Default()
	c := collect.New(repo, tbl, reg, logger)
	return &Engine{
		Repo:      repo,
		Symbols:   tbl,
		Kinds:     reg,
		collector: c,
		checker:   sanity.New(c),
	}
}

// SetSuggest toggles "did you mean" hints on unresolved names.
func (e *Engine) SetSuggest(on bool) {
	e.checker.Suggest = on
}

// ClearResults empties the result list.
func (e *Engine) ClearResults() { e.checker.ClearResults() }

// CheckTemplates appends template diagnostics.
func (e *Engine) CheckTemplates() { e.checker.CheckTemplates() }

// CheckObjects appends factory and object diagnostics.
func (e *Engine) CheckObjects() { e.checker.CheckObjects() }

// CheckQuests appends quest diagnostics.
func (e *Engine) CheckQuests() { e.checker.CheckQuests() }

// CheckAll clears the results and runs every check.
func (e *Engine) CheckAll() []sanity.Result {
	e.checker.CheckAll()
	return e.checker.Results()
}

// Results returns the results of the last run.
func (e *Engine) Results() []sanity.Result {
	return e.checker.Results()
}

// TemplateParameters returns a fresh domain map for tpl and its ancestors.
func (e *Engine) TemplateParameters(tpl *types.Template) domain.Map {
	return e.collector.Template(tpl)
}

// QuestParameters returns a fresh domain map for q.
func (e *Engine) QuestParameters(q *types.Quest) domain.Map {
	return e.collector.Quest(q)
}

// ObjectParameters returns a fresh domain map of the parameters obj's
// template expects.
func (e *Engine) ObjectParameters(obj *types.Object) domain.Map {
	return e.collector.Object(obj)
}

// ParamRow is a presentation row of one parameter domain.
type ParamRow struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Role        string   `json:"role"`
	Obligations []string `json:"obligations,omitempty"`
}

// Describe turns a domain map into rows sorted by parameter name.
func (e *Engine) Describe(m domain.Map) []ParamRow {
	rows := make([]ParamRow, 0, len(m))
	for id, d := range m {
		row := ParamRow{
			Name: e.Symbols.Name(id),
			Type: d.Type.String(),
			Role: d.Role.String(),
		}
		for _, o := range d.Obligations.Sorted() {
			row.Obligations = append(row.Obligations, formatObligation(o))
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func formatObligation(o domain.Obligation) string {
	if o.Tag == "" {
		return o.PropertyClass
	}
	return o.PropertyClass + ":" + o.Tag
}

// FormatRow renders a row as "name: type/role [obligations]".
func FormatRow(r ParamRow) string {
	s := r.Name + ": " + r.Type + "/" + r.Role
	if len(r.Obligations) > 0 {
		s += " [" + strings.Join(r.Obligations, ", ") + "]"
	}
	return s
}

// KindRow is a presentation row of one registered kind.
type KindRow struct {
	Family   string   `json:"family"`
	Name     string   `json:"name"`
	Fields   []string `json:"fields,omitempty"`
	Entities []string `json:"entities,omitempty"`
}

// ListKinds lists the registered kinds of every family, sorted by name within
// each family.
func (e *Engine) ListKinds() []KindRow {
	var rows []KindRow
	for _, fam := range e.Kinds.Families() {
		for _, name := range e.Kinds.Names(fam) {
			k, _ := e.Kinds.Lookup(fam, name)
			row := KindRow{Family: fam.String(), Name: k.Name}
			for _, f := range k.Fields {
				row.Fields = append(row.Fields, f.Name+": "+f.Type.String()+"/"+f.Role.String())
			}
			for _, ref := range k.Entities {
				pc := ref.Default
				if ref.PropertyClass != "" {
					pc = "$" + ref.PropertyClass
					if ref.Default != "" {
						pc += "|" + ref.Default
					}
				}
				row.Entities = append(row.Entities, ref.Entity+" -> "+pc)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ResolveTemplate returns the template obj is instantiated from.
func (e *Engine) ResolveTemplate(obj *types.Object) (*types.Template, bool) {
	return world.ResolveTemplate(e.Repo, obj)
}
