// Package sanity cross-validates the world: parameter bindings against the
// inferred domains, and constant references to entities, templates, quests,
// states, sequences and property classes against what actually exists.
// Every problem becomes a Result; nothing aborts a run.
package sanity

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/questcheck/engine/collect"
	"github.com/nathoo/questcheck/engine/domain"
	"github.com/nathoo/questcheck/engine/kinds"
	"github.com/nathoo/questcheck/engine/symbols"
	"github.com/nathoo/questcheck/engine/world"
	"github.com/nathoo/questcheck/types"
)

// Checker runs the checks and accumulates results. Not safe for concurrent
// use; a run reads the repository without locking.
type Checker struct {
	Repo      world.Repository
	Symbols   *symbols.Table
	Kinds     *kinds.Registry
	Collector *collect.Collector
	Logger    *slog.Logger
	Suggest   bool // attach "did you mean" hints to unresolved names

	sink Sink
}

// New returns a checker sharing the collector's repository, symbols and
// kind registry.
func New(c *collect.Collector) *Checker {
	return &Checker{
		Repo:      c.Repo,
		Symbols:   c.Symbols,
		Kinds:     c.Kinds,
		Collector: c,
		Logger:    c.Logger,
	}
}

// ClearResults empties the result list.
func (ch *Checker) ClearResults() {
	ch.sink.Clear()
}

// Results returns the accumulated results, valid until the next Clear or
// Check call.
func (ch *Checker) Results() []Result {
	return ch.sink.Results()
}

// CheckAll clears the results and checks templates, objects and quests in
// that order.
func (ch *Checker) CheckAll() {
	ch.ClearResults()
	ch.CheckTemplates()
	ch.CheckObjects()
	ch.CheckQuests()
}

func (ch *Checker) push(ctx Context, hint string, format string, args ...any) {
	if !ch.Suggest {
		hint = ""
	}
	ch.sink.Push(ctx, fmt.Sprintf(format, args...), hint)
}

// CheckTemplates validates parent links and every quest attachment.
func (ch *Checker) CheckTemplates() {
	for _, tpl := range ch.Repo.Templates() {
		ch.CheckTemplate(tpl)
	}
}

// CheckTemplate validates one template.
func (ch *Checker) CheckTemplate(tpl *types.Template) {
	ctx := TemplateContext(tpl.Name, "", "")
	for _, parent := range tpl.Parents {
		if _, ok := ch.Repo.FindTemplate(parent); !ok {
			ch.push(ctx, suggest(parent, ch.templateNames()),
				"Cannot find parent template '%s'!", parent)
		}
	}
	if world.Cyclic(ch.Repo, tpl) {
		ch.push(ctx, "", "Template '%s' has cyclic inheritance!", tpl.Name)
	}

	own := ch.Collector.Template(tpl)
	ch.checkConflicts(ctx, tpl, own)
	for i := range tpl.PropertyClasses {
		pc := &tpl.PropertyClasses[i]
		if pc.Name != kinds.PCQuest {
			continue
		}
		ch.checkQuestAttachment(TemplateContext(tpl.Name, pc.Name, pc.Tag), pc, own)
	}
}

// checkConflicts reports the conflicted parameters of tpl that are not
// already conflicted in one of its parents, so each conflict is reported
// where it first arises.
func (ch *Checker) checkConflicts(ctx Context, tpl *types.Template, own domain.Map) {
	var inherited []domain.Map
	for _, name := range own.Names(ch.Symbols) {
		id, _ := ch.Symbols.Lookup(name)
		if !own[id].Conflicted() {
			continue
		}
		if inherited == nil {
			inherited = []domain.Map{}
			for _, pname := range tpl.Parents {
				if parent, ok := ch.Repo.FindTemplate(pname); ok && parent.Name != tpl.Name {
					inherited = append(inherited, ch.Collector.Template(parent))
				}
			}
		}
		fromParent := false
		for _, pm := range inherited {
			if d, ok := pm[id]; ok && d.Conflicted() {
				fromParent = true
				break
			}
		}
		if !fromParent {
			ch.push(ctx, "", "Parameter '%s' has conflicting type or semantic usage!", name)
		}
	}
}

// checkQuestAttachment validates the NewQuest action of a pclogic.quest
// property class against the parameters the named quest requires.
func (ch *Checker) checkQuestAttachment(ctx Context, pc *types.PropertyClass, own domain.Map) {
	action, ok := world.FindAction(pc, kinds.ActionNewQuest)
	if !ok {
		return
	}
	name, ok := world.FindParam(action.Params, kinds.ParamQuestName)
	if !ok || name.Value == "" {
		ch.push(ctx, "", "Quest name is missing in '%s'!", kinds.ActionNewQuest)
		return
	}
	if !kinds.IsConstant(name.Value) {
		return
	}
	q, ok := ch.Repo.FindQuest(name.Value)
	if !ok {
		ch.push(ctx, suggest(name.Value, ch.questNames()), "Cannot find quest '%s'!", name.Value)
		return
	}

	var given []binding
	for _, p := range action.Params {
		if p.Name == kinds.ParamQuestName {
			continue
		}
		b := binding{param: p}
		if ref, ok := kinds.ParamName(p.Value); ok {
			if id, ok := ch.Symbols.Lookup(ref); ok {
				if d, ok := own[id]; ok {
					b.role = d.Role
				}
			}
		}
		given = append(given, b)
	}
	ch.compareParams(ctx, ch.Collector.Quest(q), given)
}

// binding is a parameter value supplied by a caller, with the role it is
// known to carry (None for literals).
type binding struct {
	param types.Parameter
	role  domain.Role
}

// compareParams reports given parameters that are not needed, have the
// wrong type or role, or refer to a conflicted domain, and required
// parameters that are missing.
func (ch *Checker) compareParams(ctx Context, required domain.Map, given []binding) {
	seen := map[symbols.ID]bool{}
	for _, b := range given {
		id, ok := ch.Symbols.Lookup(b.param.Name)
		want, found := required[id]
		if !ok || !found {
			ch.push(ctx, "", "Parameter '%s' is not needed!", b.param.Name)
			continue
		}
		seen[id] = true
		switch {
		case want.Conflicted():
			ch.push(ctx, "", "Parameter '%s' has conflicting type or semantic usage!", b.param.Name)
		case !domain.TypeMatches(want.Type, b.param.Type):
			ch.push(ctx, "", "Parameter '%s' has wrong type! Wanted %s but got %s.",
				b.param.Name, want.Type, b.param.Type)
		case !domain.Compatible(want.Role, b.role):
			ch.push(ctx, "", "Parameter '%s' has wrong role! Wanted %s but got %s.",
				b.param.Name, want.Role, b.role)
		}
	}
	for _, name := range required.Names(ch.Symbols) {
		id, _ := ch.Symbols.Lookup(name)
		if !seen[id] {
			ch.push(ctx, "", "Parameter '%s' is missing!", name)
		}
	}
}

// CheckObjects validates factory default templates and every placed object.
func (ch *Checker) CheckObjects() {
	for _, f := range ch.Repo.Factories() {
		if f.DefaultTemplate == "" {
			continue
		}
		if _, ok := ch.Repo.FindTemplate(f.DefaultTemplate); !ok {
			ch.push(FactoryContext(f.Name), suggest(f.DefaultTemplate, ch.templateNames()),
				"Cannot find default template '%s'!", f.DefaultTemplate)
		}
	}
	for _, obj := range ch.Repo.Objects() {
		ch.CheckObject(obj)
	}
}

// CheckObject validates the template and parameter bindings of one object.
func (ch *Checker) CheckObject(obj *types.Object) {
	ctx := ObjectContext(obj.ID, obj.Name, obj.Factory)
	tpl, ok := world.ResolveTemplate(ch.Repo, obj)
	if !ok {
		if obj.Name != "" {
			ch.push(ctx, ch.templateHint(obj), "Object '%s' has no matching template!", obj.Name)
		}
		return
	}

	required := ch.Collector.Template(tpl)
	given := make([]binding, 0, len(obj.Params))
	for _, p := range obj.Params {
		given = append(given, binding{param: p})
	}
	ch.compareParams(ctx, required, given)

	for _, p := range obj.Params {
		id, ok := ch.Symbols.Lookup(p.Name)
		if !ok {
			continue
		}
		want, ok := required[id]
		if !ok || want.Role != domain.RoleEntity || !kinds.IsConstant(p.Value) || p.Value == world.WorldEntity {
			continue
		}
		target, ok := ch.Repo.FindObject(p.Value)
		if !ok {
			continue
		}
		ch.checkObligations(ctx, p, target, want.Obligations)
	}
}

// checkObligations verifies that the template of the entity bound to p
// provides every property class its domain requires.
func (ch *Checker) checkObligations(ctx Context, p types.Parameter, target *types.Object, obligations domain.ObligationSet) {
	tpl, ok := world.ResolveTemplate(ch.Repo, target)
	if !ok {
		return
	}
	for _, o := range obligations.Sorted() {
		if !kinds.IsConstant(o.PropertyClass) {
			continue
		}
		tag := o.Tag
		if !kinds.IsConstant(tag) {
			tag = ""
		}
		if _, ok := world.FindPropertyClass(ch.Repo, tpl, o.PropertyClass, tag); !ok {
			ch.push(ctx, "", "Entity '%s' for parameter '%s' is missing %s!",
				p.Value, p.Name, classLabel(o.PropertyClass, tag))
		}
	}
}

func (ch *Checker) templateHint(obj *types.Object) string {
	name := obj.Template
	if name == "" {
		name = obj.Name
	}
	return suggest(name, ch.templateNames())
}

func classLabel(pc, tag string) string {
	if tag == "" {
		return pc
	}
	return fmt.Sprintf("%s (tag '%s')", pc, tag)
}

func (ch *Checker) templateNames() []string {
	var names []string
	for _, t := range ch.Repo.Templates() {
		names = append(names, t.Name)
	}
	return names
}

func (ch *Checker) questNames() []string {
	var names []string
	for _, q := range ch.Repo.Quests() {
		names = append(names, q.Name)
	}
	return names
}

func (ch *Checker) objectNames() []string {
	var names []string
	for _, o := range ch.Repo.Objects() {
		if o.Name != "" {
			names = append(names, o.Name)
		}
	}
	return names
}

// Summary counts results per context kind, e.g. "2 template, 1 quest".
func Summary(results []Result) string {
	counts := map[ContextKind]int{}
	for _, r := range results {
		counts[r.Kind]++
	}
	var parts []string
	for _, k := range []ContextKind{ContextTemplate, ContextObject, ContextFactory, ContextQuest} {
		if counts[k] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
		}
	}
	if len(parts) == 0 {
		return "no problems"
	}
	return strings.Join(parts, ", ")
}
