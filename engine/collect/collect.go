// Package collect infers the domain of every named parameter a template or
// quest uses. It walks property classes, template parents, quest states and
// sequences, and unifies each $name it finds into a domain.Map.
package collect

import (
	"log/slog"

	"github.com/nathoo/questcheck/engine/domain"
	"github.com/nathoo/questcheck/engine/kinds"
	"github.com/nathoo/questcheck/engine/symbols"
	"github.com/nathoo/questcheck/engine/world"
	"github.com/nathoo/questcheck/types"
)

// Collector builds parameter domain maps. Not safe for concurrent use.
type Collector struct {
	Repo    world.Repository
	Symbols *symbols.Table
	Kinds   *kinds.Registry
	Logger  *slog.Logger
}

// New returns a collector over repo.
func New(repo world.Repository, tbl *symbols.Table, reg *kinds.Registry, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{Repo: repo, Symbols: tbl, Kinds: reg, Logger: logger}
}

// Reference observes value as a parameter of type t and role r when it has
// the form $name. Literals, expressions, @external references and $this are
// ignored.
func (c *Collector) Reference(value string, t types.DataType, r domain.Role, out domain.Map) {
	c.observe(value, domain.New(t, r), out)
}

func (c *Collector) observe(value string, d domain.Domain, out domain.Map) {
	name, ok := kinds.ParamName(value)
	if !ok {
		return
	}
	out.Observe(c.Symbols.Intern(name), d)
}

// entityRef collects an (entity, tag) pair as one Entity parameter carrying
// an obligation for the required property class.
func (c *Collector) entityRef(ref kinds.EntityRef, b kinds.Block, out domain.Map) {
	d := domain.New(types.TypeString, domain.RoleEntity)
	tag := ""
	if ref.Tag != "" {
		tag = b.Field(ref.Tag)
		c.Reference(tag, types.TypeString, domain.RoleTag, out)
	}
	if pc := ref.RequiredClass(b); pc != "" {
		d.Obligations.Add(domain.Obligation{Tag: tag, PropertyClass: pc})
	}
	c.observe(b.Field(ref.Entity), d, out)
}

// Block collects the parameters of one trigger, reward or sequence
// operation. Unknown kinds are logged and contribute nothing.
func (c *Collector) Block(b kinds.Block, quest string, out domain.Map) {
	k, ok := c.Kinds.Lookup(b.Family, b.Kind)
	if !ok {
		c.Logger.Warn("unsupported "+b.Family.String()+" kind", "kind", b.Kind, "quest", quest)
		return
	}
	for _, ref := range k.Entities {
		c.entityRef(ref, b, out)
	}
	for _, f := range k.Fields {
		c.Reference(b.Field(f.Name), f.Type, f.Role, out)
	}
	if k.Forward {
		for _, p := range b.Params {
			c.Reference(p.Value, p.Type, domain.RoleNone, out)
		}
	}
	if b.Family == kinds.FamilySeqOp {
		c.Reference(b.Duration, types.TypeLong, domain.RoleValue, out)
	}
}

// Quest returns the domains of every parameter used by q.
func (c *Collector) Quest(q *types.Quest) domain.Map {
	out := domain.Map{}
	for _, st := range q.States {
		for _, r := range st.Init {
			c.Block(kinds.RewardBlock(r), q.Name, out)
		}
		for _, r := range st.Exit {
			c.Block(kinds.RewardBlock(r), q.Name, out)
		}
		for _, resp := range st.Responses {
			c.Block(kinds.TriggerBlock(resp.Trigger), q.Name, out)
			for _, r := range resp.Rewards {
				c.Block(kinds.RewardBlock(r), q.Name, out)
			}
		}
	}
	for _, seq := range q.Sequences {
		for _, op := range seq.Operations {
			c.Block(kinds.SeqOpBlock(op), q.Name, out)
		}
	}
	return out
}

// PropertyClass collects the parameters of one property class instance.
// For a quest attachment naming a constant quest, the roles and obligations
// that quest expects are propagated to the $names bound in NewQuest.
func (c *Collector) PropertyClass(pc *types.PropertyClass, out domain.Map) {
	for _, p := range pc.Properties {
		c.Reference(p.Value, p.Type, kinds.PropertyRole(pc.Name, p.Name), out)
	}

	var questCtx domain.Map
	if pc.Name == kinds.PCQuest {
		questCtx = c.attachedQuestParams(pc)
	}

	for _, a := range pc.Actions {
		for _, p := range a.Params {
			c.Reference(p.Value, p.Type, kinds.PropertyRole(pc.Name, p.Name), out)
			if questCtx == nil || a.Name != kinds.ActionNewQuest || p.Name == kinds.ParamQuestName {
				continue
			}
			id, ok := c.Symbols.Lookup(p.Name)
			if !ok {
				continue
			}
			want, ok := questCtx[id]
			if !ok {
				continue
			}
			role := want.Role
			if role == domain.RoleConflict {
				role = domain.RoleNone
			}
			d := domain.New(p.Type, role)
			for o := range want.Obligations {
				d.Obligations.Add(o)
			}
			c.observe(p.Value, d, out)
		}
	}
}

// attachedQuestParams returns the domains of the quest named by a
// pclogic.quest NewQuest action, or nil when it is not a known constant.
func (c *Collector) attachedQuestParams(pc *types.PropertyClass) domain.Map {
	a, ok := world.FindAction(pc, kinds.ActionNewQuest)
	if !ok {
		return nil
	}
	name, ok := world.FindParam(a.Params, kinds.ParamQuestName)
	if !ok || !kinds.IsConstant(name.Value) {
		return nil
	}
	q, ok := c.Repo.FindQuest(name.Value)
	if !ok {
		return nil
	}
	return c.Quest(q)
}

// TemplateOwn collects from tpl's own property classes and messages,
// without parents.
func (c *Collector) TemplateOwn(tpl *types.Template, out domain.Map) {
	for i := range tpl.PropertyClasses {
		c.PropertyClass(&tpl.PropertyClasses[i], out)
	}
	for _, m := range tpl.Messages {
		for _, p := range m.Params {
			c.Reference(p.Value, p.Type, domain.RoleNone, out)
		}
	}
}

// Template returns the domains of every parameter tpl and its ancestors use.
// Each ancestor contributes once even when reached through several paths or
// a cycle.
func (c *Collector) Template(tpl *types.Template) domain.Map {
	out := domain.Map{}
	world.Walk(c.Repo, tpl, func(t *types.Template) bool {
		c.TemplateOwn(t, out)
		return true
	})
	return out
}

// Object returns the parameter requirements of the template obj is
// instantiated from, or an empty map when it has none.
func (c *Collector) Object(obj *types.Object) domain.Map {
	tpl, ok := world.ResolveTemplate(c.Repo, obj)
	if !ok {
		return domain.Map{}
	}
	return c.Template(tpl)
}
