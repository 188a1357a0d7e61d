package sanity

import (
	"github.com/nathoo/questcheck/engine/kinds"
	"github.com/nathoo/questcheck/engine/world"
	"github.com/nathoo/questcheck/types"
)

// blockCheck is a kind-specific check run after the schema checks.
type blockCheck func(ch *Checker, ctx Context, q *types.Quest, b kinds.Block)

// blockChecks holds the extra checks keyed by family and kind name.
var blockChecks = map[kinds.Family]map[string]blockCheck{
	kinds.FamilyTrigger: {
		"sequencefinish": checkSequenceRef,
	},
	kinds.FamilyReward: {
		"newstate":       checkNewState,
		"sequence":       checkSequenceRef,
		"sequencefinish": checkSequenceRef,
	},
}

// CheckQuests validates every trigger, reward and sequence operation of
// every quest.
func (ch *Checker) CheckQuests() {
	for _, q := range ch.Repo.Quests() {
		ch.CheckQuest(q)
	}
}

// CheckQuest validates one quest: conflicted parameters first, then every
// block.
func (ch *Checker) CheckQuest(q *types.Quest) {
	ctx := QuestContext(q.Name)
	params := ch.Collector.Quest(q)
	for _, name := range params.Names(ch.Symbols) {
		id, _ := ch.Symbols.Lookup(name)
		if params[id].Conflicted() {
			ch.push(ctx, "", "Parameter '%s' has conflicting type or semantic usage!", name)
		}
	}
	for _, st := range q.States {
		for _, r := range st.Init {
			ch.checkBlock(ctx, q, kinds.RewardBlock(r))
		}
		for _, r := range st.Exit {
			ch.checkBlock(ctx, q, kinds.RewardBlock(r))
		}
		for _, resp := range st.Responses {
			ch.checkBlock(ctx, q, kinds.TriggerBlock(resp.Trigger))
			for _, r := range resp.Rewards {
				ch.checkBlock(ctx, q, kinds.RewardBlock(r))
			}
		}
	}
	for _, seq := range q.Sequences {
		for _, op := range seq.Operations {
			ch.checkBlock(ctx, q, kinds.SeqOpBlock(op))
		}
	}
}

func (ch *Checker) checkBlock(ctx Context, q *types.Quest, b kinds.Block) {
	k, ok := ch.Kinds.Lookup(b.Family, b.Kind)
	if !ok {
		ch.Logger.Warn("unsupported "+b.Family.String()+" kind", "kind", b.Kind, "quest", q.Name)
		return
	}
	for _, ref := range k.Entities {
		ch.checkEntityRef(ctx, ref, b)
	}
	for _, field := range k.Templates {
		name := b.Field(field)
		if !kinds.IsConstant(name) {
			continue
		}
		if _, ok := ch.Repo.FindTemplate(name); !ok {
			ch.push(ctx, suggest(name, ch.templateNames()),
				"Cannot find template '%s' for '%s'!", name, b.Kind)
		}
	}
	if check, ok := blockChecks[b.Family][b.Kind]; ok {
		check(ch, ctx, q, b)
	}
}

// checkEntityRef resolves a constant entity and, when the reference names a
// constant property class, verifies the entity's template provides it.
func (ch *Checker) checkEntityRef(ctx Context, ref kinds.EntityRef, b kinds.Block) {
	name := b.Field(ref.Entity)
	if !kinds.IsConstant(name) || name == world.WorldEntity {
		return
	}
	obj, ok := ch.Repo.FindObject(name)
	if !ok {
		ch.push(ctx, suggest(name, ch.objectNames()), "Cannot find entity '%s' for '%s'!", name, b.Kind)
		return
	}
	pc := ref.RequiredClass(b)
	if !kinds.IsConstant(pc) {
		return
	}
	tag := ""
	if ref.Tag != "" && kinds.IsConstant(b.Field(ref.Tag)) {
		tag = b.Field(ref.Tag)
	}
	tpl, ok := world.ResolveTemplate(ch.Repo, obj)
	if ok {
		if _, ok := world.FindPropertyClass(ch.Repo, tpl, pc, tag); ok {
			return
		}
	}
	ch.push(ctx, "", "Cannot find %s in entity '%s' for '%s'!", classLabel(pc, tag), name, b.Kind)
}

// targetQuest returns the quest a block addresses: the current quest when
// the entity is implicit, else the quest attached to the named entity. It
// returns false when the quest cannot be determined statically; missing
// entities and property classes are reported by checkEntityRef.
func (ch *Checker) targetQuest(q *types.Quest, b kinds.Block) (*types.Quest, bool) {
	entity := b.Field("entity")
	if kinds.IsSelf(entity) {
		return q, true
	}
	if !kinds.IsConstant(entity) || entity == world.WorldEntity {
		return nil, false
	}
	obj, ok := ch.Repo.FindObject(entity)
	if !ok {
		return nil, false
	}
	tpl, ok := world.ResolveTemplate(ch.Repo, obj)
	if !ok {
		return nil, false
	}
	tag := b.Field("tag")
	if !kinds.IsConstant(tag) {
		tag = ""
	}
	pc, ok := world.FindPropertyClass(ch.Repo, tpl, kinds.PCQuest, tag)
	if !ok {
		return nil, false
	}
	action, ok := world.FindAction(pc, kinds.ActionNewQuest)
	if !ok {
		return nil, false
	}
	name, ok := world.FindParam(action.Params, kinds.ParamQuestName)
	if !ok || !kinds.IsConstant(name.Value) {
		return nil, false
	}
	return ch.Repo.FindQuest(name.Value)
}

func checkNewState(ch *Checker, ctx Context, q *types.Quest, b kinds.Block) {
	state := b.Field("state")
	if !kinds.IsConstant(state) {
		return
	}
	target, ok := ch.targetQuest(q, b)
	if !ok || world.HasState(target, state) {
		return
	}
	ch.push(ctx, suggest(state, world.StateNames(target)),
		"Cannot find state '%s' in quest '%s' for '%s'!", state, target.Name, b.Kind)
}

func checkSequenceRef(ch *Checker, ctx Context, q *types.Quest, b kinds.Block) {
	seq := b.Field("sequence")
	if !kinds.IsConstant(seq) {
		return
	}
	target, ok := ch.targetQuest(q, b)
	if !ok || world.HasSequence(target, seq) {
		return
	}
	ch.push(ctx, suggest(seq, world.SequenceNames(target)),
		"Cannot find sequence '%s' in quest '%s' for '%s'!", seq, target.Name, b.Kind)
}
