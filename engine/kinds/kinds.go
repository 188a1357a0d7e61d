// Package kinds describes the closed set of trigger, reward and sequence
// operation kinds as declarative schemas. Each schema says which fields
// carry parameters, which fields name entities (and what property class that
// entity must provide) and which fields name templates. The collector and
// the checker both walk these schemas instead of branching on kind names.
package kinds

import (
	"sort"
	"strings"

	"github.com/nathoo/questcheck/engine/domain"
	"github.com/nathoo/questcheck/types"
)

// Family groups the kinds of one quest building block.
type Family int

const (
	FamilyTrigger Family = iota
	FamilyReward
	FamilySeqOp
)

func (f Family) String() string {
	switch f {
	case FamilyTrigger:
		return "trigger"
	case FamilyReward:
		return "reward"
	case FamilySeqOp:
		return "seqop"
	}
	return "unknown"
}

// Field is a parameter-bearing field with its declared type and role.
type Field struct {
	Name string
	Type types.DataType
	Role domain.Role
}

// EntityRef is a composite (entity, tag, property class) reference. The
// entity field is collected as one Entity parameter carrying an obligation
// for the property class, and constant entities are checked for existence.
type EntityRef struct {
	Entity        string // field naming the entity
	Tag           string // field naming the property class tag, optional
	PropertyClass string // field naming the property class, optional
	Default       string // property class used when PropertyClass is unset or empty
}

// RequiredClass returns the property class the entity must provide for
// block b, or "" when the reference carries no obligation.
func (r EntityRef) RequiredClass(b Block) string {
	if r.PropertyClass != "" {
		if pc := b.Field(r.PropertyClass); pc != "" {
			return pc
		}
	}
	return r.Default
}

// Kind is the schema of one trigger, reward or sequence operation kind.
type Kind struct {
	Name      string
	Family    Family
	Fields    []Field
	Entities  []EntityRef
	Templates []string // fields naming templates
	Forward   bool     // the block's Params are forwarded to a receiver
}

// Block is one trigger, reward or sequence operation instance.
type Block struct {
	Family   Family
	Kind     string
	Fields   map[string]string
	Params   []types.Parameter
	Duration string
}

// Field returns the value of field name, or "".
func (b Block) Field(name string) string {
	return b.Fields[name]
}

// TriggerBlock wraps a trigger definition.
func TriggerBlock(t types.TriggerDef) Block {
	return Block{Family: FamilyTrigger, Kind: t.Kind, Fields: t.Fields}
}

// RewardBlock wraps a reward definition.
func RewardBlock(r types.RewardDef) Block {
	return Block{Family: FamilyReward, Kind: r.Kind, Fields: r.Fields, Params: r.Params}
}

// SeqOpBlock wraps a sequence operation definition.
func SeqOpBlock(op types.SeqOpDef) Block {
	return Block{Family: FamilySeqOp, Kind: op.Kind, Fields: op.Fields, Duration: op.Duration}
}

// Registry maps kind names to schemas, per family.
type Registry struct {
	kinds map[Family]map[string]Kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: map[Family]map[string]Kind{}}
}

// Register adds or replaces a kind.
func (r *Registry) Register(k Kind) {
	fam, ok := r.kinds[k.Family]
	if !ok {
		fam = map[string]Kind{}
		r.kinds[k.Family] = fam
	}
	fam[k.Name] = k
}

// Lookup finds the schema of a kind.
func (r *Registry) Lookup(f Family, name string) (Kind, bool) {
	k, ok := r.kinds[f][name]
	return k, ok
}

// Families returns the families that have at least one kind.
func (r *Registry) Families() []Family {
	var out []Family
	for _, f := range []Family{FamilyTrigger, FamilyReward, FamilySeqOp} {
		if len(r.kinds[f]) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the kind names of a family, sorted.
func (r *Registry) Names(f Family) []string {
	names := make([]string, 0, len(r.kinds[f]))
	for name := range r.kinds[f] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value prefixes.
const (
	ParamPrefix    = '$'
	ExternalPrefix = '@'
	ExprPrefix     = '='
)

// IsConstant reports whether v is a literal that should be resolved:
// non-empty and not a parameter, external reference or expression.
func IsConstant(v string) bool {
	if v == "" {
		return false
	}
	switch v[0] {
	case ParamPrefix, ExternalPrefix, ExprPrefix:
		return false
	}
	return true
}

// ParamName returns the parameter name referenced by v when v has the form
// $name. External references, expressions, literals and $this yield false.
func ParamName(v string) (string, bool) {
	if len(v) < 2 || v[0] != ParamPrefix {
		return "", false
	}
	name := strings.TrimSpace(v[1:])
	if name == "" || name == "this" {
		return "", false
	}
	return name, true
}

// IsSelf reports whether an entity field points at the entity owning the
// quest: empty or $this.
func IsSelf(v string) bool {
	return v == "" || v == "$this"
}
