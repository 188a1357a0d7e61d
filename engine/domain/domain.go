// Package domain holds the inferred domain of a named parameter: its storage
// type, its semantic role and the property classes the entity bound to it
// must provide. Domains are merged with Observe, which is commutative and
// idempotent.
package domain

import (
	"sort"

	"github.com/nathoo/questcheck/engine/symbols"
	"github.com/nathoo/questcheck/types"
)

// Role is what a parameter means, independent of how it is stored.
type Role int

const (
	RoleNone Role = iota
	RoleConflict
	RoleEntity
	RoleTemplate
	RoleTag
	RolePropertyClass
	RoleMessage
	RoleSector
	RoleNode
	RoleProperty
	RoleSequence
	RoleCsSequence
	RoleState
	RoleClass
	RoleValue
	RoleVector3Component
	RoleColorComponent
)

var roleNames = [...]string{
	RoleNone:             "none",
	RoleConflict:         "conflict",
	RoleEntity:           "entity",
	RoleTemplate:         "template",
	RoleTag:              "tag",
	RolePropertyClass:    "propertyclass",
	RoleMessage:          "message",
	RoleSector:           "sector",
	RoleNode:             "node",
	RoleProperty:         "property",
	RoleSequence:         "sequence",
	RoleCsSequence:       "cssequence",
	RoleState:            "state",
	RoleClass:            "class",
	RoleValue:            "value",
	RoleVector3Component: "vector3component",
	RoleColorComponent:   "colorcomponent",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "invalid"
	}
	return roleNames[r]
}

// Simplify folds the component roles into Value.
func (r Role) Simplify() Role {
	switch r {
	case RoleVector3Component, RoleColorComponent:
		return RoleValue
	}
	return r
}

// Compatible reports whether a value with role given may be bound where
// role required is expected. None on either side and Conflict on either
// side accept anything.
func Compatible(required, given Role) bool {
	if required == RoleNone || given == RoleNone {
		return true
	}
	if required == RoleConflict || given == RoleConflict {
		return true
	}
	return required.Simplify() == given.Simplify()
}

// TypeMatches reports whether a value of type given satisfies type required.
// None and Unknown on either side match anything.
func TypeMatches(required, given types.DataType) bool {
	if required == types.TypeNone || required == types.TypeUnknown {
		return true
	}
	if given == types.TypeNone || given == types.TypeUnknown {
		return true
	}
	return required == given
}

// Obligation records that whoever supplies an entity must expose the
// property class PropertyClass, tagged Tag. Both members may be literals or
// parameter references.
type Obligation struct {
	Tag           string
	PropertyClass string
}

// ObligationSet is an unordered set of obligations.
type ObligationSet map[Obligation]struct{}

// Add inserts o. Duplicates collapse.
func (s ObligationSet) Add(o Obligation) {
	s[o] = struct{}{}
}

// Sorted returns the obligations ordered by property class, then tag.
func (s ObligationSet) Sorted() []Obligation {
	out := make([]Obligation, 0, len(s))
	for o := range s {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PropertyClass != out[j].PropertyClass {
			return out[i].PropertyClass < out[j].PropertyClass
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// Equal reports whether both sets hold the same obligations.
func (s ObligationSet) Equal(other ObligationSet) bool {
	if len(s) != len(other) {
		return false
	}
	for o := range s {
		if _, ok := other[o]; !ok {
			return false
		}
	}
	return true
}

func (s ObligationSet) clone() ObligationSet {
	out := make(ObligationSet, len(s))
	for o := range s {
		out[o] = struct{}{}
	}
	return out
}

// Domain is the inferred type, role and obligations of one parameter.
type Domain struct {
	Type        types.DataType
	Role        Role
	Obligations ObligationSet
}

// New returns a domain with the given type and role and no obligations.
func New(t types.DataType, r Role, obligations ...Obligation) Domain {
	d := Domain{Type: t, Role: r, Obligations: ObligationSet{}}
	for _, o := range obligations {
		d.Obligations.Add(o)
	}
	return d
}

// Conflicted reports whether the domain has been poisoned.
func (d Domain) Conflicted() bool {
	return d.Role == RoleConflict
}

// Clone returns a deep copy of d.
func (d Domain) Clone() Domain {
	d.Obligations = d.Obligations.clone()
	return d
}

// Unify combines two observations of the same parameter. Unknown joins any
// concrete type without a conflict: a field declared Unknown pins nothing.
func Unify(a, b Domain) Domain {
	out := Domain{Obligations: a.Obligations.clone()}
	for o := range b.Obligations {
		out.Obligations.Add(o)
	}

	t, typeOK := joinType(a.Type, b.Type)
	out.Type = t
	if a.Conflicted() || b.Conflicted() || !typeOK {
		out.Role = RoleConflict
		return out
	}

	switch {
	case a.Role == RoleNone || b.Role == RoleNone:
		out.Role = max(a.Role, b.Role)
	case a.Role.Simplify() != b.Role.Simplify():
		out.Role = RoleConflict
	default:
		// Same simplified role: the component roles sort after Value.
		out.Role = max(a.Role, b.Role)
	}
	return out
}

// joinType merges two storage types. It returns false when they clash.
func joinType(a, b types.DataType) (types.DataType, bool) {
	switch {
	case a == b:
		return a, true
	case a == types.TypeNone:
		return b, true
	case b == types.TypeNone:
		return a, true
	case a == types.TypeUnknown || b == types.TypeUnknown:
		return types.TypeUnknown, true
	}
	return types.TypeUnknown, false
}

// Map holds the domains of a set of parameters keyed by interned name.
type Map map[symbols.ID]Domain

// Observe records a new observation for id. The first observation is stored
// as is; later ones are unified into it.
func (m Map) Observe(id symbols.ID, d Domain) {
	if d.Obligations == nil {
		d.Obligations = ObligationSet{}
	}
	prev, ok := m[id]
	if !ok {
		m[id] = d.Clone()
		return
	}
	m[id] = Unify(prev, d)
}

// Merge observes every entry of other.
func (m Map) Merge(other Map) {
	for id, d := range other {
		m.Observe(id, d)
	}
}

// Names returns the interned names of m sorted alphabetically.
func (m Map) Names(tbl *symbols.Table) []string {
	names := make([]string, 0, len(m))
	for id := range m {
		names = append(names, tbl.Name(id))
	}
	sort.Strings(names)
	return names
}
