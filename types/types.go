// Package types defines the shared data structures for the questcheck world model.
// This package contains only type definitions and their names, no analysis logic.
package types

// DataType is the storage type of a property or parameter value.
type DataType int

const (
	TypeNone DataType = iota
	TypeBool
	TypeLong
	TypeFloat
	TypeVector2
	TypeVector3
	TypeString
	TypeColor
	TypeUnknown // accept any type without checking
)

var dataTypeNames = [...]string{
	TypeNone:    "none",
	TypeBool:    "bool",
	TypeLong:    "long",
	TypeFloat:   "float",
	TypeVector2: "vector2",
	TypeVector3: "vector3",
	TypeString:  "string",
	TypeColor:   "color",
	TypeUnknown: "unknown",
}

func (t DataType) String() string {
	if t < 0 || int(t) >= len(dataTypeNames) {
		return "invalid"
	}
	return dataTypeNames[t]
}

// ParseDataType maps a lowercase type name back to a DataType.
func ParseDataType(s string) (DataType, bool) {
	for i, name := range dataTypeNames {
		if name == s {
			return DataType(i), true
		}
	}
	return TypeNone, false
}

// Parameter is a named, typed value binding. Value is either a literal,
// a parameter reference ($name), an external reference (@name) or an
// expression (=...).
type Parameter struct {
	Name  string
	Type  DataType
	Value string
}

// Action is a named event on a property class carrying parameter bindings.
type Action struct {
	Name   string
	Params []Parameter
}

// PropertyClass is a named, optionally tagged component attached to a template.
type PropertyClass struct {
	Name       string
	Tag        string
	Properties []Parameter
	Actions    []Action
}

// Message is a message definition sent by a template when instantiated.
type Message struct {
	ID     string
	Params []Parameter
}

// Template is a reusable entity definition with multi-parent inheritance.
type Template struct {
	Name            string
	Parents         []string
	PropertyClasses []PropertyClass
	Messages        []Message
	Classes         []string
}

// TriggerDef is one trigger instance of a quest state response.
type TriggerDef struct {
	Kind   string
	Fields map[string]string
}

// RewardDef is one reward instance. Params carries the sub-parameters of
// kinds that forward values (message, action, createentity).
type RewardDef struct {
	Kind   string
	Fields map[string]string
	Params []Parameter
}

// SeqOpDef is one timed operation of a sequence.
type SeqOpDef struct {
	Kind     string
	Fields   map[string]string
	Duration string
}

// Response pairs a trigger with the rewards fired when it triggers.
type Response struct {
	Trigger TriggerDef
	Rewards []RewardDef
}

// State is a named quest state.
type State struct {
	Name      string
	Init      []RewardDef
	Exit      []RewardDef
	Responses []Response
}

// Sequence is an ordered list of timed operations owned by a quest.
type Sequence struct {
	Name       string
	Operations []SeqOpDef
}

// Quest is a quest factory: a state machine plus its sequences.
type Quest struct {
	Name      string
	States    []State
	Sequences []Sequence
}

// Factory is the mesh factory a placed object is created from.
type Factory struct {
	Name            string
	DefaultTemplate string // optional
}

// Object is a placed object instance in a world cell.
type Object struct {
	ID       int
	Name     string // optional
	Factory  string
	Template string // optional explicit template link
	Cell     string
	Params   []Parameter
}

// Cell is a world cell (sector) holding placed objects.
type Cell struct {
	Name    string
	Objects []Object
}
