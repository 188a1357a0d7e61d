package kinds

import (
	"github.com/nathoo/questcheck/engine/domain"
	"github.com/nathoo/questcheck/types"
)

// Property class names with special meaning to the checker.
const (
	PCQuest      = "pclogic.quest"
	PCProperties = "pctools.properties"
	PCInventory  = "pctools.inventory"
	PCTrigger    = "pclogic.trigger"
	PCMesh       = "pcobject.mesh"
	PCLight      = "pcobject.light"

	ActionNewQuest = "NewQuest"
	ParamQuestName = "name"
)

func str(name string, role domain.Role) Field {
	return Field{Name: name, Type: types.TypeString, Role: role}
}

func val(name string, t types.DataType) Field {
	return Field{Name: name, Type: t, Role: domain.RoleValue}
}

func entity(pc string) EntityRef {
	return EntityRef{Entity: "entity", Tag: "tag", Default: pc}
}

// Default returns the registry of all built-in kinds.
func Default() *Registry {
	r := NewRegistry()
	for _, k := range triggers() {
		k.Family = FamilyTrigger
		r.Register(k)
	}
	for _, k := range rewards() {
		k.Family = FamilyReward
		r.Register(k)
	}
	for _, k := range seqOps() {
		k.Family = FamilySeqOp
		r.Register(k)
	}
	return r
}

func triggers() []Kind {
	return []Kind{
		{
			Name:     "entersector",
			Entities: []EntityRef{entity("")},
			Fields:   []Field{str("sector", domain.RoleSector)},
		},
		{
			Name:     "meshentersector",
			Entities: []EntityRef{entity(PCMesh)},
			Fields:   []Field{str("sector", domain.RoleSector)},
		},
		{
			Name:     "meshselect",
			Entities: []EntityRef{entity(PCMesh)},
		},
		{
			Name:      "inventory",
			Entities:  []EntityRef{entity(PCInventory), {Entity: "child_entity"}},
			Fields:    []Field{str("child_template", domain.RoleTemplate)},
			Templates: []string{"child_template"},
		},
		{
			Name:     "message",
			Entities: []EntityRef{entity("")},
			Fields:   []Field{str("mask", domain.RoleMessage)},
		},
		{
			Name:     "propertychange",
			Entities: []EntityRef{entity(PCProperties)},
			Fields: []Field{
				str("property", domain.RoleProperty),
				{Name: "value", Type: types.TypeUnknown, Role: domain.RoleValue},
				str("operation", domain.RoleNone),
			},
		},
		{
			Name:     "sequencefinish",
			Entities: []EntityRef{entity(PCQuest)},
			Fields:   []Field{str("sequence", domain.RoleSequence)},
		},
		{
			Name:   "timeout",
			Fields: []Field{val("timeout", types.TypeLong)},
		},
		{
			Name:     "trigger",
			Entities: []EntityRef{entity(PCTrigger)},
		},
		{
			Name: "watch",
			Entities: []EntityRef{
				entity(PCMesh),
				{Entity: "target", Tag: "target_tag", Default: PCMesh},
			},
			Fields: []Field{
				val("time", types.TypeLong),
				val("radius", types.TypeFloat),
				val("offset", types.TypeVector3),
			},
		},
	}
}

func rewards() []Kind {
	return []Kind{
		{
			Name:   "debugprint",
			Fields: []Field{str("message", domain.RoleNone)},
		},
		{
			Name:     "newstate",
			Entities: []EntityRef{entity(PCQuest)},
			Fields:   []Field{str("state", domain.RoleState)},
		},
		{
			Name: "changeproperty",
			Entities: []EntityRef{
				{Entity: "entity", Tag: "pctag", PropertyClass: "pc", Default: PCProperties},
			},
			Fields: []Field{
				str("tag", domain.RoleTag),
				str("pc", domain.RolePropertyClass),
				str("pctag", domain.RoleTag),
				str("class", domain.RoleClass),
				str("property", domain.RoleProperty),
				val("string", types.TypeString),
				val("long", types.TypeLong),
				val("float", types.TypeFloat),
				val("bool", types.TypeBool),
				val("vector2", types.TypeVector2),
				val("vector3", types.TypeVector3),
				val("color", types.TypeColor),
				{Name: "diff", Type: types.TypeBool},
				{Name: "toggle", Type: types.TypeBool},
			},
		},
		{
			Name:     "inventory",
			Entities: []EntityRef{entity(PCInventory), {Entity: "child_entity"}},
			Fields:   []Field{str("child_tag", domain.RoleTag)},
		},
		{
			Name:     "sequence",
			Entities: []EntityRef{entity(PCQuest)},
			Fields:   []Field{str("sequence", domain.RoleSequence), val("delay", types.TypeLong)},
		},
		{
			Name:     "sequencefinish",
			Entities: []EntityRef{entity(PCQuest)},
			Fields:   []Field{str("sequence", domain.RoleSequence)},
		},
		{
			Name:   "cssequence",
			Fields: []Field{str("sequence", domain.RoleCsSequence), val("delay", types.TypeLong)},
		},
		{
			Name:     "message",
			Entities: []EntityRef{entity("")},
			Fields:   []Field{str("class", domain.RoleClass), str("id", domain.RoleMessage)},
			Forward:  true,
		},
		{
			Name: "action",
			Entities: []EntityRef{
				{Entity: "entity", Tag: "pctag", PropertyClass: "pc"},
			},
			Fields: []Field{
				str("tag", domain.RoleTag),
				str("class", domain.RoleClass),
				str("pc", domain.RolePropertyClass),
				str("pctag", domain.RoleTag),
				str("id", domain.RoleNone),
			},
			Forward: true,
		},
		{
			Name:     "destroyentity",
			Entities: []EntityRef{{Entity: "entity"}},
			Fields:   []Field{str("class", domain.RoleClass)},
		},
		{
			Name:      "createentity",
			Fields:    []Field{str("template", domain.RoleTemplate), str("name", domain.RoleNone)},
			Templates: []string{"template"},
			Forward:   true,
		},
	}
}

func seqOps() []Kind {
	return []Kind{
		{
			Name:   "debugprint",
			Fields: []Field{str("message", domain.RoleNone)},
		},
		{
			Name:     "ambientmesh",
			Entities: []EntityRef{entity(PCMesh)},
			Fields:   []Field{val("relcolor", types.TypeColor), val("abscolor", types.TypeColor)},
		},
		{
			Name:     "light",
			Entities: []EntityRef{entity(PCLight)},
			Fields:   []Field{val("relcolor", types.TypeColor), val("abscolor", types.TypeColor)},
		},
		{
			Name:     "movepath",
			Entities: []EntityRef{entity(PCMesh)},
			Fields: []Field{
				str("sector", domain.RoleSector),
				str("node", domain.RoleNode),
				val("time", types.TypeFloat),
			},
		},
		{
			Name:     "transform",
			Entities: []EntityRef{entity(PCMesh)},
			Fields: []Field{
				val("vector", types.TypeVector3),
				val("rot_axis", types.TypeLong),
				val("rot_angle", types.TypeFloat),
			},
		},
		{
			Name: "property",
			Entities: []EntityRef{
				{Entity: "entity", Tag: "tag", PropertyClass: "pc", Default: PCProperties},
			},
			Fields: []Field{
				str("pc", domain.RolePropertyClass),
				str("property", domain.RoleProperty),
				val("float", types.TypeFloat),
				val("long", types.TypeLong),
				val("vector2", types.TypeVector2),
				val("vector3", types.TypeVector3),
				{Name: "relative", Type: types.TypeBool},
			},
		},
	}
}

// propertyClassRoles gives the role of named properties and action
// parameters per property class. Names not listed have no role.
var propertyClassRoles = map[string]map[string]domain.Role{
	"pclogic.spawn": {
		"template": domain.RoleTemplate,
		"sector":   domain.RoleSector,
		"node":     domain.RoleNode,
	},
	PCTrigger: {
		"sector":  domain.RoleSector,
		"monitor": domain.RoleEntity,
		"class":   domain.RoleClass,
		"radius":  domain.RoleValue,
	},
	PCMesh: {
		"sector":   domain.RoleSector,
		"node":     domain.RoleNode,
		"position": domain.RoleValue,
		"x":        domain.RoleVector3Component,
		"y":        domain.RoleVector3Component,
		"z":        domain.RoleVector3Component,
	},
	PCLight: {
		"red":    domain.RoleColorComponent,
		"green":  domain.RoleColorComponent,
		"blue":   domain.RoleColorComponent,
		"radius": domain.RoleValue,
	},
	PCInventory: {
		"child": domain.RoleEntity,
	},
	"pcmove.linear": {
		"sector":   domain.RoleSector,
		"position": domain.RoleValue,
	},
	"pcmove.actor": {
		"speed": domain.RoleValue,
	},
	"pcobject.mesh.select": {
		"button": domain.RoleValue,
	},
	PCQuest: {
		"name": domain.RoleNone,
	},
}

// PropertyRole returns the role of property or action parameter param on
// property class pc.
func PropertyRole(pc, param string) domain.Role {
	return propertyClassRoles[pc][param]
}
