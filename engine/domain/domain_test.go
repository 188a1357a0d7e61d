package domain

import (
	"testing"

	"github.com/nathoo/questcheck/types"
)

// samples covers every role against a handful of types, with and without
// obligations, including already conflicted domains.
func samples() []Domain {
	var out []Domain
	typs := []types.DataType{types.TypeNone, types.TypeString, types.TypeFloat, types.TypeLong, types.TypeUnknown}
	for r := RoleNone; r <= RoleColorComponent; r++ {
		for _, typ := range typs {
			out = append(out, New(typ, r))
		}
	}
	out = append(out,
		New(types.TypeString, RoleEntity, Obligation{PropertyClass: "pcobject.mesh"}),
		New(types.TypeString, RoleEntity, Obligation{Tag: "main", PropertyClass: "pclogic.quest"}),
		New(types.TypeString, RoleNone, Obligation{PropertyClass: "pctools.properties"}),
	)
	return out
}

func sameFinal(a, b Domain) bool {
	return a.Type == b.Type &&
		a.Role.Simplify() == b.Role.Simplify() &&
		a.Obligations.Equal(b.Obligations)
}

func TestUnify_Commutative(t *testing.T) {
	for _, a := range samples() {
		for _, b := range samples() {
			ab := Map{}
			ab.Observe(1, a)
			ab.Observe(1, b)
			ba := Map{}
			ba.Observe(1, b)
			ba.Observe(1, a)
			if !sameFinal(ab[1], ba[1]) {
				t.Errorf("unify(%v/%v, %v/%v) = %v/%v, reversed = %v/%v",
					a.Type, a.Role, b.Type, b.Role,
					ab[1].Type, ab[1].Role, ba[1].Type, ba[1].Role)
			}
		}
	}
}

func TestUnify_Idempotent(t *testing.T) {
	for _, d := range samples() {
		got := Unify(d, d)
		if got.Type != d.Type || got.Role != d.Role || !got.Obligations.Equal(d.Obligations) {
			t.Errorf("Unify(%v/%v, same) = %v/%v", d.Type, d.Role, got.Type, got.Role)
		}
	}
}

func TestUnify_ConflictIsTerminal(t *testing.T) {
	for _, a := range samples() {
		m := Map{}
		m.Observe(1, New(types.TypeString, RoleEntity))
		m.Observe(1, New(types.TypeFloat, RoleValue))
		if !m[1].Conflicted() {
			t.Fatalf("string/entity vs float/value should conflict, got %v", m[1].Role)
		}
		m.Observe(1, a)
		if !m[1].Conflicted() {
			t.Errorf("observing %v/%v healed a conflict to %v", a.Type, a.Role, m[1].Role)
		}
	}
}

func TestUnify_Rules(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Domain
		wantType types.DataType
		wantRole Role
	}{
		{"type clash", New(types.TypeLong, RoleValue), New(types.TypeFloat, RoleValue), types.TypeUnknown, RoleConflict},
		{"none type adopts", New(types.TypeNone, RoleEntity), New(types.TypeString, RoleNone), types.TypeString, RoleEntity},
		{"unknown absorbs", New(types.TypeUnknown, RoleValue), New(types.TypeFloat, RoleValue), types.TypeUnknown, RoleValue},
		{"role clash", New(types.TypeString, RoleEntity), New(types.TypeString, RoleTemplate), types.TypeString, RoleConflict},
		{"none role loses", New(types.TypeString, RoleNone), New(types.TypeString, RoleSector), types.TypeString, RoleSector},
		{"component refines value", New(types.TypeFloat, RoleValue), New(types.TypeFloat, RoleVector3Component), types.TypeFloat, RoleVector3Component},
		{"value keeps component", New(types.TypeFloat, RoleColorComponent), New(types.TypeFloat, RoleValue), types.TypeFloat, RoleColorComponent},
	}
	for _, tt := range tests {
		got := Unify(tt.a, tt.b)
		if got.Type != tt.wantType || got.Role != tt.wantRole {
			t.Errorf("%s: got %v/%v, want %v/%v", tt.name, got.Type, got.Role, tt.wantType, tt.wantRole)
		}
	}
}

func TestObserve_UnionsObligations(t *testing.T) {
	mesh := Obligation{PropertyClass: "pcobject.mesh"}
	props := Obligation{Tag: "stats", PropertyClass: "pctools.properties"}

	m := Map{}
	m.Observe(3, New(types.TypeString, RoleEntity, mesh))
	m.Observe(3, New(types.TypeString, RoleEntity, mesh, props))
	m.Observe(3, New(types.TypeString, RoleNone, props))

	got := m[3].Obligations.Sorted()
	if len(got) != 2 {
		t.Fatalf("expected 2 obligations, got %v", got)
	}
	if got[0] != mesh || got[1] != props {
		t.Errorf("Sorted = %v, want [%v %v]", got, mesh, props)
	}
}

func TestObserve_DoesNotAliasInput(t *testing.T) {
	in := New(types.TypeString, RoleEntity, Obligation{PropertyClass: "pcobject.mesh"})
	m := Map{}
	m.Observe(1, in)
	m.Observe(1, New(types.TypeString, RoleEntity, Obligation{PropertyClass: "pcobject.light"}))
	if len(in.Obligations) != 1 {
		t.Errorf("input obligations mutated: %v", in.Obligations)
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		required, given Role
		want            bool
	}{
		{RoleNone, RoleEntity, true},
		{RoleEntity, RoleNone, true},
		{RoleEntity, RoleEntity, true},
		{RoleEntity, RoleTemplate, false},
		{RoleValue, RoleVector3Component, true},
		{RoleColorComponent, RoleValue, true},
		{RoleConflict, RoleSector, true},
	}
	for _, tt := range tests {
		if got := Compatible(tt.required, tt.given); got != tt.want {
			t.Errorf("Compatible(%v, %v) = %v, want %v", tt.required, tt.given, got, tt.want)
		}
	}
}

func TestTypeMatches(t *testing.T) {
	if !TypeMatches(types.TypeUnknown, types.TypeLong) {
		t.Error("unknown requirement should accept long")
	}
	if !TypeMatches(types.TypeFloat, types.TypeNone) {
		t.Error("untyped value should be accepted")
	}
	if TypeMatches(types.TypeFloat, types.TypeLong) {
		t.Error("float requirement should reject long")
	}
}

func TestRoleString(t *testing.T) {
	if RoleCsSequence.String() != "cssequence" {
		t.Errorf("RoleCsSequence = %q", RoleCsSequence.String())
	}
	if Role(99).String() != "invalid" {
		t.Errorf("Role(99) = %q", Role(99).String())
	}
}
