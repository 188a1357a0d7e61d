package world

import "github.com/nathoo/questcheck/types"

// ResolveTemplate finds the template an object is instantiated from: its
// explicit template link, else its factory's default template, else a
// template named like the factory.
func ResolveTemplate(repo Repository, obj *types.Object) (*types.Template, bool) {
	if obj.Template != "" {
		return repo.FindTemplate(obj.Template)
	}
	if f, ok := repo.FindFactory(obj.Factory); ok && f.DefaultTemplate != "" {
		if tpl, ok := repo.FindTemplate(f.DefaultTemplate); ok {
			return tpl, true
		}
	}
	return repo.FindTemplate(obj.Factory)
}

// Walk visits tpl and then its ancestors depth-first in parent order. Each
// template is visited at most once, so cycles and diamonds terminate.
// Unknown parent names are skipped. Returning false from fn stops the walk.
func Walk(repo Repository, tpl *types.Template, fn func(*types.Template) bool) {
	walk(repo, tpl, map[string]bool{}, fn)
}

func walk(repo Repository, tpl *types.Template, visited map[string]bool, fn func(*types.Template) bool) bool {
	if visited[tpl.Name] {
		return true
	}
	visited[tpl.Name] = true
	if !fn(tpl) {
		return false
	}
	for _, name := range tpl.Parents {
		parent, ok := repo.FindTemplate(name)
		if !ok {
			continue
		}
		if !walk(repo, parent, visited, fn) {
			return false
		}
	}
	return true
}

// Cyclic reports whether tpl can reach itself through its parents.
func Cyclic(repo Repository, tpl *types.Template) bool {
	found := false
	visited := map[string]bool{}
	for _, name := range tpl.Parents {
		parent, ok := repo.FindTemplate(name)
		if !ok {
			continue
		}
		walk(repo, parent, visited, func(t *types.Template) bool {
			if t.Name == tpl.Name {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

// FindPropertyClass looks for a property class named name on tpl or its
// ancestors. An empty tag matches any tag.
func FindPropertyClass(repo Repository, tpl *types.Template, name, tag string) (*types.PropertyClass, bool) {
	var found *types.PropertyClass
	Walk(repo, tpl, func(t *types.Template) bool {
		for i := range t.PropertyClasses {
			pc := &t.PropertyClasses[i]
			if pc.Name == name && (tag == "" || pc.Tag == tag) {
				found = pc
				return false
			}
		}
		return true
	})
	return found, found != nil
}

// FindAction returns the named action of a property class.
func FindAction(pc *types.PropertyClass, name string) (*types.Action, bool) {
	for i := range pc.Actions {
		if pc.Actions[i].Name == name {
			return &pc.Actions[i], true
		}
	}
	return nil, false
}

// FindParam returns the named parameter of a list.
func FindParam(params []types.Parameter, name string) (types.Parameter, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return types.Parameter{}, false
}

// HasState reports whether q defines a state called name.
func HasState(q *types.Quest, name string) bool {
	for _, s := range q.States {
		if s.Name == name {
			return true
		}
	}
	return false
}

// HasSequence reports whether q defines a sequence called name.
func HasSequence(q *types.Quest, name string) bool {
	for _, s := range q.Sequences {
		if s.Name == name {
			return true
		}
	}
	return false
}

// StateNames returns the state names of q in definition order.
func StateNames(q *types.Quest) []string {
	names := make([]string, 0, len(q.States))
	for _, s := range q.States {
		names = append(names, s.Name)
	}
	return names
}

// SequenceNames returns the sequence names of q in definition order.
func SequenceNames(q *types.Quest) []string {
	names := make([]string, 0, len(q.Sequences))
	for _, s := range q.Sequences {
		names = append(names, s.Name)
	}
	return names
}
