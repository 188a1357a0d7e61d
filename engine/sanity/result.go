package sanity

import "fmt"

// ContextKind says which kind of resource a diagnostic is about.
type ContextKind int

const (
	ContextTemplate ContextKind = iota
	ContextObject
	ContextFactory
	ContextQuest
)

func (k ContextKind) String() string {
	switch k {
	case ContextTemplate:
		return "template"
	case ContextObject:
		return "object"
	case ContextFactory:
		return "factory"
	case ContextQuest:
		return "quest"
	}
	return "unknown"
}

func (k ContextKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ContextKind) UnmarshalText(text []byte) error {
	for _, c := range []ContextKind{ContextTemplate, ContextObject, ContextFactory, ContextQuest} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown result kind %q", text)
}

// Context identifies the resource under inspection. It is passed into every
// check explicitly and determines the location label of each result.
type Context struct {
	Kind          ContextKind
	Template      string
	PropertyClass string
	PCTag         string
	ObjectID      int
	Object        string
	Factory       string
	Quest         string
}

// TemplateContext is a template, optionally narrowed to one property class.
func TemplateContext(tpl, pc, tag string) Context {
	return Context{Kind: ContextTemplate, Template: tpl, PropertyClass: pc, PCTag: tag}
}

// ObjectContext is a placed object.
func ObjectContext(id int, name, factory string) Context {
	return Context{Kind: ContextObject, ObjectID: id, Object: name, Factory: factory}
}

// FactoryContext is a mesh factory.
func FactoryContext(name string) Context {
	return Context{Kind: ContextFactory, Factory: name}
}

// QuestContext is a quest factory.
func QuestContext(name string) Context {
	return Context{Kind: ContextQuest, Quest: name}
}

// Resource returns the name of the resource the context points at.
func (c Context) Resource() string {
	switch c.Kind {
	case ContextTemplate:
		return c.Template
	case ContextObject:
		if c.Object != "" {
			return c.Object
		}
		return fmt.Sprintf("#%d", c.ObjectID)
	case ContextFactory:
		return c.Factory
	case ContextQuest:
		return c.Quest
	}
	return ""
}

// Label formats the human-readable location of the context.
func (c Context) Label() string {
	switch c.Kind {
	case ContextTemplate:
		switch {
		case c.PropertyClass == "":
			return fmt.Sprintf("Template '%s'", c.Template)
		case c.PCTag != "":
			return fmt.Sprintf("Template '%s' / %s (tag '%s')", c.Template, c.PropertyClass, c.PCTag)
		}
		return fmt.Sprintf("Template '%s' / %s", c.Template, c.PropertyClass)
	case ContextObject:
		if c.Object != "" {
			return fmt.Sprintf("Object '%s' (#%d)", c.Object, c.ObjectID)
		}
		return fmt.Sprintf("Object #%d (factory '%s')", c.ObjectID, c.Factory)
	case ContextFactory:
		return fmt.Sprintf("Factory '%s'", c.Factory)
	case ContextQuest:
		return fmt.Sprintf("Quest '%s'", c.Quest)
	}
	return ""
}

// Result is one diagnostic.
type Result struct {
	Kind     ContextKind `json:"kind"`
	Resource string      `json:"resource"`
	Location string      `json:"location"`
	Message  string      `json:"message"`
	Hint     string      `json:"hint,omitempty"`
}

// String renders the result on one line.
func (r Result) String() string {
	if r.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", r.Location, r.Message, r.Hint)
	}
	return fmt.Sprintf("%s: %s", r.Location, r.Message)
}

// Sink is an ordered, append-only list of results. No deduplication.
type Sink struct {
	results []Result
}

// Push appends a result for ctx.
func (s *Sink) Push(ctx Context, msg, hint string) {
	s.results = append(s.results, Result{
		Kind:     ctx.Kind,
		Resource: ctx.Resource(),
		Location: ctx.Label(),
		Message:  msg,
		Hint:     hint,
	})
}

// Clear empties the sink.
func (s *Sink) Clear() {
	s.results = nil
}

// Results returns the accumulated results. The slice is valid until the
// next Clear or Push.
func (s *Sink) Results() []Result {
	return s.results
}

// Title is the plural heading used when results are listed by kind.
func (k ContextKind) Title() string {
	switch k {
	case ContextTemplate:
		return "Templates"
	case ContextObject:
		return "Objects"
	case ContextFactory:
		return "Factories"
	case ContextQuest:
		return "Quests"
	}
	return "Other"
}

// Group is the results of one resource kind, in check order.
type Group struct {
	Kind    ContextKind
	Results []Result
}

// GroupByKind splits results into template, object, factory and quest
// groups, in that order. Empty groups are omitted.
func GroupByKind(results []Result) []Group {
	byKind := map[ContextKind][]Result{}
	for _, r := range results {
		byKind[r.Kind] = append(byKind[r.Kind], r)
	}
	var groups []Group
	for _, k := range []ContextKind{ContextTemplate, ContextObject, ContextFactory, ContextQuest} {
		if len(byKind[k]) > 0 {
			groups = append(groups, Group{Kind: k, Results: byKind[k]})
		}
	}
	return groups
}
