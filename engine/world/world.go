// Package world exposes the templates, quests, factories and placed objects
// the checker reads, and the lookups shared by the collector and checker
// (template resolution, inheritance walks, property class lookup).
package world

import "github.com/nathoo/questcheck/types"

// WorldEntity is the entity name that always resolves.
const WorldEntity = "World"

// Repository is the read-only view of the loaded world.
type Repository interface {
	Templates() []*types.Template
	FindTemplate(name string) (*types.Template, bool)
	Quests() []*types.Quest
	FindQuest(name string) (*types.Quest, bool)
	Factories() []*types.Factory
	FindFactory(name string) (*types.Factory, bool)
	Objects() []*types.Object
	FindObject(name string) (*types.Object, bool)
}

// Defs holds the world definitions loaded from Lua, with name indexes.
type Defs struct {
	Name      string
	templates []types.Template
	quests    []types.Quest
	factories []types.Factory
	cells     []types.Cell

	templateIdx map[string]int
	questIdx    map[string]int
	factoryIdx  map[string]int
	objectIdx   map[string][2]int // name -> cell, object
}

// NewDefs builds indexed definitions. When names repeat, the first
// definition wins.
func NewDefs(templates []types.Template, quests []types.Quest, factories []types.Factory, cells []types.Cell) *Defs {
	d := &Defs{
		templates:   templates,
		quests:      quests,
		factories:   factories,
		cells:       cells,
		templateIdx: map[string]int{},
		questIdx:    map[string]int{},
		factoryIdx:  map[string]int{},
		objectIdx:   map[string][2]int{},
	}
	for i, t := range templates {
		if _, dup := d.templateIdx[t.Name]; !dup {
			d.templateIdx[t.Name] = i
		}
	}
	for i, q := range quests {
		if _, dup := d.questIdx[q.Name]; !dup {
			d.questIdx[q.Name] = i
		}
	}
	for i, f := range factories {
		if _, dup := d.factoryIdx[f.Name]; !dup {
			d.factoryIdx[f.Name] = i
		}
	}
	for ci, c := range cells {
		for oi, o := range c.Objects {
			if o.Name == "" {
				continue
			}
			if _, dup := d.objectIdx[o.Name]; !dup {
				d.objectIdx[o.Name] = [2]int{ci, oi}
			}
		}
	}
	return d
}

func (d *Defs) Templates() []*types.Template {
	out := make([]*types.Template, len(d.templates))
	for i := range d.templates {
		out[i] = &d.templates[i]
	}
	return out
}

func (d *Defs) FindTemplate(name string) (*types.Template, bool) {
	i, ok := d.templateIdx[name]
	if !ok {
		return nil, false
	}
	return &d.templates[i], true
}

func (d *Defs) Quests() []*types.Quest {
	out := make([]*types.Quest, len(d.quests))
	for i := range d.quests {
		out[i] = &d.quests[i]
	}
	return out
}

func (d *Defs) FindQuest(name string) (*types.Quest, bool) {
	i, ok := d.questIdx[name]
	if !ok {
		return nil, false
	}
	return &d.quests[i], true
}

// Factories returns all factories in definition order.
func (d *Defs) Factories() []*types.Factory {
	out := make([]*types.Factory, len(d.factories))
	for i := range d.factories {
		out[i] = &d.factories[i]
	}
	return out
}

func (d *Defs) FindFactory(name string) (*types.Factory, bool) {
	i, ok := d.factoryIdx[name]
	if !ok {
		return nil, false
	}
	return &d.factories[i], true
}

// Cells returns all world cells in definition order.
func (d *Defs) Cells() []*types.Cell {
	out := make([]*types.Cell, len(d.cells))
	for i := range d.cells {
		out[i] = &d.cells[i]
	}
	return out
}

// Objects returns every placed object, cell by cell.
func (d *Defs) Objects() []*types.Object {
	var out []*types.Object
	for ci := range d.cells {
		for oi := range d.cells[ci].Objects {
			out = append(out, &d.cells[ci].Objects[oi])
		}
	}
	return out
}

func (d *Defs) FindObject(name string) (*types.Object, bool) {
	pos, ok := d.objectIdx[name]
	if !ok {
		return nil, false
	}
	return &d.cells[pos[0]].Objects[pos[1]], true
}
