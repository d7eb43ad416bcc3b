package ast

// Node is implemented by the model values that carry a source position.
type Node interface {
	NodePos() Position
	NodeType() NodeType
	String() string
}

func (e *Entity) NodePos() Position { return e.Pos }
func (*Entity) NodeType() NodeType  { return ENTITY }

func (g *Generic) NodePos() Position { return g.Pos }
func (*Generic) NodeType() NodeType  { return GENERIC }

func (p *Port) NodePos() Position { return p.Pos }
func (*Port) NodeType() NodeType  { return PORT }

func (u *DesignUnit) NodePos() Position { return u.Pos }
func (*DesignUnit) NodeType() NodeType  { return DESIGN_UNIT }

type NodeType int

const (
	ILLEGAL NodeType = iota
	DESIGN_UNIT
	ENTITY
	GENERIC
	PORT
)

func (t NodeType) String() string {
	switch t {
	case DESIGN_UNIT:
		return "DESIGN_UNIT"
	case ENTITY:
		return "ENTITY"
	case GENERIC:
		return "GENERIC"
	case PORT:
		return "PORT"
	}
	return "ILLEGAL"
}

// Walk calls fn for every node of m in source order: each design unit,
// followed, for entities, by the entity, its generics and its ports.
func Walk(m *Module, fn func(Node) bool) {
	entities := 0
	for i := range m.Units {
		u := &m.Units[i]
		if !fn(u) {
			return
		}
		if u.Kind != EntityUnit || entities >= len(m.Entities) {
			continue
		}
		e := &m.Entities[entities]
		entities++
		if !fn(e) {
			return
		}
		for j := range e.Generics {
			if !fn(&e.Generics[j]) {
				return
			}
		}
		for j := range e.Ports {
			if !fn(&e.Ports[j]) {
				return
			}
		}
	}
}
