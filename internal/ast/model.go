package ast

import (
	"fmt"
	"strings"
)

// Position is a location in a source file. Line and Column are 1-based.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Generic is one generic of an entity. For constant generics Type holds the
// subtype indication text; Default is empty when no default is given.
// Example: WIDTH : integer := 8
type Generic struct {
	Name    string
	Kind    GenericKind
	Type    string
	Default string
	Pos     Position
}

// Port is one port of an entity.
// Example: data : in std_logic_vector(7 downto 0) -- payload
type Port struct {
	Name      string
	Direction Direction
	// Type is the type mark, with a resolution function when present.
	Type string
	// Constraint is the index or range constraint applied to Type, e.g.
	// "(7 downto 0)" or "range 0 to 7". Empty when unconstrained.
	Constraint string
	Default    string
	// Comment is the trailing comment on the line of the declaration, with
	// the comment delimiter stripped.
	Comment string
	Pos     Position
}

// FullType is the complete subtype indication of the port.
func (p Port) FullType() string {
	switch {
	case p.Constraint == "":
		return p.Type
	case strings.HasPrefix(p.Constraint, "("):
		return p.Type + p.Constraint
	default:
		return p.Type + " " + p.Constraint
	}
}

// PortGroup is a run of ports that sit together in the source, bounded by
// blank lines or standalone comments. Name is the text of the comment block
// introducing the group, if any.
type PortGroup struct {
	Name  string
	Ports []Port
}

// Entity is a reduced entity declaration. Concatenating the ports of
// PortGroups in order yields Ports.
type Entity struct {
	Name       string
	Generics   []Generic
	Ports      []Port
	PortGroups []PortGroup
	Pos        Position
}

// Port looks a port up by name, ignoring case as VHDL does.
func (e *Entity) Port(name string) (Port, bool) {
	for _, p := range e.Ports {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Port{}, false
}

// Generic looks a generic up by name, ignoring case.
func (e *Entity) Generic(name string) (Generic, bool) {
	for _, g := range e.Generics {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return Generic{}, false
}

// DesignUnit records any library unit seen in a file, entity or not.
type DesignUnit struct {
	Kind UnitKind
	Name string
	// Of is the entity an architecture or configuration belongs to, or the
	// uninstantiated package of a package instantiation.
	Of      string
	Library string
	Source  string
	Pos     Position
}

// Module is the reduced form of one source file.
type Module struct {
	Source   string
	Library  string
	Standard Standard
	Entities []Entity
	Units    []DesignUnit
}

// Entity returns the entity with the given name, ignoring case.
func (m *Module) Entity(name string) (*Entity, bool) {
	for i := range m.Entities {
		if strings.EqualFold(m.Entities[i].Name, name) {
			return &m.Entities[i], true
		}
	}
	return nil, false
}
