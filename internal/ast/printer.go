package ast

import (
	"fmt"
	"strings"
)

func (g *Generic) String() string {
	switch g.Kind {
	case GenericType:
		return "type " + g.Name
	case GenericPackage:
		return fmt.Sprintf("package %s is new %s", g.Name, g.Type)
	case GenericSubprogram:
		return g.Type
	}
	s := fmt.Sprintf("%s : %s", g.Name, g.Type)
	if g.Default != "" {
		s += " := " + g.Default
	}
	return s
}

func (p *Port) String() string {
	s := fmt.Sprintf("%s : %s %s", p.Name, p.Direction, p.FullType())
	if p.Default != "" {
		s += " := " + p.Default
	}
	return s
}

func (u *DesignUnit) String() string {
	switch {
	case u.Of == "":
		return fmt.Sprintf("%s %s", u.Kind, u.Name)
	case u.Kind == PackageInstanceUnit:
		return fmt.Sprintf("package %s is new %s", u.Name, u.Of)
	default:
		return fmt.Sprintf("%s %s of %s", u.Kind, u.Name, u.Of)
	}
}

// String renders the entity back as a VHDL entity declaration, one interface
// element per line.
func (e *Entity) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "entity %s is\n", e.Name)
	if len(e.Generics) > 0 {
		b.WriteString("  generic (\n")
		for i := range e.Generics {
			b.WriteString("    " + e.Generics[i].String())
			if i < len(e.Generics)-1 {
				b.WriteString(";")
			}
			b.WriteString("\n")
		}
		b.WriteString("  );\n")
	}
	if len(e.Ports) > 0 {
		b.WriteString("  port (\n")
		for i := range e.Ports {
			b.WriteString("    " + e.Ports[i].String())
			if i < len(e.Ports)-1 {
				b.WriteString(";")
			}
			b.WriteString("\n")
		}
		b.WriteString("  );\n")
	}
	fmt.Fprintf(&b, "end entity %s;", e.Name)
	return b.String()
}
