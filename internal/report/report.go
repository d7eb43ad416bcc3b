// Package report renders reduced entities as indented text.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"hdlio/internal/ast"
)

var (
	headerColor = color.New(color.Bold)
	groupColor  = color.New(color.FgCyan)
	dimColor    = color.New(color.Faint)
)

// printer remembers the first write error so the rendering code can ignore
// errors until the end.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(indent int, c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}
	text := fmt.Sprintf(format, args...)
	if c != nil {
		text = c.Sprint(text)
	}
	_, p.err = fmt.Fprintf(p.w, "%*s%s\n", indent, "", text)
}

// Entities writes every entity of m. grouped selects the grouped port listing
// over the flat one.
func Entities(w io.Writer, m *ast.Module, grouped bool) error {
	p := &printer{w: w}
	if m == nil || len(m.Entities) == 0 {
		p.line(0, dimColor, "No entities found.")
		return p.err
	}
	for i := range m.Entities {
		p.entity(&m.Entities[i], grouped)
	}
	return p.err
}

func Entity(w io.Writer, e *ast.Entity, grouped bool) error {
	p := &printer{w: w}
	p.entity(e, grouped)
	return p.err
}

func (p *printer) entity(e *ast.Entity, grouped bool) {
	p.line(0, headerColor, "Entity: %s", e.Name)

	p.line(2, nil, "Generics:")
	if len(e.Generics) == 0 {
		p.line(4, dimColor, "None")
	}
	for _, g := range e.Generics {
		p.line(4, nil, "- %s", generic(g))
	}

	if !grouped {
		p.line(2, nil, "Ports (flat):")
		if len(e.Ports) == 0 {
			p.line(4, dimColor, "None")
		}
		for _, port := range e.Ports {
			p.port(4, port)
		}
		return
	}

	p.line(2, nil, "Ports (grouped):")
	if len(e.PortGroups) == 0 {
		p.line(4, dimColor, "None")
	}
	for i, g := range e.PortGroups {
		if g.Name != "" {
			p.line(4, groupColor, "Group %d (%s):", i+1, g.Name)
		} else {
			p.line(4, groupColor, "Group %d:", i+1)
		}
		for _, port := range g.Ports {
			p.port(6, port)
		}
	}
}

func (p *printer) port(indent int, port ast.Port) {
	s := fmt.Sprintf("- %s: %s %s", port.Name, port.Direction, port.FullType())
	if port.Default != "" {
		s += " = " + port.Default
	}
	p.line(indent, nil, "%s", s)
}

func generic(g ast.Generic) string {
	switch g.Kind {
	case ast.GenericType:
		return g.Name + ": type"
	case ast.GenericPackage:
		return fmt.Sprintf("%s: package %s", g.Name, g.Type)
	case ast.GenericSubprogram:
		return fmt.Sprintf("%s: %s", g.Name, g.Type)
	}
	if g.Default != "" {
		return fmt.Sprintf("%s: %s = %s", g.Name, g.Type, g.Default)
	}
	return fmt.Sprintf("%s: %s", g.Name, g.Type)
}
