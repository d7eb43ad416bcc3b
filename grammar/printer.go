package grammar

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// String renders the syntax tree one production per line, children indented
// below their parent.
func (f *DesignFile) String() string {
	var b strings.Builder
	b.WriteString("design_file\n")
	for _, u := range f.Units {
		b.WriteString(u.StringWithIndent(1))
	}
	return b.String()
}

func (u *DesignUnit) StringWithIndent(level int) string {
	var b strings.Builder
	b.WriteString(indent(level) + "design_unit\n")
	for _, c := range u.Context {
		b.WriteString(indent(level+1) + c.String() + "\n")
	}
	if u.Unit != nil {
		b.WriteString(u.Unit.StringWithIndent(level + 1))
	}
	return b.String()
}

func (c *ContextItem) String() string {
	switch {
	case c.Library != nil:
		var names []string
		for _, n := range c.Library.Names {
			names = append(names, n.Value)
		}
		return fmt.Sprintf("library_clause %s", strings.Join(names, ", "))
	case c.Use != nil:
		return fmt.Sprintf("use_clause %s", joinNames(c.Use.Names))
	case c.Context != nil:
		return fmt.Sprintf("context_reference %s", joinNames(c.Context.Names))
	}
	return "context_item"
}

func joinNames(names []*Name) string {
	var parts []string
	for _, n := range names {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ", ")
}

func (u *LibraryUnit) StringWithIndent(level int) string {
	switch {
	case u.Entity != nil:
		return u.Entity.StringWithIndent(level)
	case u.Architecture != nil:
		a := u.Architecture
		return fmt.Sprintf("%sarchitecture_body %s of %s (%d tokens)\n", indent(level), a.Name.Value, a.Entity, a.Body.Len())
	case u.Instantiation != nil:
		p := u.Instantiation
		return fmt.Sprintf("%spackage_instantiation %s is new %s\n", indent(level), p.Name.Value, p.Uninstantiated)
	case u.PackageBody != nil:
		p := u.PackageBody
		return fmt.Sprintf("%spackage_body %s (%d tokens)\n", indent(level), p.Name.Value, p.Body.Len())
	case u.Package != nil:
		p := u.Package
		return fmt.Sprintf("%spackage_declaration %s (%d tokens)\n", indent(level), p.Name.Value, p.Body.Len())
	case u.Configuration != nil:
		c := u.Configuration
		return fmt.Sprintf("%sconfiguration_declaration %s of %s (%d tokens)\n", indent(level), c.Name.Value, c.Entity, c.Body.Len())
	case u.Context != nil:
		c := u.Context
		return fmt.Sprintf("%scontext_declaration %s (%d tokens)\n", indent(level), c.Name.Value, c.Body.Len())
	}
	return indent(level) + "library_unit\n"
}

func (e *EntityDeclaration) StringWithIndent(level int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%sentity_declaration %s\n", indent(level), e.Name.Value))
	if e.Generics != nil {
		b.WriteString(indent(level+1) + "generic_clause\n")
		for _, el := range e.Generics.Elements {
			b.WriteString(indent(level+2) + el.String() + "\n")
		}
	}
	if e.Ports != nil {
		b.WriteString(indent(level+1) + "port_clause\n")
		for _, el := range e.Ports.Elements {
			b.WriteString(indent(level+2) + el.String() + "\n")
		}
	}
	return b.String()
}

func (el *InterfaceElement) String() string {
	switch {
	case el.Type != nil:
		return "interface_type " + el.Type.Name.Value
	case el.Package != nil:
		return fmt.Sprintf("interface_package %s is new %s", el.Package.Name.Value, el.Package.Uninstantiated)
	case el.Subprogram != nil:
		s := el.Subprogram
		return fmt.Sprintf("interface_subprogram %s %s", strings.ToLower(s.Kind), s.Designator)
	case el.Object != nil:
		return el.Object.String()
	}
	return "interface_element"
}

func (o *InterfaceObject) String() string {
	var names []string
	for _, n := range o.Names {
		names = append(names, n.Value)
	}
	var b strings.Builder
	b.WriteString("interface_object ")
	if o.Class != "" {
		b.WriteString(strings.ToLower(o.Class) + " ")
	}
	b.WriteString(strings.Join(names, ", ") + " :")
	if o.Mode != "" {
		b.WriteString(" " + strings.ToLower(o.Mode))
	}
	if o.Subtype != nil {
		b.WriteString(" " + o.Subtype.String())
	}
	if o.Bus {
		b.WriteString(" bus")
	}
	if o.Default != nil {
		b.WriteString(" := " + o.Default.String())
	}
	return b.String()
}

func (s *SubtypeIndication) String() string {
	var marks []string
	for _, m := range s.Marks {
		marks = append(marks, m.String())
	}
	out := strings.Join(marks, " ")
	for _, c := range s.Constraints {
		switch {
		case c.Index != nil:
			out += c.Index.String()
		case c.Range != nil:
			out += " range " + c.Range.String()
		}
	}
	return out
}

func (n *Name) String() string {
	if n == nil {
		return ""
	}
	return strings.Join(n.Parts, ".")
}

func (e *Expression) String() string {
	var parts []string
	for _, t := range e.Terms {
		switch {
		case t.Group != nil:
			parts = append(parts, t.Group.String())
		case t.Token != "":
			parts = append(parts, t.Token)
		}
	}
	return strings.Join(parts, " ")
}

func (r *RangeExpr) String() string {
	var parts []string
	for _, t := range r.Terms {
		switch {
		case t.Group != nil:
			parts = append(parts, t.Group.String())
		case t.Token != "":
			parts = append(parts, t.Token)
		}
	}
	return strings.Join(parts, " ")
}

func (g *Group) String() string {
	var parts []string
	for _, it := range g.Items {
		switch {
		case it.Group != nil:
			parts = append(parts, it.Group.String())
		case it.Token != "":
			parts = append(parts, it.Token)
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Len is the number of tokens in the region, the closing "end" included.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Tokens)
}
