// Package reduce turns the concrete syntax tree of a VHDL file into the
// entity model of package ast.
package reduce

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"

	"hdlio/grammar"
	"hdlio/internal/ast"
	"hdlio/internal/errors"
	"hdlio/internal/group"
	"hdlio/token"
)

var log = commonlog.GetLogger("hdlio.reduce")

// DefaultLibrary is the library units are compiled into when none is named.
const DefaultLibrary = "work"

type Options struct {
	Policy   group.Policy
	Library  string
	Standard ast.Standard
}

type reducer struct {
	stream *token.Stream
	index  *group.SpanIndex
	opts   Options
	diags  *errors.Collector
}

// Reduce builds the module for file. stream must be the token stream of the
// same source. Elements that cannot be reduced are skipped and reported to
// diags as warnings; Reduce itself never fails.
func Reduce(file *grammar.DesignFile, stream *token.Stream, opts Options, diags *errors.Collector) *ast.Module {
	if opts.Library == "" {
		opts.Library = DefaultLibrary
	}
	if opts.Standard == 0 {
		opts.Standard = ast.DefaultStandard
	}
	if diags == nil {
		diags = &errors.Collector{}
	}
	r := &reducer{stream: stream, index: group.IndexSpans(stream, file), opts: opts, diags: diags}

	m := &ast.Module{Source: stream.Filename, Library: opts.Library, Standard: opts.Standard}
	for _, unit := range file.Units {
		if unit == nil || unit.Unit == nil {
			continue
		}
		du, ok := r.designUnit(unit.Unit)
		if !ok {
			continue
		}
		m.Units = append(m.Units, du)
		if unit.Unit.Entity != nil {
			m.Entities = append(m.Entities, r.entity(unit.Unit.Entity))
		}
	}

	log.Debugf("reduced %s: %d units, %d entities, %d warnings", m.Source, len(m.Units), len(m.Entities), diags.Len())
	return m
}

func (r *reducer) designUnit(u *grammar.LibraryUnit) (ast.DesignUnit, bool) {
	du := ast.DesignUnit{Library: r.opts.Library, Source: r.stream.Filename, Pos: errors.Position(u.Pos)}
	switch {
	case u.Entity != nil && u.Entity.Name != nil:
		du.Kind, du.Name = ast.EntityUnit, u.Entity.Name.Value
	case u.Architecture != nil && u.Architecture.Name != nil:
		du.Kind, du.Name, du.Of = ast.ArchitectureUnit, u.Architecture.Name.Value, u.Architecture.Entity.String()
	case u.Instantiation != nil && u.Instantiation.Name != nil:
		du.Kind, du.Name, du.Of = ast.PackageInstanceUnit, u.Instantiation.Name.Value, u.Instantiation.Uninstantiated.String()
	case u.PackageBody != nil && u.PackageBody.Name != nil:
		du.Kind, du.Name = ast.PackageBodyUnit, u.PackageBody.Name.Value
	case u.Package != nil && u.Package.Name != nil:
		du.Kind, du.Name = ast.PackageUnit, u.Package.Name.Value
	case u.Configuration != nil && u.Configuration.Name != nil:
		du.Kind, du.Name, du.Of = ast.ConfigurationUnit, u.Configuration.Name.Value, u.Configuration.Entity.String()
	case u.Context != nil && u.Context.Name != nil:
		du.Kind, du.Name = ast.ContextUnit, u.Context.Name.Value
	default:
		return du, false
	}
	return du, true
}

func (r *reducer) entity(e *grammar.EntityDeclaration) ast.Entity {
	entity := ast.Entity{Name: e.Name.Value, Pos: errors.Position(e.Pos)}

	if e.EndName != "" && !strings.EqualFold(e.EndName, entity.Name) {
		r.diags.Add(errors.LabelMismatch("entity", entity.Name, e.EndName, r.endLabelPos(e)))
	}

	if e.Generics != nil {
		for _, el := range e.Generics.Elements {
			entity.Generics = append(entity.Generics, r.generics(el)...)
		}
	}

	if e.Ports != nil {
		perElement := make([][]ast.Port, len(e.Ports.Elements))
		for i, el := range e.Ports.Elements {
			perElement[i] = r.ports(el)
			entity.Ports = append(entity.Ports, perElement[i]...)
		}
		entity.PortGroups = r.portGroups(e.Ports, perElement, len(entity.Ports))
	}
	return entity
}

func (r *reducer) generics(el *grammar.InterfaceElement) []ast.Generic {
	kind, err := classify(el, genericClause)
	if err != nil {
		r.violation(err, el)
		return nil
	}

	if _, ok := kind.(constantElement); !ok && r.opts.Standard < ast.VHDL2008 {
		r.diags.Add(errors.StandardFeature(elementKind(el)+" generic", ast.VHDL2008, r.opts.Standard, errors.Position(el.Pos)))
	}

	switch k := kind.(type) {
	case constantElement:
		typ := r.text(k.obj.Subtype.Pos, k.obj.Subtype.EndPos)
		def := ""
		if k.obj.Default != nil {
			def = r.text(k.obj.Default.Pos, k.obj.Default.EndPos)
		}
		out := make([]ast.Generic, 0, len(k.obj.Names))
		for _, name := range k.obj.Names {
			out = append(out, ast.Generic{
				Name:    name.Value,
				Kind:    ast.GenericConstant,
				Type:    typ,
				Default: def,
				Pos:     errors.Position(name.Pos),
			})
		}
		return out
	case typeElement:
		return []ast.Generic{{Name: k.decl.Name.Value, Kind: ast.GenericType, Pos: errors.Position(k.decl.Name.Pos)}}
	case packageElement:
		g := ast.Generic{
			Name: k.decl.Name.Value,
			Kind: ast.GenericPackage,
			Type: r.text(k.decl.Uninstantiated.Pos, k.decl.Uninstantiated.EndPos),
			Pos:  errors.Position(k.decl.Name.Pos),
		}
		if k.decl.Actuals != nil {
			g.Default = "generic map " + r.text(k.decl.Actuals.Pos, k.decl.Actuals.EndPos)
		}
		return []ast.Generic{g}
	case subprogramElement:
		return []ast.Generic{{
			Name: strings.Trim(k.decl.Designator, `"`),
			Kind: ast.GenericSubprogram,
			Type: r.text(k.decl.Pos, k.decl.EndPos),
			Pos:  errors.Position(k.decl.Pos),
		}}
	case signalElement:
		r.violation(errUnexpected("signal", genericClause), el)
		return nil
	default:
		panic("unreachable")
	}
}

func (r *reducer) ports(el *grammar.InterfaceElement) []ast.Port {
	kind, err := classify(el, portClause)
	if err != nil {
		r.violation(err, el)
		return nil
	}

	switch k := kind.(type) {
	case signalElement:
		obj := k.obj
		dir, err := ast.ParseDirection(obj.Mode)
		if err != nil {
			r.violation(err, el)
			return nil
		}
		marks := obj.Subtype.Marks
		typ := r.text(marks[0].Pos, marks[len(marks)-1].EndPos)
		constraint := ""
		if cs := obj.Subtype.Constraints; len(cs) > 0 {
			constraint = r.text(cs[0].Pos, cs[len(cs)-1].EndPos)
		}
		def := ""
		if obj.Default != nil {
			def = r.text(obj.Default.Pos, obj.Default.EndPos)
		}
		comment := ""
		if span := r.index.Span(el); span.Valid() {
			comment = group.TrailingComment(r.stream, span.Last)
		}

		out := make([]ast.Port, 0, len(obj.Names))
		for _, name := range obj.Names {
			out = append(out, ast.Port{
				Name:       name.Value,
				Direction:  dir,
				Type:       typ,
				Constraint: constraint,
				Default:    def,
				Comment:    comment,
				Pos:        errors.Position(name.Pos),
			})
		}
		return out
	case constantElement, typeElement, packageElement, subprogramElement:
		r.violation(errUnexpected("non-signal", portClause), el)
		return nil
	default:
		panic("unreachable")
	}
}

// portGroups maps the runs of the port clause onto the reduced ports. An
// element that produced no ports leaves no trace; a run left empty is dropped.
func (r *reducer) portGroups(pc *grammar.PortClause, perElement [][]ast.Port, total int) []ast.PortGroup {
	spans, index := r.index.Elements(pc.Elements)
	runs := group.Partition(r.stream, spans, r.index.Opening(pc), r.opts.Policy)

	var (
		groups []ast.PortGroup
		count  int
	)
	for _, run := range runs {
		g := ast.PortGroup{Name: run.Name}
		for i := run.First; i <= run.Last; i++ {
			g.Ports = append(g.Ports, perElement[index[i]]...)
		}
		if len(g.Ports) > 0 {
			groups = append(groups, g)
			count += len(g.Ports)
		}
	}

	if count != total {
		// some element that produced ports had no span
		log.Warningf("%s: port groups cover %d of %d ports, using a single group", r.stream.Filename, count, total)
		var all []ast.Port
		for _, ports := range perElement {
			all = append(all, ports...)
		}
		return []ast.PortGroup{{Ports: all}}
	}
	return groups
}

func (r *reducer) text(start, end lexer.Position) string {
	return r.stream.Text(r.stream.Covering(start, end))
}

func (r *reducer) violation(err error, el *grammar.InterfaceElement) {
	pos := ast.Position{Filename: r.stream.Filename}
	length := 1
	if el != nil {
		pos = errors.Position(el.Pos)
		length = max(1, el.EndPos.Offset-el.Pos.Offset)
	}
	d := errors.StructuralViolation(err.Error(), pos)
	d.Length = length
	r.diags.Add(d)
	log.Warningf("%s: %s", pos, err)
}

// endLabelPos finds the closing label of e, the last identifier before the
// final ";".
func (r *reducer) endLabelPos(e *grammar.EntityDeclaration) ast.Position {
	span := r.index.Span(e)
	for i := span.Last; i >= span.First && span.Valid(); i-- {
		if t := r.stream.At(i); t.Kind == token.Code && strings.EqualFold(t.Value, e.EndName) {
			return errors.Position(t.Pos)
		}
	}
	return errors.Position(e.Pos)
}

type unexpectedError struct {
	what string
	in   clause
}

func errUnexpected(what string, in clause) error {
	return unexpectedError{what, in}
}

func (e unexpectedError) Error() string {
	return e.what + " declaration in " + e.in.String()
}
