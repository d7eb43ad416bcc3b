package reduce

import (
	"fmt"
	"strings"

	"hdlio/grammar"
)

// element is the classified form of one interface element. The set of
// implementations is closed; reducers switch over it exhaustively.
type element interface {
	isElement()
}

// constantElement is an object declaration in a generic clause.
type constantElement struct {
	obj *grammar.InterfaceObject
}

// signalElement is an object declaration in a port clause.
type signalElement struct {
	obj *grammar.InterfaceObject
}

type typeElement struct {
	decl *grammar.InterfaceType
}

type packageElement struct {
	decl *grammar.InterfacePackage
}

type subprogramElement struct {
	decl *grammar.InterfaceSubprogram
}

func (constantElement) isElement()   {}
func (signalElement) isElement()     {}
func (typeElement) isElement()       {}
func (packageElement) isElement()    {}
func (subprogramElement) isElement() {}

type clause int

const (
	genericClause clause = iota
	portClause
)

func (c clause) String() string {
	if c == genericClause {
		return "generic clause"
	}
	return "port clause"
}

// classify decides what el is given the clause it appears in. An error means
// the element does not have a shape that clause allows.
func classify(el *grammar.InterfaceElement, in clause) (element, error) {
	switch {
	case el == nil:
		return nil, fmt.Errorf("empty interface element in %s", in)
	case el.Object != nil:
		return classifyObject(el.Object, in)
	case in == portClause:
		return nil, fmt.Errorf("%s declaration in %s", elementKind(el), in)
	case el.Type != nil && el.Type.Name != nil:
		return typeElement{el.Type}, nil
	case el.Package != nil && el.Package.Name != nil:
		return packageElement{el.Package}, nil
	case el.Subprogram != nil && el.Subprogram.Designator != "":
		return subprogramElement{el.Subprogram}, nil
	}
	return nil, fmt.Errorf("empty interface element in %s", in)
}

func classifyObject(obj *grammar.InterfaceObject, in clause) (element, error) {
	if len(obj.Names) == 0 || obj.Subtype == nil || len(obj.Subtype.Marks) == 0 {
		return nil, fmt.Errorf("incomplete interface declaration in %s", in)
	}
	class := strings.ToLower(obj.Class)
	mode := strings.ToLower(obj.Mode)
	switch in {
	case genericClause:
		if class != "" && class != "constant" {
			return nil, fmt.Errorf("%s %s declared in %s", class, obj.Names[0].Value, in)
		}
		if mode != "" && mode != "in" {
			return nil, fmt.Errorf("generic %s has mode %s", obj.Names[0].Value, mode)
		}
		return constantElement{obj}, nil
	default:
		if class != "" && class != "signal" {
			return nil, fmt.Errorf("%s %s declared in %s", class, obj.Names[0].Value, in)
		}
		return signalElement{obj}, nil
	}
}

func elementKind(el *grammar.InterfaceElement) string {
	switch {
	case el.Type != nil:
		return "type"
	case el.Package != nil:
		return "package"
	case el.Subprogram != nil:
		return strings.ToLower(el.Subprogram.Kind)
	}
	return "object"
}
