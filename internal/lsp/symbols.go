package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"hdlio/internal/ast"
)

// documentSymbols builds the outline of a module: one symbol per design unit,
// entities carrying their generics and ports. Ports are nested in their
// groups when an entity has more than one.
func documentSymbols(module *ast.Module) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	if module == nil {
		return symbols
	}

	ast.Walk(module, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.DesignUnit:
			symbols = append(symbols, symbol(n.Name, unitKind(n.Kind), n.String(), n.Pos, len(n.String())))
		case *ast.Entity:
			unit := &symbols[len(symbols)-1]
			for _, g := range n.Generics {
				unit.Children = append(unit.Children, symbol(g.Name, genericKind(g.Kind), g.String(), g.Pos, len(g.Name)))
			}
			unit.Children = append(unit.Children, portSymbols(n)...)
		}
		return true
	})
	return symbols
}

func portSymbols(e *ast.Entity) []protocol.DocumentSymbol {
	port := func(p ast.Port) protocol.DocumentSymbol {
		return symbol(p.Name, protocol.SymbolKindField, fmt.Sprintf("%s %s", p.Direction, p.FullType()), p.Pos, len(p.Name))
	}

	if len(e.PortGroups) <= 1 {
		out := make([]protocol.DocumentSymbol, 0, len(e.Ports))
		for _, p := range e.Ports {
			out = append(out, port(p))
		}
		return out
	}

	out := make([]protocol.DocumentSymbol, 0, len(e.PortGroups))
	for i, g := range e.PortGroups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("Group %d", i+1)
		}
		first := g.Ports[0].Pos
		sym := symbol(name, protocol.SymbolKindNamespace, fmt.Sprintf("%d ports", len(g.Ports)), first, len(g.Ports[0].Name))
		last := g.Ports[len(g.Ports)-1]
		sym.Range.End = lspPosition(last.Pos, len(last.Name))
		for _, p := range g.Ports {
			sym.Children = append(sym.Children, port(p))
		}
		out = append(out, sym)
	}
	return out
}

func symbol(name string, kind protocol.SymbolKind, detail string, pos ast.Position, length int) protocol.DocumentSymbol {
	r := protocol.Range{Start: lspPosition(pos, 0), End: lspPosition(pos, length)}
	return protocol.DocumentSymbol{
		Name:           name,
		Detail:         &detail,
		Kind:           kind,
		Range:          r,
		SelectionRange: r,
	}
}

func lspPosition(pos ast.Position, offset int) protocol.Position {
	return protocol.Position{
		Line:      uint32(max(pos.Line-1, 0)),
		Character: uint32(max(pos.Column-1, 0) + offset),
	}
}

func unitKind(k ast.UnitKind) protocol.SymbolKind {
	switch k {
	case ast.EntityUnit:
		return protocol.SymbolKindInterface
	case ast.ArchitectureUnit:
		return protocol.SymbolKindClass
	case ast.PackageUnit, ast.PackageBodyUnit, ast.PackageInstanceUnit:
		return protocol.SymbolKindPackage
	default:
		return protocol.SymbolKindModule
	}
}

func genericKind(k ast.GenericKind) protocol.SymbolKind {
	switch k {
	case ast.GenericType:
		return protocol.SymbolKindTypeParameter
	case ast.GenericPackage:
		return protocol.SymbolKindPackage
	case ast.GenericSubprogram:
		return protocol.SymbolKindFunction
	default:
		return protocol.SymbolKindConstant
	}
}
