package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// DesignFile is the root of the concrete syntax tree of one VHDL source file.
type DesignFile struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Units  []*DesignUnit `@@*`
}

type DesignUnit struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Context []*ContextItem `@@*`
	Unit    *LibraryUnit   `@@`
}

type ContextItem struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Library *LibraryClause    `  @@`
	Use     *UseClause        `| @@`
	Context *ContextReference `| @@`
}

type LibraryClause struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Names  []*Identifier `"library" @@ { "," @@ } ";"`
}

type UseClause struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Names  []*Name `"use" @@ { "," @@ } ";"`
}

type ContextReference struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Names  []*Name `"context" @@ { "," @@ } ";"`
}

// LibraryUnit is one primary or secondary unit. Only entities are parsed in
// depth; the others keep their header and an opaque body.
type LibraryUnit struct {
	Pos           lexer.Position
	EndPos        lexer.Position
	Entity        *EntityDeclaration        `  @@`
	Architecture  *ArchitectureBody         `| @@`
	Instantiation *PackageInstantiation     `| @@`
	PackageBody   *PackageBody              `| @@`
	Package       *PackageDeclaration       `| @@`
	Configuration *ConfigurationDeclaration `| @@`
	Context       *ContextDeclaration       `| @@`
}

type EntityDeclaration struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Name     *Identifier    `"entity" @@ "is"`
	Generics *GenericClause `[ @@ ]`
	Ports    *PortClause    `[ @@ ]`
	Body     *EntityBody    `@@`
	EndName  string         `[ "entity" ] [ @Ident ] ";"`
}

type ArchitectureBody struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *Identifier `"architecture" @@ "of"`
	Entity  *Name       `@@ "is"`
	Body    *Region     `@@`
	EndName string      `[ "architecture" ] [ @Ident ] ";"`
}

type PackageInstantiation struct {
	Pos            lexer.Position
	EndPos         lexer.Position
	Name           *Identifier `"package" @@ "is" "new"`
	Uninstantiated *Name       `@@`
	GenericMap     *Group      `[ "generic" "map" @@ ] ";"`
}

type PackageBody struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *Identifier `"package" "body" @@ "is"`
	Body    *Region     `@@`
	EndName string      `[ "package" "body" ] [ @Ident ] ";"`
}

type PackageDeclaration struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *Identifier `"package" @@ "is"`
	Body    *Region     `@@`
	EndName string      `[ "package" ] [ @Ident ] ";"`
}

type ConfigurationDeclaration struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *Identifier `"configuration" @@ "of"`
	Entity  *Name       `@@ "is"`
	Body    *Region     `@@`
	EndName string      `[ "configuration" ] [ @Ident ] ";"`
}

type ContextDeclaration struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *Identifier `"context" @@ "is"`
	Body    *Region     `@@`
	EndName string      `[ "context" ] [ @Ident ] ";"`
}

type GenericClause struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Elements []*InterfaceElement `"generic" "(" @@ { ";" @@ } ")" ";"`
}

type PortClause struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Elements []*InterfaceElement `"port" "(" @@ { ";" @@ } ")" ";"`
}

// InterfaceElement is one declaration of an interface list. Exactly one of
// the alternatives is set on a successful parse.
type InterfaceElement struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Type       *InterfaceType       `  @@`
	Package    *InterfacePackage    `| @@`
	Subprogram *InterfaceSubprogram `| @@`
	Object     *InterfaceObject     `| @@`
}

// InterfaceObject covers constant, signal, variable and file interface
// declarations; which ones are legal depends on the enclosing clause.
type InterfaceObject struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Class   string             `[ @( "constant" | "signal" | "variable" | "file" ) ]`
	Names   []*Identifier      `@@ { "," @@ } ":"`
	Mode    string             `[ @( "inout" | "in" | "out" | "buffer" | "linkage" ) ]`
	Subtype *SubtypeIndication `@@`
	Bus     bool               `[ @"bus" ]`
	Default *Expression        `[ ":=" @@ ]`
}

type InterfaceType struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Identifier `"type" @@`
}

type InterfacePackage struct {
	Pos            lexer.Position
	EndPos         lexer.Position
	Name           *Identifier `"package" @@ "is" "new"`
	Uninstantiated *Name       `@@`
	Actuals        *Group      `[ "generic" "map" @@ ]`
}

type InterfaceSubprogram struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Purity     string      `[ @( "pure" | "impure" ) ]`
	Kind       string      `@( "function" | "procedure" )`
	Designator string      `@( Ident | String )`
	Signature  *Expression `[ @@ ]`
}

// SubtypeIndication keeps the type mark(s) apart from the constraints. A
// leading extra mark is a resolution function.
type SubtypeIndication struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	Marks       []*Name       `@@+`
	Constraints []*Constraint `@@*`
}

type Constraint struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Index  *Group     `  @@`
	Range  *RangeExpr `| "range" @@`
}

type Name struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Parts  []string `@Ident { "." @( Ident | String | Char ) }`
}

type Identifier struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

// Expression is kept as an opaque run of tokens up to the next ";" or ")"
// at nesting depth zero.
type Expression struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Terms  []*Term `@@+`
}

type Term struct {
	Group *Group `  @@`
	Token string `| @~( ";" | ")" | "(" )`
}

// RangeExpr is an opaque range that additionally stops at ":=" and "bus".
type RangeExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Terms  []*RangeTerm `@@+`
}

type RangeTerm struct {
	Group *Group `  @@`
	Token string `| @~( ";" | ")" | "(" | ":=" | "bus" )`
}

// Group is a balanced parenthesised token run.
type Group struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*GroupItem `"(" @@* ")"`
}

type GroupItem struct {
	Group *Group `  @@`
	Token string `| @~( "(" | ")" )`
}
