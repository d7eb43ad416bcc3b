package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction is the mode of a port.
type Direction int

const (
	In Direction = iota
	Out
	InOut
	Buffer
	Linkage
)

var directionNames = [...]string{
	In:      "in",
	Out:     "out",
	InOut:   "inout",
	Buffer:  "buffer",
	Linkage: "linkage",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection maps a mode keyword to its Direction. An empty mode is In.
func ParseDirection(mode string) (Direction, error) {
	if mode == "" {
		return In, nil
	}
	for d, name := range directionNames {
		if strings.EqualFold(name, mode) {
			return Direction(d), nil
		}
	}
	return In, fmt.Errorf("unknown port mode %q", mode)
}

// GenericKind distinguishes the kinds of generic a VHDL-2008 entity may
// declare.
type GenericKind int

const (
	GenericConstant GenericKind = iota
	GenericType
	GenericPackage
	GenericSubprogram
)

func (k GenericKind) String() string {
	switch k {
	case GenericConstant:
		return "constant"
	case GenericType:
		return "type"
	case GenericPackage:
		return "package"
	case GenericSubprogram:
		return "subprogram"
	}
	return fmt.Sprintf("GenericKind(%d)", int(k))
}

// Standard is a revision of the VHDL language reference manual. The value is
// the year of publication.
type Standard int

const (
	VHDL1993 Standard = 1993
	VHDL2000 Standard = 2000
	VHDL2002 Standard = 2002
	VHDL2008 Standard = 2008
	VHDL2019 Standard = 2019

	DefaultStandard = VHDL2008
)

// Standards lists the supported revisions, oldest first.
func Standards() []Standard {
	return []Standard{VHDL1993, VHDL2000, VHDL2002, VHDL2008, VHDL2019}
}

func (s Standard) String() string {
	return fmt.Sprintf("VHDL-%d", int(s))
}

// ParseStandard accepts "2008", "08", "VHDL-2008" and "vhdl2008" style names.
func ParseStandard(name string) (Standard, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "vhdl")
	n = strings.TrimPrefix(n, "-")
	if n == "" {
		return DefaultStandard, nil
	}
	year, err := strconv.Atoi(n)
	if err != nil {
		return 0, fmt.Errorf("unknown VHDL standard %q", name)
	}
	if len(n) == 2 {
		if year >= 87 {
			year += 1900
		} else {
			year += 2000
		}
	}
	for _, s := range Standards() {
		if int(s) == year {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unsupported VHDL standard %q", name)
}

// UnitKind is the kind of a library unit.
type UnitKind int

const (
	EntityUnit UnitKind = iota
	ArchitectureUnit
	PackageUnit
	PackageBodyUnit
	PackageInstanceUnit
	ConfigurationUnit
	ContextUnit
)

func (k UnitKind) String() string {
	switch k {
	case EntityUnit:
		return "entity"
	case ArchitectureUnit:
		return "architecture"
	case PackageUnit:
		return "package"
	case PackageBodyUnit:
		return "package body"
	case PackageInstanceUnit:
		return "package instance"
	case ConfigurationUnit:
		return "configuration"
	case ContextUnit:
		return "context"
	}
	return fmt.Sprintf("UnitKind(%d)", int(k))
}
