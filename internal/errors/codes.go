package errors

// Diagnostic codes used across the toolchain.
//
// Code ranges:
// E0100-E0199: Input and parser errors
// E0300-E0399: Library and configuration errors
// E0400-E0499: Entity lookup errors
// W0800-W0899: Warnings raised while reducing the syntax tree

const (
	// E0100: The input path does not exist or cannot be read
	ErrorInputNotFound = "E0100"

	// E0101: The source does not conform to the grammar
	ErrorSyntax = "E0101"

	// E0102: The lexer met a character sequence that is no VHDL token
	ErrorLex = "E0102"

	// E0300: Unknown library name
	ErrorUnknownLibrary = "E0300"

	// E0301: Invalid project configuration
	ErrorInvalidConfig = "E0301"

	// E0400: No entity with the requested name
	ErrorUnknownEntity = "E0400"

	// W0800: An interface element does not have the shape its clause requires
	WarningStructuralViolation = "W0800"

	// W0801: The closing label of a unit differs from its name
	WarningLabelMismatch = "W0801"

	// W0802: A construct is used that the selected VHDL standard does not have
	WarningStandardFeature = "W0802"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorInputNotFound:
		return "Input file does not exist or cannot be read"
	case ErrorSyntax:
		return "Source text is not valid VHDL"
	case ErrorLex:
		return "Source text contains characters that do not form a VHDL token"
	case ErrorUnknownLibrary:
		return "Library has not been loaded"
	case ErrorInvalidConfig:
		return "Project configuration is invalid"
	case ErrorUnknownEntity:
		return "No entity with this name was found"
	case WarningStructuralViolation:
		return "Interface element was skipped because its shape is not valid in its clause"
	case WarningLabelMismatch:
		return "Closing label does not repeat the unit name"
	case WarningStandardFeature:
		return "Construct is not available in the selected VHDL standard"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case IsWarning(code):
		return "Warning"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0300" && code < "E0400":
		return "Library"
	case code >= "E0400" && code < "E0500":
		return "Lookup"
	default:
		return "Unknown"
	}
}
