package errors

// Error codes for the ladders transpiler
// These codes are used in error messages and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// L0001-L0099: Usage errors
// L0100-L0199: Input errors (parse, capture, classification)
// L0200-L0799: Reserved for future use
// L0800-L0899: Warning codes
// L0900-L0999: Output errors

const (
	// Usage errors (L0001-L0099)

	// L0001: No input file given
	ErrorMissingArgument = "L0001"

	// L0002: Input file does not exist or cannot be read
	ErrorFileNotFound = "L0002"

	// L0003: Input file is not a .lad file
	ErrorWrongExtension = "L0003"

	// Input errors (L0100-L0199)

	// L0100: Syntax errors reported by the parser
	ErrorSyntax = "L0100"

	// L0101: Entry function is missing from the program
	ErrorEntryNotFound = "L0101"

	// L0102: Entry function is a prototype
	ErrorEntryWithoutBody = "L0102"

	// L0103: return statement before the end of the entry body
	ErrorEarlyReturn = "L0103"

	// L0104: Statement whose accesses cannot be determined
	ErrorUnclassifiable = "L0104"

	// Warning codes (L0800-L0899)

	// L0800: Hoisted declaration initializer reads other variables
	WarningHoistedInitializer = "L0800"

	// L0801: Hoisted declaration array size reads other variables
	WarningHoistedSize = "L0801"

	// Output errors (L0900-L0999)

	// L0900: Writing an output file failed
	ErrorOutputWrite = "L0900"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorMissingArgument:
		return "No input file was given"
	case ErrorFileNotFound:
		return "Input file does not exist or cannot be read"
	case ErrorWrongExtension:
		return "Input file must have the .lad extension"
	case ErrorSyntax:
		return "Input is not valid in the supported C subset"
	case ErrorEntryNotFound:
		return "Entry function is not defined"
	case ErrorEntryWithoutBody:
		return "Entry function is declared but has no body"
	case ErrorEarlyReturn:
		return "Only a trailing return is allowed in the entry function"
	case ErrorUnclassifiable:
		return "Statement accesses cannot be determined"
	case WarningHoistedInitializer:
		return "Hoisted declaration initializer reads other variables"
	case WarningHoistedSize:
		return "Hoisted declaration array size reads other variables"
	case ErrorOutputWrite:
		return "Output file could not be written"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code >= "L0800" && code < "L0900"
}

// IsUsage reports whether the code is a command-line usage error.
func IsUsage(code string) bool {
	return code >= "L0001" && code < "L0100"
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case IsUsage(code):
		return "Usage"
	case code >= "L0100" && code < "L0200":
		return "Input"
	case IsWarning(code):
		return "Warning"
	case code >= "L0900" && code < "L1000":
		return "Output"
	default:
		return "Unknown"
	}
}
