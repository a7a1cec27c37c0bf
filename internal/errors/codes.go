package errors

// Error codes for the compiler.
//
// Error code ranges:
// E0001-E0099: Semantic analysis errors
// E0100-E0199: Parser errors
// E0900-E0999: Driver errors

const (
	// E0001: Variable resolution errors
	ErrorUndefinedVariable = "E0001"

	// E0002: Class resolution errors
	ErrorUndefinedClass = "E0002"

	// E0003: Type compatibility errors
	ErrorTypeMismatch = "E0003"

	// E0004: Method return type errors
	ErrorInvalidReturnType = "E0004"

	// E0005: Field access errors
	ErrorFieldNotFound = "E0005"

	// E0006: Method resolution errors
	ErrorMethodNotFound = "E0006"

	// E0007: Binary operation type errors
	ErrorInvalidBinaryOperation = "E0007"

	// E0008: Duplicate declaration errors
	ErrorDuplicateDeclaration = "E0008"

	// E0009: Function call argument errors
	ErrorInvalidArguments = "E0009"

	// E0010: Generic semantic error (legacy compatibility)
	ErrorGenericSemantic = "E0010"

	// E0100: Parse errors
	ErrorParse = "E0100"

	// E0900: Driver errors (argument parsing, file I/O)
	ErrorDriver = "E0900"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "variable is used but not defined in the current scope"
	case ErrorUndefinedClass:
		return "class is referenced but not declared"
	case ErrorTypeMismatch:
		return "expression type does not match expected type"
	case ErrorInvalidReturnType:
		return "method return value type does not match declared return type"
	case ErrorFieldNotFound:
		return "field does not exist on this class"
	case ErrorMethodNotFound:
		return "method does not exist on this class"
	case ErrorInvalidBinaryOperation:
		return "binary operation not supported for these types"
	case ErrorDuplicateDeclaration:
		return "duplicate declaration found"
	case ErrorInvalidArguments:
		return "method call has the wrong number of arguments"
	case ErrorGenericSemantic:
		return "semantic analysis error"
	case ErrorParse:
		return "syntax error"
	case ErrorDriver:
		return "argument or file error"
	default:
		return "unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code.
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Semantic Analysis"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0900" && code < "E1000":
		return "Driver"
	default:
		return "Unknown"
	}
}
