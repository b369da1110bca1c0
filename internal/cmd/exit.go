// Package cmd provides command implementations for the tsickle-loader CLI.
package cmd

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitSchemaError indicates the loader options violated the option schema.
	ExitSchemaError = 2

	// ExitConfigError indicates the project configuration file is malformed
	// or unreadable.
	ExitConfigError = 3

	// ExitDiagnostics indicates the compiler reported errors before emit.
	ExitDiagnostics = 4

	// ExitMissingOutput indicates the transform produced no entry for a
	// requested file.
	ExitMissingOutput = 5
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitSchemaError:
		return "Schema Error"
	case ExitConfigError:
		return "Config Error"
	case ExitDiagnostics:
		return "Compile Diagnostics"
	case ExitMissingOutput:
		return "Missing Output"
	default:
		return "Unknown"
	}
}
