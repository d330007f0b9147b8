package core

// Exit codes for the application.
// Signal-based exits follow the Unix convention of 128 + signal number.
const (
	ExitCodeSuccess = 0

	// ExitCodeError is any runtime failure.
	ExitCodeError = 1

	// ExitCodeUsage is a bad command line or configuration.
	ExitCodeUsage = 2

	// ExitCodeSIGINT is 128 + 2.
	ExitCodeSIGINT = 130

	// ExitCodeSIGTERM is 128 + 15.
	ExitCodeSIGTERM = 143
)

// ExitCodeName returns a human-readable name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeUsage:
		return "usage"
	case ExitCodeSIGINT:
		return "interrupted (SIGINT)"
	case ExitCodeSIGTERM:
		return "terminated (SIGTERM)"
	default:
		return "unknown"
	}
}

// IsSignalExit returns true if the exit code indicates a signal-based termination.
func IsSignalExit(code int) bool {
	return code == ExitCodeSIGINT || code == ExitCodeSIGTERM
}

// ExitCodeFor maps an error to the exit code the CLI should return.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if _, ok := IsConfigError(err); ok {
		return ExitCodeUsage
	}
	return ExitCodeError
}
