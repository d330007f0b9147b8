package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
	Err     error  // Underlying cause, if any
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error codes for configuration errors
const (
	ErrCodeMissingAuth       = "MISSING_AUTH"
	ErrCodeInvalidGeometry   = "INVALID_GEOMETRY"
	ErrCodeInvalidConfigFile = "INVALID_CONFIG_FILE"
	ErrCodeInputNotFound     = "INPUT_NOT_FOUND"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidValue      = "INVALID_VALUE"
)

// ErrMissingAuth returns an error for a missing LLM API key.
func ErrMissingAuth(service string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: fmt.Sprintf("Missing authentication credentials for %s", service),
		Action:  "Set GENAI_API_KEY in your .env file (or point LLM_BASE_URL at a local server)",
	}
}

// ErrInvalidGeometry wraps a layout geometry error.
func ErrInvalidGeometry(err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidGeometry,
		Message: fmt.Sprintf("Invalid page layout: %v", err),
		Action:  "Check the LAYOUT_* settings or the layout section of the config file",
		Err:     err,
	}
}

// ErrInvalidConfigFile returns an error for an unreadable or malformed YAML file.
func ErrInvalidConfigFile(path string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidConfigFile,
		Message: fmt.Sprintf("Cannot load config file %s: %v", path, err),
		Action:  "Fix the YAML or run 'pdf_summarizer init-config' to write a fresh one",
		Err:     err,
	}
}

// ErrInputNotFound returns an error for a missing input file.
func ErrInputNotFound(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInputNotFound,
		Message: fmt.Sprintf("Input file not found: %s", path),
		Action:  "Check the path and try again",
	}
}

// ErrInvalidInput returns an error for an input file that cannot be processed.
func ErrInvalidInput(path, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("Cannot process %s: %s", path, reason),
		Action:  "Select a text-based PDF file",
	}
}

// ErrInvalidValue returns an error for a setting that is out of range.
func ErrInvalidValue(name string, value any, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidValue,
		Message: fmt.Sprintf("Invalid %s %v: %s", name, value, reason),
		Action:  fmt.Sprintf("Set %s to a valid value", name),
	}
}

// IsConfigError reports whether err wraps a ConfigError and returns it.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
