package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces secrets in log output.
const RedactedPlaceholder = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),                // Google / Gemini keys
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`),                // OpenAI keys
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]{20,}=*`), // Authorization headers
	regexp.MustCompile(`(?i)(api_?key|password|secret|token)\s*[:=]\s*[^\s,;&"']{8,}`),
	regexp.MustCompile(`(?i)([?&]key=)[^&\s"']+`), // Gemini REST query parameter
}

// sensitiveNames are matched against whole segments of a field name, so
// "token" is sensitive but "prompt_tokens" is not.
var sensitiveNames = map[string]bool{
	"KEY":           true,
	"APIKEY":        true,
	"PASSWORD":      true,
	"SECRET":        true,
	"TOKEN":         true,
	"AUTHORIZATION": true,
}

// RedactSensitiveData replaces every secret found in value.
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range sensitivePatterns {
		value = pattern.ReplaceAllStringFunc(value, redactMatch(pattern))
	}
	return value
}

// redactMatch keeps the "?key=" prefix of query matches so URLs stay
// readable.
func redactMatch(pattern *regexp.Regexp) func(string) string {
	return func(match string) string {
		if sub := pattern.FindStringSubmatch(match); len(sub) > 1 && strings.HasSuffix(sub[1], "=") {
			return sub[1] + RedactedPlaceholder
		}
		return RedactedPlaceholder
	}
}

// IsSensitiveField reports whether a field or variable name, such as
// GENAI_API_KEY or apiKey, names a secret.
func IsSensitiveField(name string) bool {
	segments := strings.FieldsFunc(strings.ToUpper(splitCamel(name)), func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	for _, seg := range segments {
		if sensitiveNames[seg] {
			return true
		}
	}
	return false
}

// RedactField returns the placeholder for sensitive names and the
// pattern-redacted value otherwise.
func RedactField(name, value string) string {
	if IsSensitiveField(name) {
		return RedactedPlaceholder
	}
	return RedactSensitiveData(value)
}

// ContainsSensitiveData reports whether any secret pattern matches value.
func ContainsSensitiveData(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// splitCamel inserts underscores at lower-to-upper transitions.
func splitCamel(s string) string {
	var sb strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z' {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}
