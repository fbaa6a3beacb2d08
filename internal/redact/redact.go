// Package redact strips credentials, tokens, password hashes, email addresses
// and file paths from strings before they reach the logs.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HashPlaceholder       = "[REDACTED_HASH]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules see the raw input.
var rules = []rule{
	{
		// user:password section of postgres and mongodb URLs
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mongodb(?:\+srv)?)://[^@\s/]+@`),
		replacement: "${1}://" + CredentialPlaceholder + "@",
	},
	{
		pattern:     regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: JWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		replacement: HashPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(?:password|passwd|pwd|secret)\s*[=:]\s*[^\s&,;]+`),
		replacement: CredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: EmailPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: PathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
