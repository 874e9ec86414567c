package protocol

import (
	"unicode"
	"unicode/utf8"
)

// CaseFunc converts a canonical camelCase wire field name into the casing
// required by the active API version. It is selected once when the Protocol
// is built and threaded through every serialization path; nothing resolves
// casing per call.
type CaseFunc func(string) string

// CamelCase is the identity strategy: the canonical schema already uses
// camelCase field names (Graph v1.0 style).
func CamelCase(key string) string {
	return key
}

// PascalCase upper-cases the first rune of a canonical key, matching the
// Outlook API legacy naming ("ToRecipients", "IsRead", ...).
func PascalCase(key string) string {
	if key == "" {
		return key
	}
	r, size := utf8.DecodeRuneInString(key)
	return string(unicode.ToUpper(r)) + key[size:]
}

// CaseFuncByName maps a configuration value to a casing strategy.
// Unknown names fall back to camelCase.
func CaseFuncByName(name string) CaseFunc {
	if name == "pascal" {
		return PascalCase
	}
	return CamelCase
}
