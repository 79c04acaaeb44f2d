// Package fingerprint decides whether a generated artifact is already current
// without running the compiler.
//
// Every artifact embeds the verbatim source text it was generated from, serialized
// with Quote. If the existing artifact still contains Quote(source), the source has
// not changed since the artifact was written. The check is exact substring
// containment: a stale artifact can never be reported as current.
package fingerprint

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Quote returns the canonical string literal form of s: a JSON string with HTML
// escaping disabled. The compiler and the detector must agree on this encoding.
// s is assumed to be valid UTF-8: invalid bytes are replaced with U+FFFD, so two
// sources differing only in invalid bytes quote identically.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string never fails.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// NeedsRegeneration reports whether an artifact with existingOutput content must be
// regenerated for sourceText. A missing artifact is passed as "".
func NeedsRegeneration(sourceText, existingOutput string) bool {
	if existingOutput == "" {
		return true
	}
	return !strings.Contains(existingOutput, Quote(sourceText))
}
