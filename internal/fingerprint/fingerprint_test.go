package fingerprint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_IsValidJSONString(t *testing.T) {
	inputs := []string{
		"",
		"query { id }",
		"query Q($a: Int) {\n  field(a: $a) { id }\n}\n",
		`"quoted" and \backslash`,
		"<script>&amp;</script>",
		"tab\tand unicode é ✓",
	}
	for _, in := range inputs {
		q := Quote(in)
		var back string
		require.NoError(t, json.Unmarshal([]byte(q), &back), "quote of %q", in)
		assert.Equal(t, in, back)
	}
}

func TestQuote_DoesNotEscapeHTML(t *testing.T) {
	assert.Equal(t, `"a < b && c > d"`, Quote("a < b && c > d"))
}

func TestNeedsRegeneration_NoExistingOutput(t *testing.T) {
	assert.True(t, NeedsRegeneration("query { id }", ""))
	assert.True(t, NeedsRegeneration("", ""))
}

func TestNeedsRegeneration_RoundTrip(t *testing.T) {
	sources := []string{
		"query { id }",
		"fragment F on User {\n  name\n}\n",
		`query { search(text: "he said \"hi\"") { id } }`,
		"",
	}
	for _, src := range sources {
		out := "var doc = {};\ndoc.loc.source = {\"body\":" + Quote(src) + "};\nmodule.exports = doc;\n"
		assert.False(t, NeedsRegeneration(src, out), "source %q", src)
	}
}

func TestNeedsRegeneration_DetectsEdits(t *testing.T) {
	out := `doc.loc.source = {"body":` + Quote("query { id }") + `};`

	assert.True(t, NeedsRegeneration("query { id name }", out))
	// A prefix of the embedded source must not match: the closing quote is part of the literal.
	assert.True(t, NeedsRegeneration("query { id", out))
	assert.True(t, NeedsRegeneration("query { id }\n", out))
}
