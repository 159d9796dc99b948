package domain

import "strings"

// ContextSeparator joins passages inside one context block.
const ContextSeparator = "\n\n---\n\n"

// NoMatchesSentinel is the context block used when no passage survived
// filtering. The generation prompt carries it verbatim.
const NoMatchesSentinel = "(no strong matches)"

// JoinContext assembles hit texts into a single evidence block. Built fresh
// per query, never cached.
func JoinContext(hits []Hit) string {
	if len(hits) == 0 {
		return NoMatchesSentinel
	}
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}
	return strings.Join(texts, ContextSeparator)
}
