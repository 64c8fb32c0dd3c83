package conversation

import "strings"

// TerminationMarker is the literal trailing token that ends a conversation.
const TerminationMarker = "TERMINATE"

// IsTerminationMessage reports whether a message's content, after trimming
// trailing whitespace, ends with the termination marker.
func IsTerminationMessage(content string) bool {
	return strings.HasSuffix(strings.TrimRight(content, " \t\r\n"), TerminationMarker)
}
