package conversation

import (
	"errors"
	"strings"
)

// ErrTranscriptTooShort indicates the transcript is missing the messages the
// extraction rule depends on. Cannot happen after a full exchange; kept as a
// defensive check.
var ErrTranscriptTooShort = errors.New("transcript has fewer than 2 messages beyond the seed task")

// ExtractResult derives the deliverable from a finished transcript: the
// content of the second-to-last message (the last substantive contributor
// output before the coordinator's closing message), with trailing newlines
// stripped.
func ExtractResult(t *Transcript) (string, error) {
	msgs := t.Messages()
	if len(msgs) < 3 {
		return "", ErrTranscriptTooShort
	}
	return strings.TrimRight(msgs[len(msgs)-2].Content, "\n"), nil
}
