package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTranscript(t *testing.T, contents ...string) *Transcript {
	t.Helper()
	tr := NewTranscript()
	for i, c := range contents {
		speaker := "script_writer"
		if i == 0 {
			speaker = "showrunner"
		}
		_, err := tr.Append(speaker, c)
		require.NoError(t, err)
	}
	return tr
}

func TestExtractResultSecondToLast(t *testing.T) {
	tr := buildTranscript(t, "task", "scene one; scene two", "TERMINATE")

	result, err := ExtractResult(tr)
	require.NoError(t, err)
	assert.Equal(t, "scene one; scene two", result)
}

func TestExtractResultStripsTrailingNewlines(t *testing.T) {
	tr := buildTranscript(t, "task", "scene one; scene two\n\n", "TERMINATE")

	result, err := ExtractResult(tr)
	require.NoError(t, err)
	assert.Equal(t, "scene one; scene two", result)
}

func TestExtractResultKeepsInteriorNewlines(t *testing.T) {
	tr := buildTranscript(t, "task", "scene one;\nscene two\n", "TERMINATE")

	result, err := ExtractResult(tr)
	require.NoError(t, err)
	assert.Equal(t, "scene one;\nscene two", result)
}

func TestExtractResultTooShort(t *testing.T) {
	_, err := ExtractResult(buildTranscript(t, "task"))
	assert.ErrorIs(t, err, ErrTranscriptTooShort)

	_, err = ExtractResult(buildTranscript(t, "task", "only one reply"))
	assert.ErrorIs(t, err, ErrTranscriptTooShort)
}
