// Package conversation implements the turn-based multi-participant
// conversation that produces a script: the transcript, the participant
// roster, speaker selection, and the bounded orchestration loop.
package conversation

import "errors"

// ErrEmptyMessage is returned when an empty message is appended to a transcript.
var ErrEmptyMessage = errors.New("message content is empty")

// Message is one entry in a conversation transcript.
type Message struct {
	SpeakerID string `json:"speaker_id"`
	Content   string `json:"content"`
	TurnIndex int    `json:"turn_index"`
}

// Transcript is the append-only ordered message history of one conversation.
// Turn indexes start at 0 and are strictly increasing. A transcript is owned
// by exactly one orchestration run and is not safe for concurrent use.
type Transcript struct {
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message with the next turn index. Content must be non-empty.
func (t *Transcript) Append(speakerID, content string) (Message, error) {
	if content == "" {
		return Message{}, ErrEmptyMessage
	}
	msg := Message{
		SpeakerID: speakerID,
		Content:   content,
		TurnIndex: len(t.messages),
	}
	t.messages = append(t.messages, msg)
	return msg, nil
}

// Messages returns a copy of the message history.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages, including the seed task message.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Last returns the most recent message, if any.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
