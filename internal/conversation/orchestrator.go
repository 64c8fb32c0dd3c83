package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Conversation bounds. The round limit and the coordinator auto-reply limit
// together guarantee a terminal state even when no participant ever emits
// the termination marker.
const (
	DefaultMaxRounds      = 12
	DefaultMaxAutoReplies = 10
)

// State is a terminal state of the orchestration loop.
type State string

const (
	// StateTerminated means a participant emitted the termination marker,
	// or the coordinator exhausted its auto-reply budget.
	StateTerminated State = "terminated"

	// StateRoundLimit means the round budget ran out before termination.
	StateRoundLimit State = "round_limit_exceeded"
)

// Completer is the completion port: given a persona directive and the
// transcript so far, produce the participant's next message. Implementations
// call an external text-generation capability and may fail or time out.
type Completer interface {
	Complete(ctx context.Context, directive string, transcript []Message) (string, error)
}

// Outcome is the result of a successfully finished conversation.
type Outcome struct {
	State      State
	Result     string
	Rounds     int
	Transcript *Transcript
}

// Params tunes an orchestrator. Zero values select the defaults.
type Params struct {
	Selector       Selector      // default CoordinatedRoundRobin
	MaxRounds      int           // default DefaultMaxRounds
	MaxAutoReplies int           // default DefaultMaxAutoReplies
	TurnTimeout    time.Duration // 0 disables the per-turn deadline
	Logger         *slog.Logger  // default slog.Default()
}

// Orchestrator drives one conversation to a terminal state. An orchestrator
// instance exclusively owns its transcript for the duration of the run and
// must not be reused across jobs.
type Orchestrator struct {
	roster         *Roster
	completer      Completer
	selector       Selector
	maxRounds      int
	maxAutoReplies int
	turnTimeout    time.Duration
	logger         *slog.Logger
}

// New creates an orchestrator for the given roster and completion port.
func New(roster *Roster, completer Completer, p Params) *Orchestrator {
	if p.Selector == nil {
		p.Selector = CoordinatedRoundRobin{}
	}
	if p.MaxRounds <= 0 {
		p.MaxRounds = DefaultMaxRounds
	}
	if p.MaxAutoReplies <= 0 {
		p.MaxAutoReplies = DefaultMaxAutoReplies
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &Orchestrator{
		roster:         roster,
		completer:      completer,
		selector:       p.Selector,
		maxRounds:      p.MaxRounds,
		maxAutoReplies: p.MaxAutoReplies,
		turnTimeout:    p.TurnTimeout,
		logger:         p.Logger,
	}
}

// Run executes the conversation seeded with the task message and returns the
// extracted deliverable. The task message is authored by the coordinator at
// turn index 0 and does not count toward the round budget. Run returns an
// error on cancellation, on any completion port failure, and on a transcript
// too short to extract from; all of these mean the owning job failed.
func (o *Orchestrator) Run(ctx context.Context, task string) (Outcome, error) {
	transcript := NewTranscript()
	if _, err := transcript.Append(o.roster.Coordinator.ID, task); err != nil {
		return Outcome{}, fmt.Errorf("seed task message: %w", err)
	}

	start := time.Now()
	rounds := 0
	autoReplies := 0
	var state State

loop:
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, fmt.Errorf("conversation aborted after %d rounds: %w", rounds, err)
		}

		speaker, err := o.selector.SelectNext(transcript, o.roster)
		if err != nil {
			return Outcome{}, fmt.Errorf("select speaker: %w", err)
		}

		content, err := o.executeTurn(ctx, speaker, transcript)
		if err != nil {
			return Outcome{}, fmt.Errorf("turn %d (%s): %w", rounds+1, speaker.ID, err)
		}

		msg, err := transcript.Append(speaker.ID, content)
		if err != nil {
			return Outcome{}, fmt.Errorf("turn %d (%s): %w", rounds+1, speaker.ID, err)
		}
		rounds++

		o.logger.Debug("turn completed",
			"speaker", speaker.ID,
			"turn_index", msg.TurnIndex,
			"round", rounds,
			"chars", len(content))

		if IsTerminationMessage(content) {
			state = StateTerminated
			break loop
		}

		if speaker.Role == RoleCoordinator {
			// No human or external interjection exists in this system, so the
			// count never resets: it caps the coordinator's total run length.
			autoReplies++
			if autoReplies >= o.maxAutoReplies {
				o.logger.Warn("coordinator auto-reply limit reached, forcing termination",
					"auto_replies", autoReplies)
				state = StateTerminated
				break loop
			}
		}

		if rounds >= o.maxRounds {
			state = StateRoundLimit
			break loop
		}
	}

	result, err := ExtractResult(transcript)
	if err != nil {
		return Outcome{}, fmt.Errorf("extract result after %d rounds: %w", rounds, err)
	}

	o.logger.Info("conversation finished",
		"state", string(state),
		"rounds", rounds,
		"duration_ms", time.Since(start).Milliseconds())

	return Outcome{
		State:      state,
		Result:     result,
		Rounds:     rounds,
		Transcript: transcript,
	}, nil
}

// executeTurn invokes the completion port for one speaker, applying the
// per-turn deadline if configured.
func (o *Orchestrator) executeTurn(ctx context.Context, speaker Participant, t *Transcript) (string, error) {
	if o.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.turnTimeout)
		defer cancel()
	}
	return o.completer.Complete(ctx, speaker.Directive, t.Messages())
}
