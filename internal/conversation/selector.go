package conversation

import "errors"

// ErrNoContributors is returned when speaker selection runs against a roster
// without contributors.
var ErrNoContributors = errors.New("roster has no contributors")

// Selector chooses the next participant to speak given the transcript so far.
// Implementations must be pure with respect to the transcript: no mutation.
type Selector interface {
	SelectNext(t *Transcript, roster *Roster) (Participant, error)
}

// CoordinatedRoundRobin is the default selection policy: contributors take
// turns in roster order, and after every contributor turn the coordinator
// speaks to decide whether the task is done.
type CoordinatedRoundRobin struct{}

// SelectNext implements Selector.
func (CoordinatedRoundRobin) SelectNext(t *Transcript, roster *Roster) (Participant, error) {
	if len(roster.Contributors) == 0 {
		return Participant{}, ErrNoContributors
	}

	last, ok := t.Last()
	if !ok || roster.IsCoordinator(last.SpeakerID) {
		// The coordinator spoke last (including the seed task message):
		// hand over to the contributor after the one who spoke most recently.
		return roster.Contributors[t.nextContributorIndex(roster)], nil
	}

	return roster.Coordinator, nil
}

// nextContributorIndex scans backwards for the most recent contributor turn
// and returns the roster index after it, wrapping around. With no contributor
// turns yet, the first contributor opens.
func (t *Transcript) nextContributorIndex(roster *Roster) int {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if roster.IsCoordinator(t.messages[i].SpeakerID) {
			continue
		}
		for j, c := range roster.Contributors {
			if c.ID == t.messages[i].SpeakerID {
				return (j + 1) % len(roster.Contributors)
			}
		}
	}
	return 0
}
