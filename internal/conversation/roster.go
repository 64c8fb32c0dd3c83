package conversation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Role classifies a participant's responsibility in the conversation.
type Role string

const (
	// RoleContributor produces substantive content toward the task.
	RoleContributor Role = "contributor"

	// RoleCoordinator judges completion and emits the termination marker.
	RoleCoordinator Role = "coordinator"
)

// Participant is an automated role with a fixed behavioral directive.
// Participants are immutable configuration, built once per job.
type Participant struct {
	ID        string
	Directive string
	Role      Role
}

// Roster is the fixed participant set for one conversation: exactly one
// coordinator and one or more contributors.
type Roster struct {
	Coordinator  Participant
	Contributors []Participant
}

// Default participant directives. The coordinator's directive carries the
// CONTINUE/TERMINATE protocol the termination check depends on.
const (
	editorDirective = "Experienced youtube content editor."

	writerDirective = "Script writer with a proven record in writing viral " +
		"video scripts for successful youtubers."

	coordinatorDirective = "Reply TERMINATE if the task has been solved at " +
		"full satisfaction. Otherwise, reply CONTINUE, or the reason why the " +
		"task is not solved yet."
)

// taskTemplate seeds the conversation. Scenes are ';'-separated and the
// output must be bare script text without meta descriptions.
const taskTemplate = "Give me a viral youtube %s script about current events " +
	"about the topic: '%s'. Separate the script into scenes. Each scene is " +
	"separated by a ';'. Only output the script text. Don't output any meta " +
	"descriptions like 'scene:' or '(opening shot)', just the text. Make sure " +
	"the topic is trending and edited."

// TaskMessage renders the seed instruction for a topic and style.
func TaskMessage(topic, style string) string {
	return fmt.Sprintf(taskTemplate, style, topic)
}

// DefaultRoster returns the built-in writers-room roster: a showrunner
// coordinator plus content editor and script writer contributors.
func DefaultRoster() *Roster {
	return &Roster{
		Coordinator: Participant{
			ID:        "showrunner",
			Directive: coordinatorDirective,
			Role:      RoleCoordinator,
		},
		Contributors: []Participant{
			{ID: "content_editor", Directive: editorDirective, Role: RoleContributor},
			{ID: "script_writer", Directive: writerDirective, Role: RoleContributor},
		},
	}
}

// Participants returns the coordinator followed by all contributors.
func (r *Roster) Participants() []Participant {
	out := make([]Participant, 0, len(r.Contributors)+1)
	out = append(out, r.Coordinator)
	out = append(out, r.Contributors...)
	return out
}

// ByID looks up a participant by identifier.
func (r *Roster) ByID(id string) (Participant, bool) {
	for _, p := range r.Participants() {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// IsCoordinator reports whether the identifier names the coordinator.
func (r *Roster) IsCoordinator(id string) bool {
	return id == r.Coordinator.ID
}

// rosterFile is the YAML shape of a roster override file.
type rosterFile struct {
	Participants []struct {
		ID        string `yaml:"id"`
		Role      Role   `yaml:"role"`
		Directive string `yaml:"directive"`
	} `yaml:"participants"`
}

// LoadRoster reads a roster override file. An empty path yields the default
// roster. The file must declare exactly one coordinator and at least one
// contributor.
func LoadRoster(path string) (*Roster, error) {
	if path == "" {
		return DefaultRoster(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster file: %w", err)
	}

	roster := &Roster{}
	seen := make(map[string]bool, len(file.Participants))
	coordinators := 0
	for _, p := range file.Participants {
		if p.ID == "" || p.Directive == "" {
			return nil, fmt.Errorf("roster participant needs id and directive, got id=%q", p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate roster participant id %q", p.ID)
		}
		seen[p.ID] = true

		switch p.Role {
		case RoleCoordinator:
			coordinators++
			roster.Coordinator = Participant{ID: p.ID, Directive: p.Directive, Role: RoleCoordinator}
		case RoleContributor:
			roster.Contributors = append(roster.Contributors, Participant{
				ID: p.ID, Directive: p.Directive, Role: RoleContributor,
			})
		default:
			return nil, fmt.Errorf("unknown role %q for participant %q", p.Role, p.ID)
		}
	}

	if coordinators != 1 {
		return nil, fmt.Errorf("roster needs exactly one coordinator, got %d", coordinators)
	}
	if len(roster.Contributors) == 0 {
		return nil, fmt.Errorf("roster needs at least one contributor")
	}

	return roster, nil
}
