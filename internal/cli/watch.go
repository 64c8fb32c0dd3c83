package cli

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/ahofmann/scriptroom/internal/client"
)

const pollInterval = time.Second

// Theme holds the color scheme for the watch display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// tickMsg triggers polling the request status
type tickMsg time.Time

// resultMsg carries the polled request state
type resultMsg struct {
	result client.Result
	err    error
}

// watchModel is the bubbletea model for following a request.
type watchModel struct {
	client    *client.Client
	requestID string
	result    client.Result
	spinner   spinner.Model
	theme     Theme
	done      bool
	quitting  bool
	err       error
}

func newWatchModel(c *client.Client, requestID string) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Points

	return watchModel{
		client:    c,
		requestID: requestID,
		result:    client.Result{Status: "processing"},
		spinner:   sp,
		theme:     defaultTheme,
	}
}

// Init returns the initial command (start polling).
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.spinner.Tick,
	)
}

// Update handles messages and returns the updated model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		return m, m.fetchResult()

	case resultMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to fetch request status: %w", msg.err)
			m.done = true
			return m, tea.Quit
		}

		m.result = msg.result
		if m.result.Terminal() {
			m.done = true
			if m.result.Status == "failed" {
				m.err = fmt.Errorf("%s", m.result.Error)
			}
			return m, tea.Quit
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the watch display.
func (m watchModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m watchModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", m.result.Status))
	hint := m.theme.hintStyle().Render("Press Ctrl+C to continue in background")

	return fmt.Sprintf("%s %s writing script...\n%s\n", status, m.spinner.View(), hint)
}

func (m watchModel) finalView() string {
	if m.quitting {
		msg := fmt.Sprintf("\nRequest %s continues in background.\nUse 'scriptroom status %s' to check progress.\n",
			m.requestID, m.requestID)
		return m.theme.hintStyle().Render(msg)
	}

	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Request failed: %s\n", m.err))
	}

	return m.theme.completedStyle().Render("✓ Script ready\n")
}

// fetchResult fetches the request state from the server.
// Runs as a command to avoid blocking Update().
func (m watchModel) fetchResult() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := m.client.GetResult(ctx, m.requestID)
		return resultMsg{result: result, err: err}
	}
}

// tickCmd returns a command that sends a tick after the poll interval.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runWatch follows a request interactively until it reaches a terminal
// state. Returns the final result, or an error on failure. Ctrl+C leaves
// the request running in the background.
func runWatch(c *client.Client, requestID string) (client.Result, error) {
	model := newWatchModel(c, requestID)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return client.Result{}, fmt.Errorf("watch UI error: %w", err)
	}

	if m, ok := finalModel.(watchModel); ok {
		if m.quitting {
			return m.result, nil
		}
		if m.err != nil {
			return client.Result{}, m.err
		}
		return m.result, nil
	}

	return client.Result{}, nil
}
