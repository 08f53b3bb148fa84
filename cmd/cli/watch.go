package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/survey-platform/surveyctl/internal/models"
)

type analyticsMsg struct {
	analytics *models.SurveyAnalytics
	// manual results come from a key press and do not schedule a poll
	manual bool
}

type errorMsg struct {
	err error
}

type watchModel struct {
	surveyID   int
	interval   time.Duration
	analytics  *models.SurveyAnalytics
	spinner    spinner.Model
	loading    bool
	err        error
	lastUpdate time.Time
	newSince   int
	baseline   int
	quitting   bool
	fetch      func(ctx context.Context, surveyID int) (*models.SurveyAnalytics, error)
}

func newWatchModel(surveyID int, interval time.Duration) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))

	return watchModel{
		surveyID: surveyID,
		interval: interval,
		spinner:  s,
		loading:  true,
		baseline: -1,
		fetch:    app.api.Responses.Summary,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchSummary)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, func() tea.Msg {
				msg := m.fetchSummary()
				if result, ok := msg.(analyticsMsg); ok {
					result.manual = true
					return result
				}
				return msg
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analyticsMsg:
		if msg.analytics == nil {
			m.err = fmt.Errorf("no summary received")
			return m, tea.Quit
		}

		m.loading = false
		m.analytics = msg.analytics
		m.lastUpdate = time.Now()

		if m.baseline < 0 {
			m.baseline = msg.analytics.TotalResponses
		}
		m.newSince = msg.analytics.TotalResponses - m.baseline

		if msg.manual {
			return m, nil
		}

		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg {
			return m.fetchSummary()
		})

	case errorMsg:
		m.loading = false
		m.err = msg.err
		return m, tea.Quit

	case tea.WindowSizeMsg:
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %s", describeError(m.err))) + "\n"
	}

	if m.loading {
		return fmt.Sprintf("\n %s Fetching responses...\n\n", m.spinner.View())
	}

	var content strings.Builder

	content.WriteString(renderAnalytics(m.analytics))

	if m.newSince > 0 {
		content.WriteString(successStyle.Render(fmt.Sprintf("+%d new since you started watching", m.newSince)))
		content.WriteString("\n")
	}

	content.WriteString(fmt.Sprintf("%s Last updated: %s", m.spinner.View(), m.lastUpdate.Format("15:04:05")))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render("Press r to refresh, q to quit"))
	content.WriteString("\n")

	return content.String()
}

func (m watchModel) fetchSummary() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.GetTimeout())
	defer cancel()

	analytics, err := m.fetch(ctx, m.surveyID)
	if err != nil {
		return errorMsg{err: err}
	}
	return analyticsMsg{analytics: analytics}
}

func watchResponses(surveyID int, interval time.Duration) error {
	if interval < time.Second {
		interval = time.Second
	}

	program := tea.NewProgram(newWatchModel(surveyID, interval))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run live view: %w", err)
	}

	if m, ok := final.(watchModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
