// Package tui is an interactive terminal client for the video Q&A service.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Answer is a response with the chunks that grounded it.
type Answer struct {
	Answer string
	Chunks []string
}

// AskPort is the TUI-facing subset of the Q&A API.
type AskPort interface {
	Ask(videoURL, question string) (Answer, error)
}

// Model is the Bubble Tea model for the ask client.
type Model struct {
	api      AskPort
	videoURL string
	input    textinput.Model
	viewport viewport.Model
	answer   *Answer
	status   string
	ready    bool
}

// New creates a TUI model asking questions about one video.
func New(api AskPort, videoURL string) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask a question about the video and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		api:      api,
		videoURL: videoURL,
		input:    ti,
		viewport: vp,
		status:   "Ready. Type a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+url, status, question box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ah)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.String() == "esc" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.api.Ask(m.videoURL, q)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.answer = nil
				} else {
					m.status = fmt.Sprintf("Answered %q with %d supporting chunks", q, len(res.Chunks))
					m.answer = &res
					m.input.SetValue("")
				}
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and the current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Video Q&A")
	url := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.videoURL)
	body := answerBoxStyle.Render(m.viewport.View())
	question := questionBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + url + "\n" + body + "\n" + question + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(answerStyle.Render(m.answer.Answer))
	b.WriteString("\n\n")
	b.WriteString(chunkHeaderStyle.Render(fmt.Sprintf("Supporting chunks (%d)", len(m.answer.Chunks))))
	for i, ch := range m.answer.Chunks {
		b.WriteString(fmt.Sprintf("\n\n[%d] %s", i+1, ch))
	}
	return b.String()
}

var (
	answerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	chunkHeaderStyle = lipgloss.NewStyle().Underline(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
