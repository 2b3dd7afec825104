package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/opschat/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// header line, notice line and input line
	chromeHeight = 3
)

// sessionUpdateMsg signals that the controller changed state.
type sessionUpdateMsg struct{}

// sentMsg reports that a SendMessage call returned.
type sentMsg struct {
	accepted bool
}

// chatModel is the bubbletea model for the interactive chat.
type chatModel struct {
	ctx      context.Context
	ctrl     *session.Controller
	logger   *slog.Logger
	theme    Theme
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	notice   string
	copy     bool
	quitting bool
}

// newChatModel creates the chat model for ctrl.
func newChatModel(ctx context.Context, ctrl *session.Controller, logger *slog.Logger) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask the Ops Agent..."
	input.SetWidth(defaultWidth - 4)
	input.Focus()

	m := chatModel{
		ctx:      ctx,
		ctrl:     ctrl,
		logger:   logger,
		theme:    defaultTheme,
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport: viewport.New(viewport.WithWidth(defaultWidth), viewport.WithHeight(defaultHeight-chromeHeight)),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.refresh()
	return m
}

// Init starts the spinner and the controller watch.
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForUpdate(m.ctx, m.ctrl),
	)
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(max(msg.Height-chromeHeight, 1))
		m.input.SetWidth(max(msg.Width-4, 10))
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "pgup":
			m.viewport.PageUp()
			return m, nil
		case "pgdown":
			m.viewport.PageDown()
			return m, nil
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case sessionUpdateMsg:
		m.refresh()
		return m, waitForUpdate(m.ctx, m.ctrl)

	case sentMsg:
		if !msg.accepted {
			m.notice = "Message not sent."
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.IsLoading() {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles the enter key.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	if res, ok := runSlashCommand(m.ctrl, line); ok {
		m.input.Reset()
		m.notice = res.Notice
		if res.Copy {
			m.copy = true
		}
		if res.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.ctrl.IsLoading() {
		m.notice = "Wait for the current answer before sending another message."
		return m, nil
	}

	m.input.Reset()
	m.notice = ""
	return m, sendCmd(m.ctx, m.ctrl, line)
}

// refresh re-renders the conversation into the viewport.
func (m *chatModel) refresh() {
	atBottom := m.viewport.AtBottom()
	content := renderConversation(m.theme, m.logger, m.ctrl.Messages(), m.spinner.View())
	m.viewport.SetContent(content)
	if atBottom || m.ctrl.IsLoading() {
		m.viewport.GotoBottom()
	}
}

// View renders the chat display.
func (m chatModel) View() tea.View {
	v := tea.NewView(m.renderContent())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// renderContent builds the display string.
func (m chatModel) renderContent() string {
	if m.quitting {
		return ""
	}

	header := m.theme.roleStyle(false).Render("Ops Agent") + " " +
		m.theme.hintStyle().Render(fmt.Sprintf("session %s · %s", shortSession(m.ctrl.SessionID()), commandHelp))

	notice := m.notice
	if notice != "" {
		notice = m.theme.hintStyle().Render(notice)
	}

	return strings.Join([]string{
		header,
		m.viewport.View(),
		notice,
		m.input.View(),
	}, "\n")
}

// sendCmd runs SendMessage off the update loop. Progress arrives through waitForUpdate.
func sendCmd(ctx context.Context, ctrl *session.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return sentMsg{accepted: ctrl.SendMessage(ctx, text)}
	}
}

// waitForUpdate blocks until the controller signals a change or ctx ends.
func waitForUpdate(ctx context.Context, ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctrl.Updates():
			return sessionUpdateMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// runTUI runs the interactive chat until the user quits.
func runTUI(ctx context.Context, ctrl *session.Controller, logger *slog.Logger) error {
	// Cancelled on return to release the update watch.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newChatModel(ctx, ctrl, logger))

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}

	if m, ok := finalModel.(chatModel); ok && m.copy {
		fmt.Println(ctrl.Transcript())
	}
	return nil
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
