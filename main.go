//go:build !gui

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/metcalfc/tale/internal/generate"
	"github.com/metcalfc/tale/internal/state"
	"github.com/metcalfc/tale/internal/story"
)

const frontEnd = "terminal"

const (
	bannerText      = "Tale - generated story reader"
	promptLabel     = "Set the scene"
	promptHint      = "Describe the detective, the crime, or the setting to start your story..."
	loadingText     = "Writing your story..."
	noContentText   = "No story content available."
	finalPageText   = "This is the final page of the story."
	maxContentWidth = 80
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#DDDDDD"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Align(lipgloss.Center)

	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE"))

	emptyPageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

type keyMap struct {
	Submit key.Binding
	Next   key.Binding
	Prev   key.Binding
	Home   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "begin the mystery")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "n", " "), key.WithHelp("→", "next page")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←", "previous page")),
		Home:   key.NewBinding(key.WithKeys("esc", "r", "home"), key.WithHelp("esc", "back to start")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// bindings is the help line for one phase.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

type model struct {
	*state.Controller
	ctx    context.Context
	client generate.Client
	log    *zap.Logger

	prompt     textarea.Model
	spinner    spinner.Model
	help       help.Model
	keys       keyMap
	autoPrompt string

	quitting bool
	width    int
	height   int
}

// generatedMsg carries a finished generation back into the update loop.
type generatedMsg struct {
	ticket state.Ticket
	text   string
	err    error
}

// submitMsg starts a story with the prompt given on the command line.
type submitMsg struct{}

func newModel(ctx context.Context, s *session) model {
	ta := textarea.New()
	ta.Placeholder = promptHint
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(maxContentWidth - 4)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"), key.WithHelp("ctrl+j", "new line"))
	ta.Focus()
	if s.prompt != "" {
		ta.SetValue(s.prompt)
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(bannerStyle))

	log := s.log
	if log == nil {
		log = zap.NewNop()
	}

	return model{
		Controller: s.ctrl,
		ctx:        ctx,
		client:     s.client,
		log:        log,
		prompt:     ta,
		spinner:    sp,
		help:       help.New(),
		keys:       newKeyMap(),
		autoPrompt: s.prompt,
		width:      80,
		height:     24,
	}
}

func (m model) Init() tea.Cmd {
	if m.autoPrompt != "" {
		return func() tea.Msg { return submitMsg{} }
	}
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.SetWidth(m.contentWidth())
		m.help.Width = msg.Width
		return m, nil

	case submitMsg:
		return m.submit()

	case generatedMsg:
		return m.finish(msg)

	case spinner.TickMsg:
		if m.Phase() != state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.Phase() {
		case state.Idle:
			return m.updateIdle(msg)
		case state.Loading:
			return m.updateLoading(msg)
		case state.Reading:
			return m.updateReading(msg)
		}
	}

	if m.Phase() == state.Idle {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case msg.String() == "esc":
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m model) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.Reset()
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.Next()
	case key.Matches(msg, m.keys.Prev):
		m.Previous()
	case key.Matches(msg, m.keys.Home),
		msg.String() == "enter" && m.Controller.View().IsLastPage:
		m.Reset()
		m.prompt.Reset()
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// submit moves the controller to Loading and issues the generation request.
func (m model) submit() (tea.Model, tea.Cmd) {
	prompt := m.prompt.Value()
	ticket, err := m.Start(prompt)
	if err != nil {
		m.log.Debug("Prompt not submitted", zap.Error(err))
		return m, nil
	}
	m.prompt.Blur()
	return m, tea.Batch(generateCmd(m.ctx, m.client, ticket, prompt), m.spinner.Tick)
}

func (m model) finish(msg generatedMsg) (tea.Model, tea.Cmd) {
	var err error
	if msg.err != nil {
		err = m.Failed(msg.ticket, msg.err)
	} else {
		err = m.Succeeded(msg.ticket, story.NewDocument(msg.text))
	}
	if err != nil {
		if !errors.Is(err, state.ErrStale) {
			m.log.Error("Unable to apply generation result", zap.Error(err))
		}
		return m, nil
	}
	if m.Phase() == state.Idle {
		return m, m.prompt.Focus()
	}
	return m, nil
}

func generateCmd(ctx context.Context, client generate.Client, ticket state.Ticket, prompt string) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Generate(ctx, prompt)
		return generatedMsg{ticket: ticket, text: text, err: err}
	}
}

func (m model) contentWidth() int {
	w := m.width - 4
	if w > maxContentWidth {
		w = maxContentWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// View renders the current phase. The embedded controller's View is the
// state snapshot; this one is the bubbletea view.
func (m model) View() string {
	if m.quitting {
		return ""
	}

	v := m.Controller.View()
	var body string
	switch v.Phase {
	case state.Idle:
		body = m.idleView(v)
	case state.Loading:
		body = m.loadingView()
	case state.Reading:
		body = m.readingView(v)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m model) idleView(v state.View) string {
	var sb strings.Builder
	sb.WriteString(bannerStyle.Render(bannerText))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render(promptLabel))
	sb.WriteString("\n")
	sb.WriteString(m.prompt.View())
	sb.WriteString("\n")
	if v.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(generate.UserMessage(v.Err)))
		sb.WriteString("\n")
	}

	submit := m.keys.Submit
	submit.SetEnabled(promptReady(m.prompt.Value()))
	newline := m.prompt.KeyMap.InsertNewline
	quit := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit"))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(bindings{submit, newline, quit}))
	return sb.String()
}

func (m model) loadingView() string {
	var sb strings.Builder
	sb.WriteString(bannerStyle.Render(bannerText))
	sb.WriteString("\n\n")
	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(loadingText)
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(bindings{m.keys.Cancel, m.keys.Quit}))
	return sb.String()
}

func (m model) readingView(v state.View) string {
	width := m.contentWidth()

	var sb strings.Builder
	if v.Title != "" {
		sb.WriteString(titleStyle.Width(width).Render(v.Title))
		sb.WriteString("\n\n")
	}

	if v.Blank() {
		sb.WriteString(emptyPageStyle.Width(width).Render(noContentText))
	} else {
		sb.WriteString(pageStyle.Width(width).Render(v.PageText))
	}
	if v.IsLastPage {
		sb.WriteString("\n\n")
		sb.WriteString(completeStyle.Render(finalPageText))
	}

	// Reserve room so the status line stays put while paging.
	used := lipgloss.Height(sb.String())
	for i := used; i < m.height-6; i++ {
		sb.WriteString("\n")
	}

	arrow := "→"
	if v.Direction == state.Backward {
		arrow = "←"
	}
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(fmt.Sprintf("%s Page %d of %d", arrow, v.Index+1, v.Total)))
	sb.WriteString("\n")

	next, prev, home := m.keys.Next, m.keys.Prev, m.keys.Home
	next.SetEnabled(v.CanNext)
	prev.SetEnabled(v.CanPrevious)
	if v.IsLastPage {
		home = key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "back to start"))
	}
	sb.WriteString(m.help.View(bindings{prev, next, home, m.keys.Quit}))
	return sb.String()
}

func runReader(ctx context.Context, s *session) error {
	p := tea.NewProgram(newModel(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
