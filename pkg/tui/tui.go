// Package tui provides the terminal form used to classify messages.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"SpamCheck/pkg/classifier"
	"SpamCheck/pkg/health"
	"SpamCheck/pkg/logger"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	appTitle     = "Spam Detection App"
	appSubtitle  = "Enter a message below to check if it's likely spam."
	submitLabel  = "Check Message"
	loadingLabel = "Checking..."
)

// Prober reports whether the classification service is up.
type Prober interface {
	Probe(ctx context.Context) health.Status
}

// Options tunes the form.
type Options struct {
	// WrapWidth fixes the width of wrapped panel text; 0 follows the terminal.
	WrapWidth    int
	ShowOriginal bool
	// Prober, if set, is run once when the form starts.
	Prober Prober
	Logger *logger.Logger
}

// Model is the form state.
type Model struct {
	predictor classifier.Predictor
	prober    Prober
	log       *logger.Logger

	textarea textarea.Model
	spinner  spinner.Model
	width    int
	height   int

	wrapWidth    int
	showOriginal bool

	prediction *classifier.Prediction
	original   string
	loading    bool
	err        string

	// seq identifies the outstanding request; responses for any other
	// value are dropped.
	seq    int
	cancel context.CancelFunc

	service health.Status
	probing bool
	probed  bool
}

// NewModel creates the form around predictor.
func NewModel(predictor classifier.Predictor, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Enter your message here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(74)
	ta.SetHeight(5)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor)
	ta.BlurredStyle.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(TextMuted)

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return Model{
		predictor:    predictor,
		prober:       opts.Prober,
		log:          log,
		textarea:     ta,
		spinner:      newSpinner(),
		width:        80,
		wrapWidth:    opts.WrapWidth,
		showOriginal: opts.ShowOriginal,
		probing:      opts.Prober != nil,
	}
}

func newSpinner() spinner.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)
	return sp
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.prober != nil {
		cmds = append(cmds, probeService(m.prober))
	}
	return tea.Batch(cmds...)
}

// Update handles TUI events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case tea.KeyEsc:
			if m.loading {
				return m.cancelRequest()
			}
			return m, nil
		case tea.KeyEnter:
			if !msg.Alt {
				return m.submit()
			}
		}
		return m.updateInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 6; w > 20 {
			m.textarea.SetWidth(w)
		}
		return m, nil

	case predictionMsg:
		return m.handlePrediction(msg)

	case probeMsg:
		m.service = msg.status
		m.probing = false
		m.probed = true
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// updateInput forwards a key to the input. The input is read-only while a
// request is outstanding; any edit clears the previous outcome.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != before {
		m.prediction = nil
		m.err = ""
	}
	return m, cmd
}

// canSubmit mirrors the enabled state of the submit button.
func (m Model) canSubmit() bool {
	return !m.loading && strings.TrimSpace(m.textarea.Value()) != ""
}

// submit validates the input and issues exactly one prediction request.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	message := m.textarea.Value()
	if err := classifier.ValidateMessage(message); err != nil {
		m.prediction = nil
		m.err = classifier.FailureMessage(err, m.predictor.Endpoint())
		return m, nil
	}

	m.original = message
	m.loading = true
	m.err = ""
	m.prediction = nil
	m.seq++
	m.textarea.Blur()
	// A fresh spinner gets a new id, so ticks from an earlier request die out.
	m.spinner = newSpinner()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.log.Debug("submit #%d (%d chars)", m.seq, len(message))

	return m, tea.Batch(predict(ctx, m.predictor, m.seq, message), m.spinner.Tick)
}

// cancelRequest abandons the outstanding request and returns to idle.
func (m Model) cancelRequest() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
	m.log.Info("request #%d cancelled", m.seq)
	return m, m.textarea.Focus()
}

func (m Model) handlePrediction(msg predictionMsg) (tea.Model, tea.Cmd) {
	if !m.loading || msg.seq != m.seq {
		m.log.Debug("dropping stale response #%d", msg.seq)
		return m, nil
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false

	if msg.err != nil {
		m.err = classifier.FailureMessage(msg.err, m.predictor.Endpoint())
		m.log.Error("request #%d failed: %v", msg.seq, msg.err)
	} else {
		m.prediction = msg.prediction
	}

	return m, m.textarea.Focus()
}

// contentWidth is the width used for wrapped panel text.
func (m Model) contentWidth() int {
	if m.wrapWidth > 0 {
		return m.wrapWidth
	}
	if w := m.width - 6; w > 20 {
		return w
	}
	return 20
}

// View renders the TUI
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(appTitle))
	sb.WriteString("\n")
	sb.WriteString(SubtitleStyle.Render(appSubtitle))
	sb.WriteString("\n")
	sb.WriteString(m.renderStatusBar())
	sb.WriteString("\n\n")

	sb.WriteString(m.textarea.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderButton())
	sb.WriteString("\n")

	if m.loading {
		sb.WriteString("\n")
		sb.WriteString(LoadingStyle.Render(m.spinner.View() + " Loading..."))
		sb.WriteString("\n")
	}

	if m.err != "" {
		sb.WriteString(m.renderError())
		sb.WriteString("\n")
	}

	if m.prediction != nil && m.err == "" {
		sb.WriteString(m.renderResult())
		sb.WriteString("\n")
	}

	sb.WriteString(HelpStyle.Render("Enter: Check │ Alt+Enter: Newline │ Esc: Cancel │ Ctrl+C: Quit"))

	return sb.String()
}

func (m Model) renderButton() string {
	label := submitLabel
	if m.loading {
		label = loadingLabel
	}
	if m.canSubmit() {
		return ButtonStyle.Render(label)
	}
	return DisabledButtonStyle.Render(label)
}

func (m Model) renderError() string {
	body := ErrorLabelStyle.Render("Error:") + " " + m.err
	return ErrorPanelStyle.Render(wordwrap.String(body, m.contentWidth()))
}

func (m Model) renderResult() string {
	labelStyle := HamLabelStyle
	if m.prediction.IsSpam() {
		labelStyle = SpamLabelStyle
	}

	var sb strings.Builder
	sb.WriteString(ResultHeaderStyle.Render("Result:"))
	sb.WriteString("\n")
	sb.WriteString("The message is predicted as: ")
	sb.WriteString(labelStyle.Render(m.prediction.Display()))
	if m.showOriginal {
		sb.WriteString("\n")
		original := fmt.Sprintf("Original message: \"%s\"", m.original)
		sb.WriteString(OriginalMsgStyle.Render(wordwrap.String(original, m.contentWidth())))
	}
	return ResultPanelStyle.Render(sb.String())
}

func (m Model) renderStatusBar() string {
	var badge string
	switch state := m.State(); state {
	case StateLoading:
		badge = CheckingBadgeStyle.Render(state.String())
	case StateResult:
		badge = ResultBadgeStyle.Render(state.String())
	case StateError:
		badge = ErrorBadgeStyle.Render(state.String())
	default:
		badge = IdleBadgeStyle.Render(state.String())
	}

	var service string
	switch {
	case m.probing:
		service = lipgloss.NewStyle().Foreground(AccentColor).Render("◌ probing")
	case m.probed && m.service.Reachable:
		service = lipgloss.NewStyle().Foreground(SuccessColor).Render("● reachable")
	case m.probed:
		service = lipgloss.NewStyle().Foreground(ErrorColor).Render("○ unreachable")
	}

	endpoint := lipgloss.NewStyle().Foreground(SecondaryColor).Render(m.predictor.Endpoint())
	line := lipgloss.JoinHorizontal(lipgloss.Center, badge, endpoint)
	if service != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, "  ", service)
	}
	return StatusBarStyle.Render(line)
}

func predict(ctx context.Context, predictor classifier.Predictor, seq int, message string) tea.Cmd {
	return func() tea.Msg {
		p, err := predictor.Predict(ctx, message)
		return predictionMsg{seq: seq, prediction: p, err: err}
	}
}

func probeService(prober Prober) tea.Cmd {
	return func() tea.Msg {
		return probeMsg{status: prober.Probe(context.Background())}
	}
}

// Message types
type predictionMsg struct {
	seq        int
	prediction *classifier.Prediction
	err        error
}

type probeMsg struct {
	status health.Status
}

// quitKeyFilter is a program-level filter that catches quit keys
// even if the model's Update somehow doesn't process them.
// It counts consecutive Ctrl+C presses and force-exits on the third.
func quitKeyFilter() func(tea.Model, tea.Msg) tea.Msg {
	ctrlCCount := 0
	return func(m tea.Model, msg tea.Msg) tea.Msg {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.Type {
			case tea.KeyCtrlC, tea.KeyCtrlD:
				ctrlCCount++
				if ctrlCCount >= 3 {
					fmt.Print("\033[?25h\033[?1049l")
					fmt.Fprintln(os.Stderr, "\nForce quit.")
					os.Exit(1)
				}
			default:
				ctrlCCount = 0
			}
		}
		return msg
	}
}

// Run starts the form and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, predictor classifier.Predictor, opts Options) error {
	p := tea.NewProgram(NewModel(predictor, opts),
		tea.WithAltScreen(),
		tea.WithFilter(quitKeyFilter()),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
