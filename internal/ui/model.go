package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"MathTutor/internal/service/image"
	"MathTutor/internal/service/notify"
	"MathTutor/internal/service/tts"
	"MathTutor/internal/transcript"
	"MathTutor/internal/tutor"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const helpText = "Commands: /image <path> attach · /screen attach screenshot · /remove drop image · /reconnect · /save <file> · /quit"

var (
	tutorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("246"))
	imageStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("109"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Capturer снимает экран для вложения.
type Capturer interface {
	Capture() (image.Source, error)
}

// Options перечисляет зависимости интерфейса. Screens, Speech и Notifier необязательны.
type Options struct {
	Orchestrator *tutor.Orchestrator
	Encoder      *image.Encoder
	Screens      Capturer
	Speech       tts.Synthesizer
	Notifier     *notify.SoundNotifier
	Logger       *zap.SugaredLogger
}

type (
	turnDoneMsg struct {
		outcome tutor.Outcome
		text    string
	}
	connectedMsg struct{ err error }
	spokenMsg    struct{ err error }
)

// Model описывает терминальный чат: лента, поле ввода с вложением и индикатор ожидания.
type Model struct {
	ctx  context.Context
	opts Options

	draft   tutor.Draft
	sending bool
	status  string
	failed  bool

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer
	rendered map[string]string
	width    int
	height   int
}

func New(ctx context.Context, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "Ask a clarifying question, or just hit send..."
	in.Prompt = "You> "
	in.CharLimit = 0
	in.Width = 60
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := Model{
		ctx:      ctx,
		opts:     opts,
		input:    in,
		viewport: viewport.New(80, 20),
		spin:     s,
		rendered: make(map[string]string),
		status:   helpText,
		width:    80,
		height:   24,
	}
	m.renderer = newRenderer(m.width)
	m.refresh()
	return m
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 3)
		m.renderer = newRenderer(msg.Width)
		m.rendered = make(map[string]string)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.sending {
			// реплика пользователя попадает в ленту из фоновой отправки
			m.refresh()
		}
		return m, cmd

	case turnDoneMsg:
		m.sending = false
		m.refresh()
		return m, m.afterTurn(msg)

	case connectedMsg:
		m.refresh()
		if msg.err != nil {
			m.setError("reconnect failed: " + msg.err.Error())
		} else {
			m.setStatus("connected")
		}
		return m, nil

	case spokenMsg:
		if msg.err != nil {
			m.opts.Logger.Warnw("Не удалось озвучить ответ", "error", msg.err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if name, arg, ok := parseCommand(value); ok {
		m.input.Reset()
		return m.runCommand(name, arg)
	}

	m.draft.Text = value
	if m.sending || m.opts.Orchestrator.Busy() {
		m.setStatus("still thinking about the previous message...")
		return m, nil
	}
	if m.draft.Empty() {
		return m, nil
	}

	text, img := m.draft.Text, m.draft.Image()
	m.draft.Clear()
	m.input.Reset()
	m.sending = true
	m.setStatus("")

	orch, ctx := m.opts.Orchestrator, m.ctx
	return m, func() tea.Msg {
		return turnDoneMsg{outcome: orch.SendTurn(ctx, text, img), text: text}
	}
}

func (m *Model) afterTurn(msg turnDoneMsg) tea.Cmd {
	out := msg.outcome
	switch out.Status {
	case tutor.StatusFailed:
		if tutor.IsDecodeError(out.Err) {
			// текст не ушёл вместе с битой картинкой, возвращаем его в поле ввода
			m.input.SetValue(msg.text)
			m.input.CursorEnd()
			m.setError("could not read the image; attach another file and send again")
		} else {
			m.setError(out.Err.Error())
		}
		return nil
	case tutor.StatusAnswered:
		m.setStatus("")
		notifier, speech, ctx, reply := m.opts.Notifier, m.opts.Speech, m.ctx, out.Reply
		if notifier == nil && speech == nil {
			return nil
		}
		return func() tea.Msg {
			_ = notifier.PlayReply(ctx)
			if speech == nil {
				return spokenMsg{}
			}
			return spokenMsg{err: speech.Synthesize(ctx, reply)}
		}
	}
	return nil
}

func (m Model) runCommand(name, arg string) (tea.Model, tea.Cmd) {
	switch name {
	case "quit", "exit":
		return m, tea.Quit
	case "help":
		m.setStatus(helpText)
	case "image":
		if arg == "" {
			m.setError("usage: /image <path>")
			break
		}
		m.attach(image.FromPath(expandHome(arg)))
	case "screen":
		if m.opts.Screens == nil {
			m.setError("screen capture is not available")
			break
		}
		src, err := m.opts.Screens.Capture()
		if err != nil {
			m.setError("screen capture failed: " + err.Error())
			break
		}
		m.attach(src)
	case "remove":
		m.draft.Remove()
		m.setStatus("attachment removed")
	case "reconnect":
		if m.sending {
			m.setStatus("wait for the current reply first")
			break
		}
		orch, ctx := m.opts.Orchestrator, m.ctx
		m.setStatus("reconnecting...")
		return m, func() tea.Msg { return connectedMsg{err: orch.Connect(ctx)} }
	case "save":
		if arg == "" {
			arg = "tutor-session.md"
		}
		path := expandHome(arg)
		if err := os.WriteFile(path, []byte(m.opts.Orchestrator.Transcript().Markdown()), 0o644); err != nil {
			m.setError("save failed: " + err.Error())
			break
		}
		m.setStatus("transcript saved to " + path)
	default:
		m.setError("unknown command /" + name + ". " + helpText)
	}
	return m, nil
}

func (m *Model) attach(src image.Source) {
	if err := m.draft.Attach(m.opts.Encoder, src); err != nil {
		m.setError(fmt.Sprintf("attached %s, but the preview failed: %v", src.Name, err))
		return
	}
	m.setStatus("attached " + describeImage(m.draft.Preview()) + " · " + src.Name)
}

func (m *Model) setStatus(s string) { m.status, m.failed = s, false }

func (m *Model) setError(s string) { m.status, m.failed = s, true }

// refresh перерисовывает ленту и прокручивает её к последней реплике.
func (m *Model) refresh() {
	turns := m.opts.Orchestrator.Transcript().Turns()
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(m.renderTurn(t))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderTurn(t transcript.Turn) string {
	if s, ok := m.rendered[t.ID]; ok {
		return s
	}
	var b strings.Builder
	if t.Role == transcript.RoleUser {
		b.WriteString(userStyle.Render("You"))
	} else {
		b.WriteString(tutorStyle.Render("Tutor"))
	}
	b.WriteString("\n")
	if t.Image != "" {
		b.WriteString(imageStyle.Render("[image: " + describeImage(t.Image) + "]"))
		b.WriteString("\n")
	}
	b.WriteString(m.renderText(t))

	s := b.String()
	m.rendered[t.ID] = s
	return s
}

func (m *Model) renderText(t transcript.Turn) string {
	if t.Text == "" {
		return ""
	}
	if t.Role == transcript.RoleAssistant && m.renderer != nil {
		if out, err := m.renderer.Render(t.Text); err == nil {
			return out
		}
	}
	return lipgloss.NewStyle().Width(max(m.width-2, 20)).Render(t.Text) + "\n"
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.sending {
		b.WriteString(m.spin.View() + " Thinking...")
	} else if m.status != "" {
		if m.failed {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
	}
	b.WriteString("\n")

	if p := m.draft.Preview(); p != "" {
		b.WriteString(imageStyle.Render("📎 " + describeImage(p) + " (/remove to drop)"))
	} else if m.draft.Image() != nil {
		b.WriteString(imageStyle.Render("📎 " + m.draft.Image().Name + " (no preview)"))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

// parseCommand разбирает строку вида "/name arg".
func parseCommand(s string) (name, arg string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "/") || len(s) == 1 {
		return "", "", false
	}
	name, arg, _ = strings.Cut(s[1:], " ")
	return strings.ToLower(name), strings.TrimSpace(arg), true
}

// describeImage коротко описывает вложение: MIME и размер.
func describeImage(dataURL string) string {
	enc, err := image.ParseDataURL(dataURL)
	if err != nil {
		return "image"
	}
	size := len(enc.Data) * 3 / 4
	if size >= 1024*1024 {
		return fmt.Sprintf("%s, %.1f MB", enc.MimeType, float64(size)/(1024*1024))
	}
	return fmt.Sprintf("%s, %d KB", enc.MimeType, max(1, size/1024))
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + string(os.PathSeparator) + rest
		}
	}
	return path
}
