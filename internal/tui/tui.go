package tui

import (
	"fmt"
	"luckywheel/internal/anim"
	"luckywheel/internal/history"
	"luckywheel/internal/notify"
	"luckywheel/internal/pick"
	"luckywheel/internal/spin"
	"luckywheel/internal/wheel"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// frameInterval drives the animation at roughly 60 fps.
	frameInterval = 16 * time.Millisecond

	recentInSingleColumn = 5

	panelBorderWidth     = 2 // left + right border
	historyPanelOverhead = 5 // border(2) + help(3)
	wheelPanelPadding    = 4 // border(2) + padding(2)
)

type FocusPanel int

const (
	FocusWheel FocusPanel = iota
	FocusHistory
)

// Options wires a Model to an already configured controller.
type Options struct {
	Model      *wheel.Model
	Controller *spin.Controller
	// Player must be the driver the controller was built with.
	Player  *anim.Player
	Picker  *pick.Picker
	History *history.History
	// Listener observes spins alongside the history, e.g. an MQTT notifier.
	Listener spin.Listener
	// Errors carries background failures, such as publish errors.
	Errors <-chan error
	// Target, when >= 0, is spun to as soon as the program starts.
	Target int
}

type Model struct {
	wheel  *wheel.Model
	ctl    *spin.Controller
	player *anim.Player
	picker *pick.Picker
	hist   *history.History
	errs   <-chan error
	target int

	width  int
	height int
	layout Layout

	showHistory  bool
	focusedPanel FocusPanel

	strip        *Strip
	historyPanel HistoryPanelModel
	spinner      spinner.Model

	// frameGen tags frame ticks so a cancelled spin's tick loop dies out.
	frameGen  int
	lastFrame time.Time

	err        error
	errHeading string

	debugFile *os.File
}

func New(opts Options) Model {
	hist := opts.History
	if hist == nil {
		hist = history.New()
	}
	opts.Controller.SetListener(notify.NewMulti(hist, opts.Listener))

	m := Model{
		wheel:        opts.Model,
		ctl:          opts.Controller,
		player:       opts.Player,
		picker:       opts.Picker,
		hist:         hist,
		errs:         opts.Errors,
		target:       opts.Target,
		showHistory:  true,
		focusedPanel: FocusWheel,
		strip:        NewStrip(opts.Model),
		historyPanel: NewHistoryPanel(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}

	if debugPath := os.Getenv("LUCKYWHEEL_DEBUG"); debugPath != "" {
		if f, err := os.OpenFile(debugPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644); err == nil {
			m.debugFile = f
		}
	}

	return m
}

func (m Model) debugLog(format string, args ...any) {
	if m.debugFile != nil {
		fmt.Fprintf(m.debugFile, format+"\n", args...)
	}
}

func (m *Model) Close() {
	if m.debugFile != nil {
		m.debugFile.Close()
		m.debugFile = nil
	}
}

// History returns the spins recorded during the session.
func (m Model) History() *history.History {
	return m.hist
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.target >= 0 {
		target := m.target
		cmds = append(cmds, func() tea.Msg { return spinMsg{index: target} })
	}
	cmds = append(cmds, listenForErrors(m.errs))
	return tea.Batch(cmds...)
}

// spinMsg asks for a spin. pick means "let the picker choose".
type spinMsg struct {
	index int
	pick  bool
}

type frameMsg struct {
	gen int
	at  time.Time
}

type backgroundErrMsg struct {
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.debugLog("msg: %T", msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinMsg:
		if msg.pick {
			return m.pickAndSpin()
		}
		return m.spinTo(msg.index)

	case frameMsg:
		if msg.gen != m.frameGen {
			return m, nil
		}
		m.lastFrame = msg.at
		if _, done := m.player.Advance(msg.at); !done {
			return m, m.frameTick()
		}
		m.historyPanel.SetRecords(m.hist.Records())
		if r, ok := m.hist.Last(); ok && !m.ctl.IsRunning() {
			m.debugLog("landed: %d %q at %.2f", r.Index, r.Label, m.ctl.Rotation())
		}
		return m, nil

	case spinner.TickMsg:
		// The chain stops with the spin; spinTo starts a new one.
		if !m.ctl.IsRunning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case backgroundErrMsg:
		m.setError("NOTIFY FAILED", msg.err)
		return m, listenForErrors(m.errs)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentWidth, contentHeight := m.contentDimensions()
		m.layout = NewLayout(contentWidth, contentHeight)
		m.resizePanels()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "enter":
		return m.pickAndSpin()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < m.wheel.SliceCount() {
			return m.spinTo(idx)
		}
		return m, nil

	case "c", "esc":
		if m.ctl.Cancel() {
			m.hist.Cancel()
			m.historyPanel.SetRecords(m.hist.Records())
			m.debugLog("cancelled at %.2f", m.ctl.Rotation())
		}
		return m, nil

	case "o":
		m.showHistory = !m.showHistory
		if !m.showHistory {
			m.focusedPanel = FocusWheel
		}
		m.resizePanels()
		return m, nil

	case "tab":
		if m.layout.IsTwoColumn() && m.showHistory {
			if m.focusedPanel == FocusWheel {
				m.focusedPanel = FocusHistory
			} else {
				m.focusedPanel = FocusWheel
			}
		}
		return m, nil

	default:
		if m.focusedPanel == FocusHistory {
			var cmd tea.Cmd
			m.historyPanel, cmd = m.historyPanel.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) pickAndSpin() (tea.Model, tea.Cmd) {
	if m.ctl.IsRunning() || m.picker == nil {
		return m, nil
	}

	env := pick.Env{Count: m.wheel.SliceCount(), Last: -1}
	for _, it := range m.wheel.Items() {
		env.Labels = append(env.Labels, it.Label)
	}
	s := m.hist.Summary()
	env.Spins = s.Landed
	if r, ok := m.hist.Last(); ok {
		env.Last = r.Index
	}

	idx, err := m.picker.Pick(env)
	if err != nil {
		m.setError("PICK FAILED", err)
		return m, nil
	}
	return m.spinTo(idx)
}

func (m Model) spinTo(index int) (tea.Model, tea.Cmd) {
	accepted, err := m.ctl.RequestSpin(index)
	if err != nil {
		m.setError("SPIN FAILED", err)
		return m, nil
	}
	if !accepted {
		m.debugLog("spin to %d dropped", index)
		return m, nil
	}

	m.err = nil
	req, _ := m.ctl.Pending()
	it, _ := m.wheel.Item(req.Index)
	m.hist.Begin(req.Index, it.Label, req.From, req.To)
	m.debugLog("spin to %d: %.2f -> %.2f", req.Index, req.From, req.To)

	m.frameGen++
	m.lastFrame = time.Time{}
	return m, tea.Batch(m.frameTick(), m.spinner.Tick)
}

func (m Model) frameTick() tea.Cmd {
	gen := m.frameGen
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

func listenForErrors(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return backgroundErrMsg{err: err}
	}
}

func (m *Model) setError(heading string, err error) {
	m.err = err
	m.errHeading = heading
	m.debugLog("%s: %v", strings.ToLower(heading), err)
}

// rotation is what the wheel looks like right now.
func (m Model) rotation() float64 {
	if m.ctl.IsRunning() {
		return m.player.Value()
	}
	return m.ctl.Rotation()
}

func (m Model) contentDimensions() (width, height int) {
	width = max(m.width-4, 10)
	height = max(m.height-2, 3)
	return width, height
}

func (m *Model) resizePanels() {
	contentWidth, _ := m.contentDimensions()
	if m.layout.IsTwoColumn() && m.showHistory {
		m.strip.SetWidth(m.layout.WheelWidth - wheelPanelPadding)
		m.historyPanel.SetSize(
			m.layout.HistoryWidth-panelBorderWidth,
			max(m.layout.Height-historyPanelOverhead, 1),
		)
		return
	}
	m.strip.SetWidth(contentWidth)
}

func (m Model) View() string {
	var content string
	if m.layout.IsTwoColumn() && m.showHistory {
		content = m.renderTwoColumn()
	} else {
		content = m.renderSingleColumn()
	}

	if m.width > 0 && m.height > 0 {
		return appContainerStyle.Render(content)
	}
	return content
}

func (m Model) renderWheel(width int) string {
	var s strings.Builder

	s.WriteString(m.strip.View(m.rotation()))
	s.WriteString("\n\n")
	s.WriteString(m.renderStatus(width))

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(RenderError(m.errHeading, m.err, width))
	}
	return s.String()
}

func (m Model) renderStatus(width int) string {
	if req, ok := m.ctl.Pending(); ok {
		var elapsed time.Duration
		if cur, ok := m.hist.Current(); ok && !cur.Started.IsZero() && !m.lastFrame.IsZero() {
			elapsed = m.lastFrame.Sub(cur.Started)
		}
		return RenderProgress(elapsed, req.Duration, width, ProgressOptions{
			Spinner: m.spinner.View(),
			Rounds:  req.Rounds,
		})
	}

	if r, ok := m.hist.Last(); ok {
		return landedStyle.Render(LandedIndicator+" "+r.Label) + "\n" +
			idleStyle.Render(fmt.Sprintf("slice %d • rotation %.1f°", r.Index+1, wheel.Normalize(m.ctl.Rotation())))
	}
	return idleStyle.Render("Press space to spin") + "\n"
}

func (m Model) renderSingleColumn() string {
	var s strings.Builder
	width, _ := m.contentDimensions()

	s.WriteString(titleStyle.Render("LUCKY WHEEL"))
	s.WriteString("\n")
	s.WriteString(m.renderWheel(width))
	s.WriteString("\n")

	if m.showHistory && len(m.hist.Records()) > 0 {
		s.WriteString("\n")
		s.WriteString(RenderSummary(m.hist.Summary(), width))
		s.WriteString("\n")

		records := m.hist.Records()
		if len(records) > recentInSingleColumn {
			records = records[len(records)-recentInSingleColumn:]
		}
		s.WriteString(renderHistory(records))
		s.WriteString("\n")
	}

	s.WriteString(m.renderHelp())
	return s.String()
}

func (m Model) renderTwoColumn() string {
	l := m.layout

	wheelBorder, historyBorder := FocusedBorderColor, UnfocusedBorderColor
	if m.focusedPanel == FocusHistory {
		wheelBorder, historyBorder = UnfocusedBorderColor, FocusedBorderColor
	}

	wheelPanel := Panel{
		Title:       "LUCKY WHEEL",
		Content:     m.renderWheel(l.WheelWidth - wheelPanelPadding),
		Width:       l.WheelWidth,
		Height:      l.Height - 3,
		BorderColor: wheelBorder,
		Focused:     m.focusedPanel == FocusWheel,
	}

	title := "History"
	if n := m.historyPanel.Len(); n > 0 {
		title = fmt.Sprintf("History • %s", pluralize(n, "spin"))
	}
	historyPanel := Panel{
		Title:       title,
		Content:     m.historyPanel.View(),
		Width:       l.HistoryWidth,
		Height:      l.Height - 3,
		BorderColor: historyBorder,
		Focused:     m.focusedPanel == FocusHistory,
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top, RenderPanel(wheelPanel), RenderPanel(historyPanel))
	return panels + "\n" + m.renderHelp()
}

func (m Model) renderHelp() string {
	parts := []string{"space spin", "1-9 land on slice"}
	if m.ctl.IsRunning() {
		parts = append(parts, "c cancel")
	}
	if m.showHistory {
		parts = append(parts, "o hide history")
		if m.layout.IsTwoColumn() {
			parts = append(parts, "tab switch panel")
		}
	} else {
		parts = append(parts, "o show history")
	}
	parts = append(parts, "q quit")
	return helpStyle.Render(strings.Join(parts, " • "))
}
