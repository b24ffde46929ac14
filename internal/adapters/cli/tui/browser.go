package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maxWiklund/txConverter/internal/application"
	"github.com/maxWiklund/txConverter/internal/domain"
)

// Scanner starts a directory scan that appends to a collection
type Scanner interface {
	ScanInto(ctx context.Context, dir string, coll *domain.Collection) <-chan domain.Event
}

// Converter starts a conversion batch over the enabled rows of a collection
type Converter interface {
	ConvertEnabled(ctx context.Context, coll *domain.Collection, opts application.ConvertOptions) (<-chan domain.Event, error)
}

// BrowserOptions configures the interactive browser
type BrowserOptions struct {
	Root   string // scanned on start when set
	DryRun bool
}

type taskKind int

const (
	taskNone taskKind = iota
	taskScan
	taskConvert
)

type inputMode int

const (
	inputNone inputMode = iota
	inputRename
	inputScanPath
)

type eventMsg struct {
	ev domain.Event
}

type streamClosedMsg struct{}

// BrowserModel is the bubbletea model for the element table
type BrowserModel struct {
	table   table.Model
	spinner spinner.Model
	help    help.Model
	input   textinput.Model
	keys    keyMap

	coll      *domain.Collection
	scanner   Scanner
	converter Converter
	opts      BrowserOptions

	rows []*domain.Element

	ctx        context.Context
	cancel     context.CancelFunc
	taskCancel context.CancelFunc
	stream     <-chan domain.Event
	task       taskKind

	mode      inputMode
	inputRow  int
	status    string
	errored   bool
	detail    bool
	done      int
	total     int
	failed    int
	lastScan  string
	lastCount int

	width  int
	height int
}

var browserColumns = []table.Column{
	{Title: "Convert", Width: 7},
	{Title: "File name", Width: 32},
	{Title: "Output Name", Width: 32},
	{Title: "Gamma", Width: 5},
	{Title: "Frames", Width: 18},
}

// NewBrowserModel creates the browser over coll
func NewBrowserModel(ctx context.Context, coll *domain.Collection, scanner Scanner, converter Converter, opts BrowserOptions) BrowserModel {
	baseCtx, cancel := context.WithCancel(ctx)

	t := table.New(
		table.WithColumns(browserColumns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = accentStyle

	in := textinput.New()
	in.CharLimit = 256
	in.PromptStyle = promptStyle

	m := BrowserModel{
		table:     t,
		spinner:   sp,
		help:      help.New(),
		input:     in,
		keys:      newKeyMap(),
		coll:      coll,
		scanner:   scanner,
		converter: converter,
		opts:      opts,
		ctx:       baseCtx,
		cancel:    cancel,
	}
	m.refreshRows()
	return m
}

func (m BrowserModel) Init() tea.Cmd {
	if m.opts.Root == "" {
		return nil
	}
	return func() tea.Msg { return scanRequestMsg{path: m.opts.Root} }
}

type scanRequestMsg struct {
	path string
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.updateLayout(msg.Width, msg.Height)
	case spinner.TickMsg:
		if m.task != taskNone {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	case scanRequestMsg:
		cmds = append(cmds, m.startScan(msg.path))
	case eventMsg:
		m.applyEvent(msg.ev)
		if m.stream != nil {
			cmds = append(cmds, waitEvent(m.stream))
		}
	case streamClosedMsg:
		m.finishTask()
	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		if m.isAction(msg) {
			if key.Matches(msg, m.keys.Quit) {
				m.stopTask()
				m.cancel()
				return m, tea.Quit
			}
			cmds = append(cmds, m.handleKey(msg))
			return m, tea.Batch(cmds...)
		}
	}

	// Navigation keys go to the table
	if m.mode == inputNone {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m BrowserModel) isAction(msg tea.KeyMsg) bool {
	return key.Matches(msg,
		m.keys.Toggle, m.keys.Gamma, m.keys.Rename, m.keys.Remove, m.keys.Scan,
		m.keys.Convert, m.keys.Clear, m.keys.Cancel, m.keys.ShowDetail, m.keys.Help, m.keys.Quit)
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.ShowDetail):
		m.detail = !m.detail
	case key.Matches(msg, m.keys.Toggle):
		if e := m.selected(); e != nil {
			m.setStatus(m.coll.SetEnabled(m.table.Cursor(), !e.Enabled()))
		}
	case key.Matches(msg, m.keys.Gamma):
		if e := m.selected(); e != nil {
			m.setStatus(m.coll.SetGamma(m.table.Cursor(), !e.Gamma()))
		}
	case key.Matches(msg, m.keys.Rename):
		if e := m.selected(); e != nil {
			if e.Duplicated() {
				m.setStatus(domain.ErrDuplicateElement)
				break
			}
			m.openInput(inputRename, "Output name: ", e.OutputName())
		}
	case key.Matches(msg, m.keys.Remove):
		if m.selected() != nil {
			m.setStatus(m.coll.RemoveAt(m.table.Cursor()))
		}
	case key.Matches(msg, m.keys.Scan):
		m.openInput(inputScanPath, "Scan directory: ", m.lastScan)
	case key.Matches(msg, m.keys.Convert):
		return m.startConvert()
	case key.Matches(msg, m.keys.Clear):
		if m.task != taskNone {
			m.status, m.errored = "Wait for the running task to finish", true
			break
		}
		m.coll.Clear()
		m.status, m.errored = "Cleared", false
	case key.Matches(msg, m.keys.Cancel):
		if m.task != taskNone {
			m.stopTask()
			m.status, m.errored = "Stopping…", false
		}
	}
	m.refreshRows()
	return nil
}

func (m *BrowserModel) openInput(mode inputMode, prompt, value string) {
	m.mode = mode
	m.inputRow = m.table.Cursor()
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m BrowserModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()

		switch mode {
		case inputRename:
			if value == "" {
				m.status, m.errored = "Output name cannot be empty", true
				return m, nil
			}
			m.setStatus(m.coll.SetOutputName(m.inputRow, value))
			m.refreshRows()
			return m, nil
		case inputScanPath:
			if value == "" {
				return m, nil
			}
			return m, m.startScan(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *BrowserModel) startScan(path string) tea.Cmd {
	if m.task != taskNone {
		m.status, m.errored = "Wait for the running task to finish", true
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.taskCancel = cancel
	m.task = taskScan
	m.lastScan = path
	m.lastCount = 0

	m.stream = m.scanner.ScanInto(ctx, path, m.coll)
	return tea.Batch(m.spinner.Tick, waitEvent(m.stream))
}

func (m *BrowserModel) startConvert() tea.Cmd {
	if m.task != taskNone {
		m.status, m.errored = "Wait for the running task to finish", true
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	ch, err := m.converter.ConvertEnabled(ctx, m.coll, application.ConvertOptions{DryRun: m.opts.DryRun})
	if err != nil {
		cancel()
		m.status, m.errored = application.ErrorText(err), true
		return nil
	}
	m.taskCancel = cancel
	m.task = taskConvert
	m.done, m.total, m.failed = 0, 0, 0
	m.stream = ch
	return tea.Batch(m.spinner.Tick, waitEvent(ch))
}

func (m *BrowserModel) stopTask() {
	if m.taskCancel != nil {
		m.taskCancel()
	}
}

func (m *BrowserModel) finishTask() {
	m.stopTask()
	m.taskCancel = nil
	m.stream = nil
	m.task = taskNone
}

func (m *BrowserModel) applyEvent(ev domain.Event) {
	switch e := ev.(type) {
	case domain.ElementDiscovered:
		m.lastCount++
		m.refreshRows()
		return
	case domain.ScanFinished:
		m.errored = e.Err != nil
	case domain.ScanAborted:
		m.errored = true
	case domain.ConvertStarted:
		m.total = e.Commands
		m.errored = false
	case domain.CommandFinished:
		m.done = e.Index
		if e.Err != nil {
			m.failed++
		}
		return
	case domain.ConvertFinished:
		m.errored = e.Status != domain.BatchSucceeded
	}

	if text := application.StatusText(ev); text != "" {
		m.status = text
	}
	if e, ok := ev.(domain.ConvertFinished); ok && e.Failed > 0 {
		m.status += fmt.Sprintf(" %d/%d failed, see: txconverter history show %s", e.Failed, e.Total, e.BatchID)
	}
	m.refreshRows()
}

func (m *BrowserModel) setStatus(err error) {
	if err != nil {
		m.status, m.errored = application.ErrorText(err), true
	}
}

func (m BrowserModel) selected() *domain.Element {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}
	return m.rows[idx]
}

// refreshRows redraws the table from a detached snapshot of the collection
func (m *BrowserModel) refreshRows() {
	m.rows = m.coll.Snapshot()

	rows := make([]table.Row, 0, len(m.rows))
	for _, e := range m.rows {
		name := e.Name()
		if e.Duplicated() {
			name = dangerStyle.Render(name)
		}
		rows = append(rows, table.Row{
			FormatCheck(e.Enabled()),
			name,
			FormatOutputName(e),
			FormatCheck(e.Gamma()),
			FormatFrames(e.Input()),
		})
	}
	m.table.SetRows(rows)

	if len(rows) > 0 && m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *BrowserModel) updateLayout(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	m.width = max(width, 60)
	m.height = max(height, 12)

	fixed := 7 + 5 + 18 + 14
	nameWidth := max((m.width-fixed)/2, 16)
	m.table.SetColumns([]table.Column{
		{Title: "Convert", Width: 7},
		{Title: "File name", Width: nameWidth},
		{Title: "Output Name", Width: nameWidth},
		{Title: "Gamma", Width: 5},
		{Title: "Frames", Width: 18},
	})

	chrome := lipgloss.Height(m.headerView()) + lipgloss.Height(m.statusView()) + lipgloss.Height(m.footerView())
	m.table.SetHeight(max(m.height-chrome-4, 5))
	m.table.SetWidth(m.width - 4)
	m.help.Width = m.width
}

func (m BrowserModel) View() string {
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		frameStyle.Render(m.table.View()),
		m.statusView(),
		m.footerView(),
	)
	return containerStyle.Render(view)
}

func (m BrowserModel) headerView() string {
	enabled := 0
	for _, e := range m.rows {
		if e.Enabled() {
			enabled++
		}
	}
	title := accentStyle.Render("txconverter")
	chip := chipStyle.Render(fmt.Sprintf("%d/%d to convert", enabled, len(m.rows)))
	line := lipgloss.JoinHorizontal(lipgloss.Left, title, " ", chip)
	if m.opts.DryRun {
		line = lipgloss.JoinHorizontal(lipgloss.Left, line, " ", warningStyle.Render("dry run"))
	}
	if m.lastScan != "" {
		line = lipgloss.JoinVertical(lipgloss.Left, line, mutedStyle.Render("Root: "+m.lastScan))
	}
	return line
}

func (m BrowserModel) statusView() string {
	var lines []string

	switch m.task {
	case taskScan:
		lines = append(lines, statusStyle.Render(fmt.Sprintf("%s Scanning… found %d", m.spinner.View(), m.lastCount)))
	case taskConvert:
		line := fmt.Sprintf("%s Converting %d/%d %s", m.spinner.View(), m.done, m.total, renderProgressBar(m.done, m.total, 20))
		if m.failed > 0 {
			line += " " + dangerStyle.Render(fmt.Sprintf("%d failed", m.failed))
		}
		lines = append(lines, statusStyle.Render(line))
	}

	if m.status != "" {
		style := statusStyle
		if m.errored {
			style = dangerStyle
		}
		lines = append(lines, style.Render(m.status))
	}

	if e := m.selected(); e != nil {
		lines = append(lines, mutedStyle.Render(e.Tooltip()))
		if m.detail {
			for _, c := range e.CommandList() {
				lines = append(lines, mutedStyle.Render("  "+Truncate(c, max(m.width-6, 20))))
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m BrowserModel) footerView() string {
	if m.mode != inputNone {
		return lipgloss.JoinVertical(lipgloss.Left, m.input.View(), mutedStyle.Render("enter confirm · esc cancel"))
	}
	return m.help.View(m.keys)
}

func waitEvent(ch <-chan domain.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{ev: ev}
	}
}

// RunBrowser runs the browser until the user quits
func RunBrowser(ctx context.Context, coll *domain.Collection, scanner Scanner, converter Converter, opts BrowserOptions) error {
	p := tea.NewProgram(NewBrowserModel(ctx, coll, scanner, converter, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
