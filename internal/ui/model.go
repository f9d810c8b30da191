package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkozlov/sheetchart/internal/chart"
	"github.com/mkozlov/sheetchart/internal/export"
	"github.com/mkozlov/sheetchart/internal/sheet"
	"github.com/mkozlov/sheetchart/internal/stats"
)

type state int

const (
	stateFilePicker state = iota
	stateLoading
	stateBrowse
)

const (
	toastLoaded       = "File loaded"
	toastEmpty        = "File has no data rows"
	toastLoadFailed   = "Could not read file"
	toastExported     = "Chart saved to " + export.FileName
	toastExportFailed = "Could not save chart"
)

const toastDuration = 3 * time.Second

type keyMap struct {
	CycleX key.Binding
	CycleY key.Binding
	Style  key.Binding
	Export key.Binding
	Open   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CycleX: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "next x field")),
		CycleY: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "next y field")),
		Style:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "chart style")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export png")),
		Open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CycleX, k.CycleY, k.Style, k.Export, k.Open, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CycleX, k.CycleY, k.Style},
		{k.Export, k.Open, k.Quit},
	}
}

// Model holds the current snapshot: dataset, axis binding and style.
// Every successful load replaces dataset and binding wholesale; axis
// and style changes derive a fresh projection and summary, never
// mutating rows in place.
type Model struct {
	state      state
	filepicker filepicker.Model
	spinner    spinner.Model
	preview    table.Model
	help       help.Model
	keys       keyMap

	// loadSeq tags each issued decode; results carrying an older seq
	// are stale and get dropped, so the last issued load always wins.
	loadSeq  int
	fileName string

	dataset sheet.Dataset
	binding chart.Binding
	style   chart.Style
	summary *stats.Summary
	data    chart.Data

	toast    string
	toastErr bool
	toastSeq int

	width  int
	height int
}

type dataLoadedMsg struct {
	seq     int
	name    string
	dataset sheet.Dataset
	err     error
}

type exportDoneMsg struct {
	err error
}

type clearToastMsg struct {
	seq int
}

func InitialModel() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563EB"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563EB")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563EB"))

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		spinner:    sp,
		help:       help.New(),
		keys:       defaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 10
		if height < 5 {
			height = 5
		}
		m.filepicker.Height = height

		if !m.dataset.Empty() {
			m = m.rebuildPreview()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker, stateLoading:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateBrowse:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.CycleX):
				m.binding = cycleAxis(m.binding, chart.AxisX, m.dataset.Fields)
				return m.refresh(), nil
			case key.Matches(msg, m.keys.CycleY):
				m.binding = cycleAxis(m.binding, chart.AxisY, m.dataset.Fields)
				return m.refresh(), nil
			case key.Matches(msg, m.keys.Style):
				m.style = m.style.Next()
				return m.refresh(), nil
			case key.Matches(msg, m.keys.Export):
				return m.exportChart()
			case key.Matches(msg, m.keys.Open):
				m.state = stateFilePicker
				return m, m.filepicker.Init()
			}
		}

	case dataLoadedMsg:
		return m.applyLoad(msg)

	case exportDoneMsg:
		if msg.err != nil {
			return m.showToast(toastExportFailed, true)
		}
		return m.showToast(toastExported, false)

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == stateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.startLoad(path)
		}

		return m, cmd
	}

	if m.state == stateBrowse {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	return m, nil
}

// startLoad issues a decode off the Update loop, tagged with the next
// sequence number.
func (m Model) startLoad(path string) (Model, tea.Cmd) {
	m.loadSeq++
	seq := m.loadSeq
	m.state = stateLoading

	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			ds, err := sheet.File(path)
			return dataLoadedMsg{seq: seq, name: filepath.Base(path), dataset: ds, err: err}
		},
	)
}

func (m Model) applyLoad(msg dataLoadedMsg) (Model, tea.Cmd) {
	if msg.seq != m.loadSeq {
		// A newer load was issued after this one; drop the result.
		return m, nil
	}
	if msg.err != nil {
		m.state = m.fallbackState()
		return m.showToast(toastLoadFailed, true)
	}
	if msg.dataset.Empty() {
		// Decoded fine but has no data rows; keep whatever was loaded.
		m.state = m.fallbackState()
		return m.showToast(toastEmpty, false)
	}

	m.fileName = msg.name
	m.dataset = msg.dataset
	m.binding = chart.DefaultBinding(msg.dataset.Fields)
	m.state = stateBrowse
	m = m.refresh()
	return m.showToast(toastLoaded, false)
}

// fallbackState returns to the previous data when there is some, and
// to the picker when there is not.
func (m Model) fallbackState() state {
	if m.dataset.Empty() {
		return stateFilePicker
	}
	return stateBrowse
}

// refresh recomputes everything derived from the snapshot.
func (m Model) refresh() Model {
	m.summary = stats.Compute(m.dataset.Rows, m.binding.Y)
	if m.binding.Ready() {
		m.data = chart.Project(m.dataset.Rows, m.binding, m.style)
	} else {
		m.data = chart.Data{Style: m.style}
	}
	return m.rebuildPreview()
}

// cycleAxis moves the axis to the next field in order, wrapping at the
// end. An unbound axis starts at the first field.
func cycleAxis(b chart.Binding, axis chart.Axis, fields []string) chart.Binding {
	if len(fields) == 0 {
		return b
	}
	current := b.X
	if axis == chart.AxisY {
		current = b.Y
	}
	next := fields[0]
	for i, f := range fields {
		if f == current {
			next = fields[(i+1)%len(fields)]
			break
		}
	}
	return b.WithAxis(axis, next, fields)
}

func (m Model) exportChart() (Model, tea.Cmd) {
	if m.dataset.Empty() || !m.binding.Ready() {
		return m, nil
	}
	d := m.data
	b := m.binding
	return m, func() tea.Msg {
		return exportDoneMsg{err: export.File(export.FileName, d, b.X, b.Y)}
	}
}

func (m Model) showToast(text string, isErr bool) (Model, tea.Cmd) {
	m.toast = text
	m.toastErr = isErr
	m.toastSeq++
	seq := m.toastSeq
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

func (m Model) rebuildPreview() Model {
	rows, _ := m.dataset.Preview(sheet.PreviewLimit)

	colWidth := 16
	if n := len(m.dataset.Fields); n > 0 && m.width > 0 {
		colWidth = (m.width - 6) / n
		if colWidth < 6 {
			colWidth = 6
		}
		if colWidth > 20 {
			colWidth = 20
		}
	}

	cols := make([]table.Column, len(m.dataset.Fields))
	for i, f := range m.dataset.Fields {
		cols[i] = table.Column{Title: f, Width: colWidth}
	}

	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		tr := make(table.Row, len(m.dataset.Fields))
		for j, f := range m.dataset.Fields {
			tr[j] = r[f].String()
		}
		trows[i] = tr
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(trows),
		table.WithHeight(len(trows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(lipgloss.Color("#60A5FA"))
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	m.preview = t
	return m
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateLoading:
		return m.viewLoading()
	case stateBrowse:
		return m.viewBrowse()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 sheetchart"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV or XLSX file to chart"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n")
	s.WriteString(m.toastLine())
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 sheetchart"))
	s.WriteString("\n\n")
	s.WriteString(m.spinner.View())
	s.WriteString("Reading file...")

	return BoxStyle.Render(s.String())
}

func (m Model) viewBrowse() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 " + m.fileName))
	s.WriteString("\n")

	yLabel := m.binding.Y
	if yLabel == "" {
		yLabel = "(unset)"
	}
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("x: %s • y: %s • style: %s",
		m.binding.X, yLabel, m.style)))
	s.WriteString("\n")

	s.WriteString(m.viewChart())
	s.WriteString("\n")
	s.WriteString(m.viewStats())
	s.WriteString("\n")
	s.WriteString(m.viewPreview())
	s.WriteString("\n")
	s.WriteString(m.toastLine())
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

func (m Model) viewChart() string {
	title := PanelTitleStyle.Render(strings.ToUpper(m.style.String()) + " CHART")
	body := renderChart(m.data, m.chartWidth())
	if !m.binding.Ready() {
		body = ChartLabelStyle.Render("pick a y field to draw the chart")
	}
	return CardStyle.Width(m.chartWidth() + 2).Render(title + "\n" + body)
}

func (m Model) chartWidth() int {
	w := m.width - 6
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) viewStats() string {
	if m.summary == nil {
		note := "no numeric values in the y field"
		if m.binding.Y == "" {
			note = "pick a y field to see statistics"
		}
		return CardStyle.Render(CardTitleStyle.Render("STATISTICS") + "\n" + ChartLabelStyle.Render(note))
	}

	sum := m.summary
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Count", fmt.Sprintf("%d", sum.Count)),
		statCard("Sum", formatChartValue(sum.Sum)),
		statCard("Mean", formatChartValue(sum.Mean)),
		statCard("Min", formatChartValue(sum.Min)),
		statCard("Max", formatChartValue(sum.Max)),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Median", formatChartValue(sum.Median)),
		statCard("Std Dev", formatChartValue(sum.StdDev)),
		statCard("Q1", formatChartValue(sum.Q1)),
		statCard("Q3", formatChartValue(sum.Q3)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func statCard(title, value string) string {
	return CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		CardTitleStyle.Render(title),
		CardValueStyle.Render(value),
	))
}

func (m Model) viewPreview() string {
	var s strings.Builder
	s.WriteString(PanelTitleStyle.Render("PREVIEW"))
	s.WriteString("\n")
	s.WriteString(m.preview.View())

	if shown, truncated := m.dataset.Preview(sheet.PreviewLimit); truncated {
		s.WriteString("\n")
		s.WriteString(SubtitleStyle.Render(fmt.Sprintf("showing %d of %d rows", len(shown), len(m.dataset.Rows))))
	}
	return s.String()
}

func (m Model) toastLine() string {
	if m.toast == "" {
		return "\n"
	}
	if m.toastErr {
		return ToastErrorStyle.Render("✗ "+m.toast) + "\n"
	}
	return ToastStyle.Render("✓ "+m.toast) + "\n"
}
