package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"shadercheck/internal/driver"
)

const (
	labelQueued     = "queued"
	labelOK         = "ok"
	labelInvalid    = "invalid"
	labelUnreadable = "unreadable"

	labelWidth = 12
)

// stageInfo - подпись стадии в работе и её вклад в общий прогресс файла.
var stageInfo = map[driver.Stage]struct {
	label  string
	weight float64
}{
	driver.StageLoad:     {"loading", 0.1},
	driver.StageClassify: {"classifying", 0.4},
	driver.StageCache:    {"cached", 0.5},
	driver.StageValidate: {"validating", 0.8},
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type checkModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	width   int
	done    bool
}

type fileRow struct {
	path   string
	status string
	stage  driver.Stage
	final  bool
}

type (
	fileEventMsg driver.Event
	finishedMsg  struct{}
)

// NewProgressModel renders per-file check status for files and quits once
// events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &checkModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, path := range files {
		m.rows[i] = fileRow{path: path, status: labelQueued}
		m.byPath[path] = i
	}
	return m
}

func (m *checkModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

func (m *checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case fileEventMsg:
		cmd = tea.Batch(m.applyEvent(driver.Event(msg)), m.waitEvent())
	case finishedMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	}
	return m, cmd
}

func (m *checkModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}

	title := m.title
	if failing := m.failing(); failing > 0 {
		title += fmt.Sprintf(" (%d failing)", failing)
	}
	if m.done {
		title = "done: " + title
	} else {
		title = m.spinner.View() + " " + title
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title) + "\n\n")
	pathWidth := max(m.width-labelWidth-4, 20)
	for _, row := range m.rows {
		label := statusStyle(row.status).Render(fmt.Sprintf("%*s", labelWidth, row.status))
		fmt.Fprintf(&sb, "  %s %s\n", label, truncate(row.path, pathWidth))
	}
	sb.WriteString("\n")
	if m.done {
		sb.WriteString(m.bar.ViewAs(1))
	} else {
		sb.WriteString(m.bar.View())
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m *checkModel) failing() int {
	n := 0
	for _, row := range m.rows {
		if row.status == labelInvalid || row.status == labelUnreadable {
			n++
		}
	}
	return n
}

// waitEvent блокируется до следующего события драйвера.
func (m *checkModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return fileEventMsg(ev)
		}
		return finishedMsg{}
	}
}

// applyEvent updates the row of ev.File. Rows that already reached done or
// error keep their status.
func (m *checkModel) applyEvent(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok || m.rows[i].final {
		return nil
	}
	row := &m.rows[i]
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		row.status, row.stage = label, ev.Stage
	}
	row.final = ev.Status == driver.StatusDone || ev.Status == driver.StatusError
	return m.bar.SetPercent(m.percent())
}

func (m *checkModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range m.rows {
		if row.final {
			sum++
		} else {
			sum += stageInfo[row.stage].weight
		}
	}
	return sum / float64(len(m.rows))
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return labelQueued
	case driver.StatusWorking:
		return stageInfo[stage].label
	case driver.StatusDone:
		return labelOK
	case driver.StatusError:
		if stage == driver.StageLoad {
			return labelUnreadable
		}
		return labelInvalid
	}
	return ""
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case labelOK:
		return okStyle
	case labelInvalid, labelUnreadable:
		return failStyle
	case labelQueued:
		return idleStyle
	}
	return busyStyle
}

// truncate обрезает value до width колонок терминала.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
