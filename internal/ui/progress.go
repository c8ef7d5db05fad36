package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"syntex/internal/driver"
)

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status fileState
	err    string
}

// fileState is the label shown next to a file.
type fileState string

const (
	stateQueued    fileState = "queued"
	stateLoading   fileState = "loading"
	stateExpanding fileState = "expanding"
	stateWriting   fileState = "writing"
	stateDone      fileState = "done"
	stateCached    fileState = "cached"
	stateError     fileState = "error"
)

type stateInfo struct {
	color  string  // ANSI color index
	weight float64 // share of the file's work finished
}

var states = map[fileState]stateInfo{
	stateQueued:    {"7", 0},
	stateLoading:   {"6", 0.1},
	stateExpanding: {"6", 0.4},
	stateWriting:   {"6", 0.9},
	stateDone:      {"2", 1},
	stateCached:    {"4", 1},
	stateError:     {"1", 1},
}

func (s fileState) final() bool { return states[s].weight == 1 }

var stageStates = map[driver.Stage]fileState{
	driver.StageLoad:   stateLoading,
	driver.StageExpand: stateExpanding,
	driver.StageWrite:  stateWriting,
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders batch expansion
// progress. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	return newProgressModel(title, files, events)
}

func newProgressModel(title string, files []string, events <-chan driver.Event) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: stateQueued})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

// RunProgress renders progress to out until events is closed. Keyboard
// input is not read.
func RunProgress(title string, files []string, events <-chan driver.Event, out io.Writer) error {
	p := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// counts returns finished, failed and cached file counts.
func (m *progressModel) counts() (finished, failed, cached int) {
	for _, it := range m.items {
		if !it.status.final() {
			continue
		}
		finished++
		switch it.status {
		case stateError:
			failed++
		case stateCached:
			cached++
		}
	}
	return finished, failed, cached
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	finished, failed, cached := m.counts()
	header := fmt.Sprintf("%s [%d/%d]", m.title, finished, len(m.items))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	if cached > 0 {
		header += fmt.Sprintf(", %d cached", cached)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-4, 20)
	errStyle := lipgloss.NewStyle().Faint(true)

	for _, item := range m.items {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(states[item.status].color))
		statusStyled := style.Render(fmt.Sprintf("%*s", statusWidth, item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(item.path, nameWidth))
		if item.err != "" {
			b.WriteString(strings.Repeat(" ", statusWidth+3))
			b.WriteString(errStyle.Render(truncate(item.err, nameWidth)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

// applyEvent moves one file forward. A finished file only changes again on
// an error, e.g. a failed write after a cached expansion.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.status.final() && ev.Status != driver.StatusError {
		return nil
	}
	if next, ok := nextState(ev); ok {
		item.status = next
	}
	if ev.Err != nil {
		item.err = ev.Err.Error()
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range m.items {
		sum += states[item.status].weight
	}
	return sum / float64(len(m.items))
}

// nextState: only the write stage finishes a file, "done" events of
// earlier stages just advance it.
func nextState(ev driver.Event) (fileState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return stateQueued, true
	case driver.StatusCached:
		return stateCached, true
	case driver.StatusError:
		return stateError, true
	case driver.StatusDone:
		if ev.Stage == driver.StageWrite {
			return stateDone, true
		}
	}
	s, ok := stageStates[ev.Stage]
	return s, ok && ev.Status != ""
}

// truncate shortens to width display columns, "..." included when it fits.
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
