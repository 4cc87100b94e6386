// internal/tui/tui.go
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quadbotics/spotbot/internal/config"
	"github.com/quadbotics/spotbot/internal/maestro"
	"github.com/quadbotics/spotbot/internal/relay"
	"github.com/quadbotics/spotbot/internal/servos"
	"github.com/quadbotics/spotbot/internal/status"
)

// --- STYLES ---
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#575B7E")).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().Bold(true)

	alarmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("202")).Foreground(lipgloss.Color("0"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	keyColStyle    = lipgloss.NewStyle().Width(4).Padding(0, 1)
	desigColStyle  = lipgloss.NewStyle().Width(6).Padding(0, 1)
	descColStyle   = lipgloss.NewStyle().Width(30).Padding(0, 1)
	chanColStyle   = lipgloss.NewStyle().Width(4).Align(lipgloss.Right).Padding(0, 1)
	numColStyle    = lipgloss.NewStyle().Width(10).Align(lipgloss.Right).Padding(0, 1)
	targetColStyle = lipgloss.NewStyle().Width(10).Align(lipgloss.Right).Padding(0, 1)
)

var usIncrements = []float64{1, 5, 10, 25, 50, 100}
var angleIncrements = []float64{0.5, 1, 5, 10, 20}

type tickMsg time.Time

// Model is the spotbot control screen. All controller access happens
// on the bubbletea event loop, so the serial line sees one caller.
type Model struct {
	rig    *servos.Rig
	relay  *relay.Relay // nil when no relay is configured
	poller *status.Poller
	poses  config.PoseMap

	// Servo map and its file path, so calibration edits can be saved
	// back from the command box.
	servoMap  config.ServoMap
	servoPath string

	interval time.Duration

	snap       status.Snapshot
	lastErrors maestro.ErrorFlags

	selected  int
	angleMode bool
	usInc     int
	angleInc  int

	// Pending y/n confirmation; empty prompt means none.
	pendingPrompt string
	pendingAction func() error

	textInput textinput.Model
	errMsg    string

	width int
}

// NewModel wires the control screen.
func NewModel(rig *servos.Rig, rly *relay.Relay, poller *status.Poller, poses config.PoseMap, servoMap config.ServoMap, servoPath string, interval time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "angle A 90 | us A 1500 | speed A 60 | accel A 4 | stop A | pose sit | home | save"

	return Model{
		rig:       rig,
		relay:     rly,
		poller:    poller,
		poses:     poses,
		servoMap:  servoMap,
		servoPath: servoPath,
		interval:  interval,
		angleMode: true,
		usInc:     3, // 25us
		angleInc:  2, // 5 degrees
		textInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// --- UPDATE ---
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		// Polling runs synchronously here on purpose: the controller
		// is single-threaded and this loop is its only caller.
		m.snap = m.poller.PollOnce()
		if m.snap.Errors != 0 {
			m.lastErrors = m.snap.Errors
		}
		return m, tick(m.interval)
	}

	if m.textInput.Focused() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingPrompt != "" {
		switch msg.String() {
		case "y", "Y":
			action := m.pendingAction
			m.pendingPrompt = ""
			m.pendingAction = nil
			if action == nil {
				// A nil action is the quit confirmation.
				return m, tea.Quit
			}
			m.report(action())
		case "n", "N", "esc":
			m.pendingPrompt = ""
			m.pendingAction = nil
		}
		return m, nil
	}

	if m.textInput.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			m.handleCommand()
			return m, nil
		case tea.KeyCtrlC, tea.KeyEsc:
			m.textInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	list := m.rig.Servos()
	switch msg.String() {
	case "q", "ctrl+c":
		return m.confirm("Quit? y/n", nil), nil
	case "=":
		return m.confirm("Set servos to home position? y/n", m.rig.Home), nil
	case "\\":
		if m.relay != nil {
			prompt := "Enable servo power? y/n"
			if m.relay.IsActive() {
				prompt = "Cut servo power? y/n"
			}
			return m.confirm(prompt, func() error {
				m.relay.Toggle()
				return nil
			}), nil
		}
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(list)-1 {
			m.selected++
		}
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case "m":
		m.angleMode = !m.angleMode
	case "+":
		m.adjustIncrement(1)
	case "-":
		m.adjustIncrement(-1)
	case "s":
		m.report(m.rig.Stop(list[m.selected].Key))
	case "i", "c", ":":
		m.textInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) confirm(prompt string, action func() error) Model {
	m.pendingPrompt = prompt
	m.pendingAction = action
	return m
}

func (m *Model) nudge(direction float64) {
	key := m.rig.Servos()[m.selected].Key
	if m.angleMode {
		m.report(m.rig.NudgeAngle(key, direction*angleIncrements[m.angleInc]))
	} else {
		m.report(m.rig.NudgeUs(key, direction*usIncrements[m.usInc]))
	}
}

func (m *Model) adjustIncrement(direction int) {
	if m.angleMode {
		m.angleInc = clampIndex(m.angleInc+direction, len(angleIncrements))
	} else {
		m.usInc = clampIndex(m.usInc+direction, len(usIncrements))
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m *Model) report(err error) {
	if err != nil {
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
	}
}

func (m *Model) handleCommand() {
	input := strings.TrimSpace(m.textInput.Value())
	m.textInput.SetValue("")
	if input == "" {
		return
	}

	parts := strings.Fields(input)
	switch parts[0] {
	case "home":
		m.report(m.rig.Home())
	case "save":
		stamp := time.Now().Format("2006-01-02 15:04:05")
		m.report(config.SaveServoMap(m.servoPath, m.servoMap, stamp))
	case "stop":
		if len(parts) != 2 {
			m.errMsg = "usage: stop <servo|all>"
			return
		}
		if parts[1] == "all" {
			m.report(m.rig.StopAll())
		} else {
			m.report(m.rig.Stop(strings.ToUpper(parts[1])))
		}
	case "pose":
		if len(parts) != 2 {
			m.errMsg = "usage: pose <name>"
			return
		}
		pose, ok := m.poses[parts[1]]
		if !ok {
			m.errMsg = fmt.Sprintf("unknown pose %q", parts[1])
			return
		}
		m.report(m.rig.ApplyPose(pose))
	case "angle", "us", "speed", "accel":
		if len(parts) != 3 {
			m.errMsg = fmt.Sprintf("usage: %s <servo> <value>", parts[0])
			return
		}
		m.runValueCommand(parts[0], strings.ToUpper(parts[1]), parts[2])
	default:
		m.errMsg = fmt.Sprintf("unknown command %q", parts[0])
	}
}

func (m *Model) runValueCommand(cmd, key, raw string) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.errMsg = fmt.Sprintf("bad value %q", raw)
		return
	}
	switch cmd {
	case "angle":
		m.report(m.rig.MoveAngle(key, value))
	case "us":
		m.report(m.rig.MoveUs(key, value))
	case "speed":
		m.report(m.rig.SetSpeed(key, int(value)))
	case "accel":
		m.report(m.rig.SetAcceleration(key, int(value)))
	}
}

// --- VIEW ---
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("spotbot servo control"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")

	if m.pendingPrompt != "" {
		b.WriteString(alarmStyle.Render(m.pendingPrompt))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(alarmStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.textInput.Focused() {
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"arrows move | m mode | +/- increment | s stop | : command | \\ power | = home | q quit"))
	return b.String()
}

func (m Model) renderTable() string {
	header := keyColStyle.Render("Key") +
		desigColStyle.Render("Desig") +
		descColStyle.Render("Description") +
		chanColStyle.Render("Ch") +
		targetColStyle.Render("Target") +
		numColStyle.Render("Position") +
		numColStyle.Render("Angle")

	rows := []string{statusKeyStyle.Render(header)}

	readings := make(map[int]status.ServoReading, len(m.snap.Readings))
	for _, r := range m.snap.Readings {
		readings[r.Channel] = r
	}

	for i, s := range m.rig.Servos() {
		r, polled := readings[s.Channel]

		target := "-"
		if polled && r.Known {
			target = fmt.Sprintf("%.1f", r.TargetUs)
		}
		position, angle := "-", "-"
		if polled {
			position = fmt.Sprintf("%.1f", r.PositionUs)
			angle = fmt.Sprintf("%.1f", s.UsToAngle(r.PositionUs))
		}

		row := keyColStyle.Render(s.Key) +
			desigColStyle.Render(s.Designation) +
			descColStyle.Render(s.Description) +
			chanColStyle.Render(strconv.Itoa(s.Channel)) +
			targetColStyle.Render(target) +
			numColStyle.Render(position) +
			numColStyle.Render(angle)
		if i == m.selected {
			row = selectedStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusLine() string {
	mode, inc := "∠", fmt.Sprintf("%g°", angleIncrements[m.angleInc])
	if !m.angleMode {
		mode, inc = "µs", fmt.Sprintf("%gµs", usIncrements[m.usInc])
	}

	entries := []string{
		statusKeyStyle.Render("Mode ") + mode,
		statusKeyStyle.Render("Increment ") + inc,
	}
	if m.relay != nil {
		entries = append(entries, statusKeyStyle.Render("Servo Power ")+m.relay.State())
	}
	script := "stopped"
	if m.snap.ScriptRunning {
		script = "running"
	}
	entries = append(entries, statusKeyStyle.Render("Script ")+script)

	if m.lastErrors != 0 {
		entries = append(entries, alarmStyle.Render("Errors "+m.lastErrors.String()))
	}
	entries = append(entries, statusKeyStyle.Render("Time ")+m.snap.At.Format("15:04:05"))

	return strings.Join(entries, "  |  ")
}
