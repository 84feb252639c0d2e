// Package tui provides the interactive terminal editor for FCB1010 presets
package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fcbtools/fcb1010/pkg/device"
	"github.com/fcbtools/fcb1010/pkg/preset"
)

// Stompbox-inspired color scheme
var (
	pedalAmber = lipgloss.Color("#FFB000")
	pedalCream = lipgloss.Color("#F5F0E1")
	ledRed     = lipgloss.Color("#FF3B30")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pedalAmber).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().
			Foreground(pedalCream).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(pedalAmber).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(pedalAmber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(ledRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pedalAmber).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateBank State = iota
	StateDetail
	StateInput
	StateFilePicker
)

// inputPurpose tells the input state what to do with the submitted text
type inputPurpose int

const (
	inputNewPreset inputPurpose = iota
	inputRename
	inputAddProgramChange
	inputAddControlChange
	inputRemoveProgramChange
	inputRemoveControlChange
	inputSaveAs
)

// sendResultMsg reports the outcome of an asynchronous send to the device
type sendResultMsg struct {
	name string
	err  error
}

// sendPresetCmd opens the hardware connection and transmits the preset's
// events. The device's own logging would tear the alt screen, so it gets a
// discard logger.
func sendPresetCmd(p *preset.Preset) tea.Cmd {
	return func() tea.Msg {
		opts := device.DefaultOptions()
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		dev, err := device.Open(opts)
		if err != nil {
			return sendResultMsg{name: p.Name, err: err}
		}
		defer dev.Close()
		if err := dev.SendPreset(p); err != nil {
			return sendResultMsg{name: p.Name, err: err}
		}
		return sendResultMsg{name: p.Name}
	}
}

// Model represents the TUI model
type Model struct {
	state   State
	bank    *preset.Bank
	file    string // current bank file, "" when unsaved
	changed bool

	bankIndex int // selected preset in the bank list

	purpose    inputPurpose
	input      textinput.Model
	filePicker filepicker.Model

	status string
	err    error
	width  int
	height int
}

// New creates a TUI model editing the given bank. A nil bank starts empty.
func New(bank *preset.Bank, file string) Model {
	if bank == nil {
		bank = preset.NewBank()
	}

	ti := textinput.New()
	ti.CharLimit = 64

	fp := filepicker.New()
	fp.AllowedTypes = []string{".json"}
	fp.CurrentDirectory, _ = os.Getwd()

	return Model{
		state:      StateBank,
		bank:       bank,
		file:       file,
		input:      ti,
		filePicker: fp,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateBank
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			bank, err := preset.LoadFile(path)
			if err != nil {
				m.err = err
			} else {
				m.bank = bank
				m.file = path
				m.bankIndex = 0
				m.changed = false
				m.err = nil
				m.status = fmt.Sprintf("Loaded %d presets from %s", bank.Len(), path)
			}
			m.state = StateBank
			return m, nil
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case sendResultMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.status = fmt.Sprintf("Sent %s to device", msg.name)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateBank:
			return m.updateBank(msg)
		case StateDetail:
			return m.updateDetail(msg)
		case StateInput:
			return m.updateInput(msg)
		}
	}

	return m, nil
}

func (m Model) updateBank(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.bankIndex > 0 {
			m.bankIndex--
		}
	case "down", "j":
		if m.bankIndex < m.bank.Len()-1 {
			m.bankIndex++
		}
	case "enter":
		if m.bank.Len() > 0 {
			m.state = StateDetail
			m.err = nil
		}
	case "n":
		next := m.bank.NextFreeNumber()
		if next < 0 {
			m.err = fmt.Errorf("all preset numbers (0-%d) are in use", preset.MaxNumber)
			return m, nil
		}
		return m.startInput(inputNewPreset, fmt.Sprintf("Preset %d", next), "name for new preset")
	case "d":
		if m.bank.Len() > 0 {
			_ = m.bank.Remove(m.bankIndex)
			if m.bankIndex >= m.bank.Len() && m.bankIndex > 0 {
				m.bankIndex--
			}
			m.changed = true
			m.status = "Preset deleted"
		}
	case "l":
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "s":
		return m.save()
	case "S":
		return m.startInput(inputSaveAs, m.file, "file to save as")
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateBank
		m.err = nil
	case "r":
		p := m.bank.At(m.bankIndex)
		if p != nil {
			return m.startInput(inputRename, p.Name, "new preset name")
		}
	case "p":
		return m.startInput(inputAddProgramChange, "", "program[,channel] e.g. 20,1")
	case "c":
		return m.startInput(inputAddControlChange, "", "controller,value[,channel] e.g. 7,100,0")
	case "P":
		p := m.bank.At(m.bankIndex)
		if p != nil && len(p.ProgramChanges) > 0 {
			return m.startInput(inputRemoveProgramChange, "",
				fmt.Sprintf("program change to remove (1-%d)", len(p.ProgramChanges)))
		}
	case "C":
		p := m.bank.At(m.bankIndex)
		if p != nil && len(p.ControlChanges) > 0 {
			return m.startInput(inputRemoveControlChange, "",
				fmt.Sprintf("control change to remove (1-%d)", len(p.ControlChanges)))
		}
	case "t":
		p := m.bank.At(m.bankIndex)
		if p != nil {
			m.err = nil
			m.status = fmt.Sprintf("Sending %s...", p.Name)
			return m, sendPresetCmd(p)
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) startInput(purpose inputPurpose, value, placeholder string) (tea.Model, tea.Cmd) {
	m.purpose = purpose
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.state = StateInput
	m.err = nil
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = m.returnState()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.input.Blur()
		return m.submitInput(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) returnState() State {
	switch m.purpose {
	case inputNewPreset, inputSaveAs:
		return StateBank
	default:
		return StateDetail
	}
}

func (m Model) submitInput(value string) (tea.Model, tea.Cmd) {
	m.state = m.returnState()

	switch m.purpose {
	case inputNewPreset:
		next := m.bank.NextFreeNumber()
		if next < 0 {
			m.err = fmt.Errorf("all preset numbers (0-%d) are in use", preset.MaxNumber)
			return m, nil
		}
		m.bank.Add(preset.New(next, strings.TrimSpace(value)))
		m.bankIndex = m.bank.Len() - 1
		m.changed = true
		m.state = StateDetail
		m.status = fmt.Sprintf("Created preset %d", next)

	case inputRename:
		p := m.bank.At(m.bankIndex)
		if p != nil && strings.TrimSpace(value) != "" {
			p.Name = strings.TrimSpace(value)
			m.changed = true
			m.status = "Preset renamed"
		}

	case inputAddProgramChange:
		p := m.bank.At(m.bankIndex)
		if p == nil {
			return m, nil
		}
		fields, err := parseFields(value, 1, 2)
		if err != nil {
			m.err = err
			return m, nil
		}
		channel := 0
		if len(fields) > 1 {
			channel = fields[1]
		}
		if err := p.AddProgramChange(fields[0], channel); err != nil {
			m.err = err
			return m, nil
		}
		m.changed = true
		m.status = fmt.Sprintf("Added program change %d on channel %d", fields[0], channel)

	case inputAddControlChange:
		p := m.bank.At(m.bankIndex)
		if p == nil {
			return m, nil
		}
		fields, err := parseFields(value, 2, 3)
		if err != nil {
			m.err = err
			return m, nil
		}
		channel := 0
		if len(fields) > 2 {
			channel = fields[2]
		}
		if err := p.AddControlChange(fields[0], fields[1], channel); err != nil {
			m.err = err
			return m, nil
		}
		m.changed = true
		m.status = fmt.Sprintf("Added control change %d=%d on channel %d", fields[0], fields[1], channel)

	case inputRemoveProgramChange:
		p := m.bank.At(m.bankIndex)
		if p == nil {
			return m, nil
		}
		fields, err := parseFields(value, 1, 1)
		if err != nil {
			m.err = err
			return m, nil
		}
		i := fields[0]
		if i < 1 || i > len(p.ProgramChanges) {
			m.err = fmt.Errorf("no program change #%d", i)
			return m, nil
		}
		p.ProgramChanges = append(p.ProgramChanges[:i-1], p.ProgramChanges[i:]...)
		m.changed = true
		m.status = fmt.Sprintf("Removed program change #%d", i)

	case inputRemoveControlChange:
		p := m.bank.At(m.bankIndex)
		if p == nil {
			return m, nil
		}
		fields, err := parseFields(value, 1, 1)
		if err != nil {
			m.err = err
			return m, nil
		}
		i := fields[0]
		if i < 1 || i > len(p.ControlChanges) {
			m.err = fmt.Errorf("no control change #%d", i)
			return m, nil
		}
		p.ControlChanges = append(p.ControlChanges[:i-1], p.ControlChanges[i:]...)
		m.changed = true
		m.status = fmt.Sprintf("Removed control change #%d", i)

	case inputSaveAs:
		file := strings.TrimSpace(value)
		if file == "" {
			m.err = fmt.Errorf("no filename given")
			return m, nil
		}
		m.file = file
		return m.save()
	}

	return m, nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.file == "" {
		return m.startInput(inputSaveAs, "", "file to save as")
	}
	if err := m.bank.SaveFile(m.file); err != nil {
		m.err = err
		return m, nil
	}
	m.changed = false
	m.status = fmt.Sprintf("Saved %d presets to %s", m.bank.Len(), m.file)
	return m, nil
}

// parseFields splits a comma-separated numeric input
func parseFields(value string, minFields, maxFields int) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) < minFields || len(parts) > maxFields {
		return nil, fmt.Errorf("expected %d-%d comma-separated numbers", minFields, maxFields)
	}
	fields := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", strings.TrimSpace(part))
		}
		fields = append(fields, n)
	}
	return fields, nil
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(logo())
	s.WriteString("\n")

	switch m.state {
	case StateBank:
		s.WriteString(m.viewBank())
	case StateDetail:
		s.WriteString(m.viewDetail())
	case StateInput:
		s.WriteString(m.viewInput())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	} else if m.status != "" {
		s.WriteString("\n")
		s.WriteString(statusStyle.Render(m.status))
	}

	return s.String()
}

func (m Model) viewBank() string {
	var s strings.Builder

	file := m.file
	if file == "" {
		file = "(unsaved)"
	}
	modified := ""
	if m.changed {
		modified = " *"
	}
	s.WriteString(titleStyle.Render(fmt.Sprintf(" PRESETS — %s%s ", file, modified)))
	s.WriteString("\n\n")

	if m.bank.Len() == 0 {
		s.WriteString(itemStyle.Render("No presets. Press n to create one, l to load a file."))
		s.WriteString("\n")
	}

	for i, p := range m.bank.Presets() {
		line := fmt.Sprintf("#%02d  %s  (%d PC, %d CC)",
			p.Number, p.Name, len(p.ProgramChanges), len(p.ControlChanges))
		if i == m.bankIndex {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(itemStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: edit • n: new • d: delete • l: load • s: save • S: save as • q: quit"))
	return boxStyle.Render(s.String())
}

func (m Model) viewDetail() string {
	p := m.bank.At(m.bankIndex)
	if p == nil {
		return itemStyle.Render("No preset selected")
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf(" PRESET #%02d: %s ", p.Number, p.Name)))
	s.WriteString("\n\n")

	s.WriteString(selectedStyle.Render("Program Changes"))
	s.WriteString("\n")
	if len(p.ProgramChanges) == 0 {
		s.WriteString(itemStyle.Render("(none)"))
		s.WriteString("\n")
	}
	for i, pc := range p.ProgramChanges {
		s.WriteString(itemStyle.Render(fmt.Sprintf("%d. program %d on channel %d", i+1, pc.Program, pc.Channel)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(selectedStyle.Render("Control Changes"))
	s.WriteString("\n")
	if len(p.ControlChanges) == 0 {
		s.WriteString(itemStyle.Render("(none)"))
		s.WriteString("\n")
	}
	for i, cc := range p.ControlChanges {
		s.WriteString(itemStyle.Render(fmt.Sprintf("%d. controller %d = %d on channel %d", i+1, cc.Controller, cc.Value, cc.Channel)))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render("r: rename • p: add PC • c: add CC • P/C: remove PC/CC by index • t: send to device • esc: back • q: quit"))
	return boxStyle.Render(s.String())
}

func (m Model) viewInput() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" INPUT "))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: confirm • esc: cancel"))
	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" LOAD PRESET FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back"))
	return s.String()
}

func logo() string {
	text := `
  ███████╗ ██████╗██████╗  ██╗ ██████╗ ██╗ ██████╗
  ██╔════╝██╔════╝██╔══██╗███║██╔═████╗███║██╔═████╗
  █████╗  ██║     ██████╔╝╚██║██║██╔██║╚██║██║██╔██║
  ██╔══╝  ██║     ██╔══██╗ ██║████╔╝██║ ██║████╔╝██║
  ██║     ╚██████╗██████╔╝ ██║╚██████╔╝ ██║╚██████╔╝
  ╚═╝      ╚═════╝╚═════╝  ╚═╝ ╚═════╝  ╚═╝ ╚═════╝`
	return lipgloss.NewStyle().Foreground(pedalAmber).Render(text)
}

// Run starts the TUI editing the bank loaded from file (which may be empty)
func Run(file string) error {
	bank := preset.NewBank()
	if file != "" {
		loaded, err := preset.LoadFile(file)
		switch {
		case err == nil:
			bank = loaded
		case errors.Is(err, os.ErrNotExist):
			// a new file: start empty, save will create it
		default:
			return err
		}
	}

	p := tea.NewProgram(New(bank, file), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
