package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fcbtools/fcb1010/pkg/preset"
)

func detailModel(t *testing.T) Model {
	t.Helper()

	p := preset.New(0, "Rhythm")
	if err := p.AddProgramChange(20, 1); err != nil {
		t.Fatalf("AddProgramChange() error = %v", err)
	}
	if err := p.AddProgramChange(30, 0); err != nil {
		t.Fatalf("AddProgramChange() error = %v", err)
	}
	if err := p.AddControlChange(7, 100, 1); err != nil {
		t.Fatalf("AddControlChange() error = %v", err)
	}

	bank := preset.NewBank()
	bank.Add(p)

	m := New(bank, "")
	m.state = StateDetail
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDetailSendKeyDispatchesCommand(t *testing.T) {
	m := detailModel(t)

	updated, cmd := m.updateDetail(keyMsg("t"))
	if cmd == nil {
		t.Fatal("pressing t should dispatch a send command")
	}

	got := updated.(Model)
	if !strings.Contains(got.status, "Sending") {
		t.Errorf("status = %q, want sending notice", got.status)
	}
}

func TestSendResultUpdatesModel(t *testing.T) {
	m := detailModel(t)

	updated, _ := m.Update(sendResultMsg{name: "Rhythm"})
	got := updated.(Model)
	if got.status != "Sent Rhythm to device" {
		t.Errorf("status = %q, want %q", got.status, "Sent Rhythm to device")
	}
	if got.err != nil {
		t.Errorf("err = %v, want nil", got.err)
	}

	sendErr := errors.New("no MIDI output ports available")
	updated, _ = m.Update(sendResultMsg{name: "Rhythm", err: sendErr})
	got = updated.(Model)
	if got.err == nil || got.err.Error() != sendErr.Error() {
		t.Errorf("err = %v, want %v", got.err, sendErr)
	}
}

func TestRemoveKeysPromptForIndex(t *testing.T) {
	m := detailModel(t)

	updated, _ := m.updateDetail(keyMsg("P"))
	got := updated.(Model)
	if got.state != StateInput {
		t.Fatalf("state = %v, want StateInput", got.state)
	}
	if !strings.Contains(got.input.Placeholder, "(1-2)") {
		t.Errorf("placeholder = %q, want range hint (1-2)", got.input.Placeholder)
	}
}

func TestRemoveProgramChangeByIndex(t *testing.T) {
	m := detailModel(t)
	m.purpose = inputRemoveProgramChange

	updated, _ := m.submitInput("1")
	got := updated.(Model)

	p := got.bank.At(0)
	if len(p.ProgramChanges) != 1 {
		t.Fatalf("len(ProgramChanges) = %d, want 1", len(p.ProgramChanges))
	}
	if p.ProgramChanges[0].Program != 30 {
		t.Errorf("remaining program = %d, want 30", p.ProgramChanges[0].Program)
	}
	if !got.changed {
		t.Error("removal should mark the bank as changed")
	}
}

func TestRemoveControlChangeByIndex(t *testing.T) {
	m := detailModel(t)
	m.purpose = inputRemoveControlChange

	updated, _ := m.submitInput("1")
	got := updated.(Model)

	p := got.bank.At(0)
	if len(p.ControlChanges) != 0 {
		t.Errorf("len(ControlChanges) = %d, want 0", len(p.ControlChanges))
	}
}

func TestRemoveEventIndexOutOfRange(t *testing.T) {
	m := detailModel(t)
	m.purpose = inputRemoveProgramChange

	updated, _ := m.submitInput("5")
	got := updated.(Model)

	if got.err == nil {
		t.Fatal("out-of-range index should set an error")
	}
	if n := len(got.bank.At(0).ProgramChanges); n != 2 {
		t.Errorf("len(ProgramChanges) = %d, want 2 (unchanged)", n)
	}
}
