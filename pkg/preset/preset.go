package preset

import "fmt"

// MaxNumber is the highest FCB1010 preset slot. The range is advisory at
// construction time; slot allocation (NextFreeNumber) enforces it.
const MaxNumber = 99

// Preset is a named, numbered bundle of Program/Control Change events.
// Both event sequences keep insertion order, which defines transmission order.
type Preset struct {
	Number         int
	Name           string
	ProgramChanges []ProgramChange
	ControlChanges []ControlChange
}

// New creates a preset. An empty name defaults to "Preset {number}".
func New(number int, name string) *Preset {
	if name == "" {
		name = fmt.Sprintf("Preset %d", number)
	}
	return &Preset{Number: number, Name: name}
}

// AddProgramChange validates and appends a Program Change.
// On error nothing is appended.
func (p *Preset) AddProgramChange(program, channel int) error {
	pc, err := NewProgramChange(program, channel)
	if err != nil {
		return err
	}
	p.ProgramChanges = append(p.ProgramChanges, pc)
	return nil
}

// AddControlChange validates and appends a Control Change.
// On error nothing is appended.
func (p *Preset) AddControlChange(controller, value, channel int) error {
	cc, err := NewControlChange(controller, value, channel)
	if err != nil {
		return err
	}
	p.ControlChanges = append(p.ControlChanges, cc)
	return nil
}

// Events returns all events in transmission order: program changes first,
// then control changes, each in insertion order.
func (p *Preset) Events() []Event {
	events := make([]Event, 0, len(p.ProgramChanges)+len(p.ControlChanges))
	for _, pc := range p.ProgramChanges {
		events = append(events, pc)
	}
	for _, cc := range p.ControlChanges {
		events = append(events, cc)
	}
	return events
}

// Equal reports structural equality: number, name, and both event
// sequences in order.
func (p *Preset) Equal(o *Preset) bool {
	if p.Number != o.Number || p.Name != o.Name {
		return false
	}
	if len(p.ProgramChanges) != len(o.ProgramChanges) || len(p.ControlChanges) != len(o.ControlChanges) {
		return false
	}
	for i, pc := range p.ProgramChanges {
		if pc != o.ProgramChanges[i] {
			return false
		}
	}
	for i, cc := range p.ControlChanges {
		if cc != o.ControlChanges[i] {
			return false
		}
	}
	return true
}
