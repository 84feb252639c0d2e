// Package preset models FCB1010 presets and their MIDI channel-voice encoding
package preset

import (
	"errors"
	"fmt"
)

// MIDI channel-voice status nibbles
const (
	StatusProgramChange = 0xC0
	StatusControlChange = 0xB0
)

// Field bounds for channel-voice messages
const (
	MaxDataValue = 127 // 7-bit data bytes (program, controller, value)
	MaxChannel   = 15
)

// ErrOutOfRange is returned when a numeric field violates its inclusive
// bound. Values are rejected outright, never masked or clamped.
var ErrOutOfRange = errors.New("value out of range")

// EventKind identifies a channel-voice event variant
type EventKind string

const (
	KindProgramChange EventKind = "program_change"
	KindControlChange EventKind = "control_change"
)

// Event is a validated MIDI channel-voice event that knows its wire encoding
type Event interface {
	Kind() EventKind
	Encode() []byte
}

// ProgramChange selects a numbered program on a receiving device.
// Construct through NewProgramChange; zero value is valid (program 0, channel 0).
type ProgramChange struct {
	Program uint8
	Channel uint8
}

// NewProgramChange validates and builds a Program Change event
func NewProgramChange(program, channel int) (ProgramChange, error) {
	if program < 0 || program > MaxDataValue {
		return ProgramChange{}, fmt.Errorf("program %d: %w (0-%d)", program, ErrOutOfRange, MaxDataValue)
	}
	if channel < 0 || channel > MaxChannel {
		return ProgramChange{}, fmt.Errorf("channel %d: %w (0-%d)", channel, ErrOutOfRange, MaxChannel)
	}
	return ProgramChange{Program: uint8(program), Channel: uint8(channel)}, nil
}

// Kind returns the event variant tag
func (pc ProgramChange) Kind() EventKind {
	return KindProgramChange
}

// Encode returns the 2-byte MIDI wire form: [0xC0|channel, program]
func (pc ProgramChange) Encode() []byte {
	return []byte{StatusProgramChange | pc.Channel, pc.Program}
}

// ControlChange sets a numbered controller to a value.
// Construct through NewControlChange.
type ControlChange struct {
	Controller uint8
	Value      uint8
	Channel    uint8
}

// NewControlChange validates and builds a Control Change event
func NewControlChange(controller, value, channel int) (ControlChange, error) {
	if controller < 0 || controller > MaxDataValue {
		return ControlChange{}, fmt.Errorf("controller %d: %w (0-%d)", controller, ErrOutOfRange, MaxDataValue)
	}
	if value < 0 || value > MaxDataValue {
		return ControlChange{}, fmt.Errorf("value %d: %w (0-%d)", value, ErrOutOfRange, MaxDataValue)
	}
	if channel < 0 || channel > MaxChannel {
		return ControlChange{}, fmt.Errorf("channel %d: %w (0-%d)", channel, ErrOutOfRange, MaxChannel)
	}
	return ControlChange{Controller: uint8(controller), Value: uint8(value), Channel: uint8(channel)}, nil
}

// Kind returns the event variant tag
func (cc ControlChange) Kind() EventKind {
	return KindControlChange
}

// Encode returns the 3-byte MIDI wire form: [0xB0|channel, controller, value]
func (cc ControlChange) Encode() []byte {
	return []byte{StatusControlChange | cc.Channel, cc.Controller, cc.Value}
}
