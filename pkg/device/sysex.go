package device

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fcbtools/fcb1010/pkg/preset"
)

// SysEx framing bytes
const (
	SysExStart = 0xF0
	SysExEnd   = 0xF7
)

// behringerID is Behringer's extended manufacturer ID, carried by every
// FCB1010 dump
var behringerID = []byte{0x00, 0x20, 0x32}

// ValidateSysEx checks SysEx frame structure: start/end bytes and a pure
// 7-bit payload
func ValidateSysEx(data []byte) error {
	if len(data) < 2 {
		return errors.New("sysex data too short")
	}
	if data[0] != SysExStart {
		return fmt.Errorf("invalid sysex: expected start byte 0x%02X, got 0x%02X", SysExStart, data[0])
	}
	if data[len(data)-1] != SysExEnd {
		return fmt.Errorf("invalid sysex: expected end byte 0x%02X, got 0x%02X", SysExEnd, data[len(data)-1])
	}
	for i := 1; i < len(data)-1; i++ {
		if data[i] > 127 {
			return fmt.Errorf("invalid sysex: byte at position %d is > 127 (0x%02X)", i, data[i])
		}
	}
	return nil
}

// ManufacturerID extracts the manufacturer ID from a SysEx frame. Extended
// IDs (leading 0x00) are three bytes, classic IDs one.
func ManufacturerID(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errors.New("sysex data too short for manufacturer ID")
	}
	if data[0] != SysExStart {
		return nil, errors.New("invalid sysex start")
	}
	if data[1] == 0x00 {
		if len(data) < 5 {
			return nil, errors.New("sysex data too short for extended manufacturer ID")
		}
		return data[1:4], nil
	}
	return data[1:2], nil
}

// IsBehringerFrame reports whether the SysEx frame carries Behringer's
// manufacturer ID
func IsBehringerFrame(data []byte) bool {
	id, err := ManufacturerID(data)
	if err != nil {
		return false
	}
	return bytes.Equal(id, behringerID)
}

// dumpFrame packs a preset into a placeholder Behringer SysEx frame: slot
// number, then each event's channel nibble and data bytes. The FCB1010
// dump layout is undocumented; this frame only has to honor the 7-bit
// payload rule.
func dumpFrame(p *preset.Preset) []byte {
	frame := []byte{SysExStart}
	frame = append(frame, behringerID...)
	frame = append(frame, byte(p.Number))
	for _, ev := range p.Events() {
		enc := ev.Encode()
		frame = append(frame, enc[0]&0x0F)
		frame = append(frame, enc[1:]...)
	}
	return append(frame, SysExEnd)
}

// ReadPreset requests a preset dump from the hardware.
//
// The FCB1010 bulk dump protocol is not implemented; this is a placeholder
// that returns an empty preset document for the requested slot, matching
// what a dump of a factory-blank slot would yield.
func (d *Device) ReadPreset(number int) (preset.Document, error) {
	if number < 0 || number > preset.MaxNumber {
		return preset.Document{}, fmt.Errorf("preset number %d: %w (0-%d)", number, preset.ErrOutOfRange, preset.MaxNumber)
	}
	d.log.Info("midi: reading preset (stub)", "number", number)
	n := number
	return preset.Document{
		PresetNumber: &n,
		Name:         fmt.Sprintf("Preset %d", number),
	}, nil
}

// WritePreset sends a preset to permanent hardware storage.
//
// Transmission is stubbed for the same reason as ReadPreset, but the dump
// frame is built and checked so a malformed preset fails here rather than
// on the wire.
func (d *Device) WritePreset(doc preset.Document) error {
	p, err := preset.FromDocument(doc)
	if err != nil {
		return err
	}
	frame := dumpFrame(p)
	if err := ValidateSysEx(frame); err != nil {
		return fmt.Errorf("building preset dump: %w", err)
	}
	if !IsBehringerFrame(frame) {
		return errors.New("preset dump is missing the Behringer manufacturer ID")
	}
	d.log.Info("midi: writing preset (dump transmission stubbed)",
		"number", p.Number, "name", p.Name, "bytes", len(frame))
	return nil
}
