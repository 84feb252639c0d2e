package preset

import (
	"bytes"
	"errors"
	"testing"
)

func TestProgramChangeEncode(t *testing.T) {
	// Exhaustive over the full field ranges: the wire format is the one
	// bit-exact external contract.
	for program := 0; program <= MaxDataValue; program++ {
		for channel := 0; channel <= MaxChannel; channel++ {
			pc, err := NewProgramChange(program, channel)
			if err != nil {
				t.Fatalf("NewProgramChange(%d, %d) error = %v", program, channel, err)
			}
			want := []byte{byte(StatusProgramChange | channel), byte(program)}
			if got := pc.Encode(); !bytes.Equal(got, want) {
				t.Fatalf("Encode(PC %d ch %d) = % X, want % X", program, channel, got, want)
			}
		}
	}
}

func TestControlChangeEncode(t *testing.T) {
	tests := []struct {
		controller, value, channel int
		want                       []byte
	}{
		{0, 0, 0, []byte{0xB0, 0, 0}},
		{7, 100, 0, []byte{0xB0, 7, 100}},
		{64, 127, 9, []byte{0xB9, 64, 127}},
		{127, 127, 15, []byte{0xBF, 127, 127}},
	}

	for _, tt := range tests {
		cc, err := NewControlChange(tt.controller, tt.value, tt.channel)
		if err != nil {
			t.Fatalf("NewControlChange(%d, %d, %d) error = %v", tt.controller, tt.value, tt.channel, err)
		}
		if got := cc.Encode(); !bytes.Equal(got, tt.want) {
			t.Errorf("Encode(CC %d=%d ch %d) = % X, want % X", tt.controller, tt.value, tt.channel, got, tt.want)
		}
	}
}

func TestControlChangeEncodeStatusByte(t *testing.T) {
	for channel := 0; channel <= MaxChannel; channel++ {
		cc, err := NewControlChange(10, 64, channel)
		if err != nil {
			t.Fatalf("NewControlChange error = %v", err)
		}
		if got := cc.Encode()[0]; got != byte(StatusControlChange|channel) {
			t.Errorf("status byte = 0x%02X, want 0x%02X", got, StatusControlChange|channel)
		}
	}
}

func TestNewProgramChangeOutOfRange(t *testing.T) {
	tests := []struct {
		name             string
		program, channel int
	}{
		{"program too high", 128, 0},
		{"program negative", -1, 0},
		{"channel too high", 0, 16},
		{"channel negative", 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProgramChange(tt.program, tt.channel)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("NewProgramChange(%d, %d) error = %v, want ErrOutOfRange", tt.program, tt.channel, err)
			}
		})
	}
}

func TestNewControlChangeOutOfRange(t *testing.T) {
	tests := []struct {
		name                       string
		controller, value, channel int
	}{
		{"controller too high", 128, 0, 0},
		{"controller negative", -1, 0, 0},
		{"value too high", 0, 128, 0},
		{"value negative", 0, -1, 0},
		{"channel too high", 0, 0, 16},
		{"channel negative", 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewControlChange(tt.controller, tt.value, tt.channel)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("NewControlChange(%d, %d, %d) error = %v, want ErrOutOfRange",
					tt.controller, tt.value, tt.channel, err)
			}
		})
	}
}

func TestEventKind(t *testing.T) {
	pc, _ := NewProgramChange(1, 0)
	cc, _ := NewControlChange(1, 2, 0)

	if pc.Kind() != KindProgramChange {
		t.Errorf("ProgramChange Kind() = %q, want %q", pc.Kind(), KindProgramChange)
	}
	if cc.Kind() != KindControlChange {
		t.Errorf("ControlChange Kind() = %q, want %q", cc.Kind(), KindControlChange)
	}
}
