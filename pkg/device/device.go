// Package device talks to FCB1010 hardware over MIDI ports
package device

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/fcbtools/fcb1010/pkg/preset"
)

// portNamePattern is matched against port names when auto-selecting
const portNamePattern = "FCB1010"

// Options configure a device connection
type Options struct {
	// InputPort / OutputPort select ports by index. Negative means
	// auto-select: the first port whose name contains "FCB1010",
	// else the first available port.
	InputPort  int
	OutputPort int
	Logger     *slog.Logger
}

// DefaultOptions auto-selects both ports and logs to slog.Default()
func DefaultOptions() Options {
	return Options{InputPort: -1, OutputPort: -1}
}

// Device is a connection to an FCB1010 over MIDI in/out ports. It tracks
// the last Program Change observed on the input port so callers can read
// the controller's current program.
type Device struct {
	mu      sync.Mutex
	drv     *rtmididrv.Driver
	in      drivers.In
	out     drivers.Out
	send    func(msg gomidi.Message) error
	stop    func()
	log     *slog.Logger
	current int // last observed program, -1 until one arrives
}

// Open initialises the rtmidi driver and connects to the selected ports.
// Call Close when done.
func Open(opts Options) (*Device, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	d := &Device{drv: drv, log: log, current: -1}

	if err := d.openOutput(opts.OutputPort); err != nil {
		drv.Close()
		return nil, err
	}
	if err := d.openInput(opts.InputPort); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) openOutput(index int) error {
	outs, err := d.drv.Outs()
	if err != nil {
		return fmt.Errorf("list outputs: %w", err)
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	d.log.Info("midi: available output ports", "ports", names)

	i := pickPort(names, index)
	if i < 0 {
		return fmt.Errorf("no MIDI output port available")
	}

	send, err := gomidi.SendTo(outs[i])
	if err != nil {
		return fmt.Errorf("open output %q: %w", names[i], err)
	}
	d.out = outs[i]
	d.send = send
	d.log.Info("midi: connected output", "port", names[i])
	return nil
}

func (d *Device) openInput(index int) error {
	ins, err := d.drv.Ins()
	if err != nil {
		return fmt.Errorf("list inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	d.log.Info("midi: available input ports", "ports", names)

	i := pickPort(names, index)
	if i < 0 {
		return fmt.Errorf("no MIDI input port available")
	}

	stop, err := gomidi.ListenTo(ins[i], d.handleMessage, gomidi.HandleError(func(listenErr error) {
		d.log.Error("midi: listen error", "err", listenErr)
	}))
	if err != nil {
		return fmt.Errorf("open input %q: %w", names[i], err)
	}
	d.in = ins[i]
	d.stop = stop
	d.log.Info("midi: connected input", "port", names[i])
	return nil
}

// handleMessage observes inbound traffic. Only Program Changes are
// tracked; everything else belongs to collaborators that parse raw bytes.
func (d *Device) handleMessage(msg gomidi.Message, _ int32) {
	var channel, program uint8
	if msg.GetProgramChange(&channel, &program) {
		d.mu.Lock()
		d.current = int(program)
		d.mu.Unlock()
		d.log.Debug("midi: program change received", "program", program, "channel", channel)
	}
}

// CurrentProgram returns the last program number observed on the input
// port, or -1 when none has arrived yet
func (d *Device) CurrentProgram() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// SendEvent transmits a single encoded channel-voice event
func (d *Device) SendEvent(ev preset.Event) error {
	if d.send == nil {
		return fmt.Errorf("no output port open")
	}
	return d.send(gomidi.Message(ev.Encode()))
}

// SendPreset transmits every event of the preset in its defined order:
// program changes first, then control changes
func (d *Device) SendPreset(p *preset.Preset) error {
	for _, ev := range p.Events() {
		if err := d.SendEvent(ev); err != nil {
			return fmt.Errorf("send %s: %w", ev.Kind(), err)
		}
	}
	d.log.Info("midi: preset sent", "number", p.Number, "name", p.Name,
		"events", len(p.ProgramChanges)+len(p.ControlChanges))
	return nil
}

// Close stops the input listener and shuts down the driver
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
	if d.drv != nil {
		d.drv.Close()
		d.drv = nil
	}
	d.log.Info("midi: closed connections")
}

// pickPort chooses a port index from names. An explicit in-bounds index
// wins; otherwise the first name containing the FCB1010 pattern, else
// port 0. Returns -1 when no port exists.
func pickPort(names []string, index int) int {
	if index >= 0 && index < len(names) {
		return index
	}
	if len(names) == 0 {
		return -1
	}
	for i, name := range names {
		if strings.Contains(name, portNamePattern) {
			return i
		}
	}
	return 0
}
