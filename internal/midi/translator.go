package midi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
)

// Brightness is a duty cycle ratio. Zero fields take the defaults 1/5.
type Brightness struct {
	Numerator   int
	Denominator int
}

// DefaultBrightness is the device's power-on duty cycle
var DefaultBrightness = Brightness{Numerator: 1, Denominator: 5}

// Duty cycle controllers: one bank per numerator range
const (
	dutyCycleLow  byte = 0x1E // numerator 1-8
	dutyCycleHigh byte = 0x1F // numerator 9-16
)

// Controller 0 commands
const (
	resetAll      byte = 0x00
	mappingXY     byte = 0x01
	mappingDrum   byte = 0x02
	autoFlash     byte = 0x28
	bufferBase    byte = 0x20
	testLevelBase byte = 0x7C
)

// rapidMessages is the number of rapid update messages per frame
const rapidMessages = (NumButtons - 1) / 2

// MappingMode selects how the device numbers its grid notes
type MappingMode byte

const (
	MappingXY       MappingMode = MappingMode(mappingXY)
	MappingDrumRack MappingMode = MappingMode(mappingDrum)
)

// Buffers selects the displayed and updated LED buffers (0 or 1)
type Buffers struct {
	Display int
	Update  int
	Flash   bool // swap the displayed buffer automatically
	Copy    bool // copy the new display buffer into the update buffer
}

// Frame holds one color per position, indexed like the button table
type Frame [NumButtons]Color

// Set stores c at p; invalid positions are ignored
func (f *Frame) Set(p Position, c Color) {
	if p.Valid() {
		f[p.index()] = c
	}
}

// At returns the color stored at p
func (f *Frame) At(p Position) Color {
	if !p.Valid() {
		return Off
	}
	return f[p.index()]
}

// Fill sets every position to c
func (f *Frame) Fill(c Color) {
	for i := range f {
		f[i] = c
	}
}

// Translator converts between raw MIDI and the button/LED model. It owns
// the button table; outbound messages go through send.
type Translator struct {
	layout *Layout
	send   func(msg midi.Message) error
	log    logrus.FieldLogger

	mu      sync.RWMutex
	buttons [NumButtons]ButtonState
}

// NewTranslator creates a translator writing through send
func NewTranslator(send func(msg midi.Message) error, log logrus.FieldLogger) *Translator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	t := &Translator{
		layout: NewLayout(),
		send:   send,
		log:    log,
	}
	t.buttons = t.layout.buttons
	return t
}

// Layout returns the coordinate table
func (t *Translator) Layout() *Layout {
	return t.layout
}

// Process decodes one inbound message and updates the pressed state.
// It returns false when the message does not address a button.
func (t *Translator) Process(delta time.Duration, msg []byte) (KeyEvent, bool) {
	p, pressed, err := t.layout.Decode(msg)
	if err != nil {
		entry := t.log.WithField("message", fmt.Sprintf("% X", msg))
		if errors.Is(err, ErrUnknownStatus) {
			entry.Warn("ignoring message with unknown status")
		} else {
			entry.WithError(err).Debug("ignoring unmapped message")
		}
		return KeyEvent{}, false
	}

	t.mu.Lock()
	t.buttons[p.index()].Pressed = pressed
	t.mu.Unlock()

	return KeyEvent{X: p.X, Y: p.Y, Pressed: pressed, Delta: delta}, true
}

// SetColor lights the LED at p
func (t *Translator) SetColor(c Color, p Position) error {
	command, key, err := t.layout.Address(p)
	if err != nil {
		return err
	}
	if err := t.write(ledMessage(command, key, c)); err != nil {
		return err
	}

	t.mu.Lock()
	t.buttons[p.index()].Color = c
	t.mu.Unlock()
	return nil
}

// SetColorMany lights each LED in order, one message per position.
// All positions are checked before anything is sent.
func (t *Translator) SetColorMany(c Color, positions []Position) error {
	for _, p := range positions {
		if !p.Valid() {
			return invalidPosition(p)
		}
	}
	for _, p := range positions {
		if err := t.SetColor(c, p); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBrightness builds the duty cycle message for b
func EncodeBrightness(b Brightness) midi.Message {
	num, den := b.Numerator, b.Denominator
	if num == 0 {
		num = DefaultBrightness.Numerator
	}
	if den == 0 {
		den = DefaultBrightness.Denominator
	}
	num = clamp(num, 1, 16)
	den = clamp(den, 3, 18)

	if num <= 8 {
		return midi.ControlChange(0, dutyCycleLow, byte(0x10*(num-1)+(den-3)))
	}
	return midi.ControlChange(0, dutyCycleHigh, byte(0x10*(num-9)+(den-3)))
}

// SetBrightness sets the LED multiplexing duty cycle
func (t *Translator) SetBrightness(b Brightness) error {
	return t.write(EncodeBrightness(b))
}

// Reset clears all LEDs and device state. A level of 1-3 instead lights
// every LED at that brightness.
func (t *Translator) Reset(level int) error {
	value := resetAll
	fill := Off
	if level >= 1 && level <= 3 {
		value = testLevelBase + byte(level)
		fill = Compose(level, level, ModeNormal)
	}
	if err := t.write(midi.ControlChange(0, 0, value)); err != nil {
		return err
	}

	t.mu.Lock()
	for i := range t.buttons {
		t.buttons[i].Color = fill
	}
	t.mu.Unlock()
	return nil
}

// SetBuffers selects display and update buffers for double buffering
func (t *Translator) SetBuffers(b Buffers) error {
	if b.Display < 0 || b.Display > 1 {
		return &ValidationError{Field: "display buffer", Value: b.Display, Reason: "want 0 or 1"}
	}
	if b.Update < 0 || b.Update > 1 {
		return &ValidationError{Field: "update buffer", Value: b.Update, Reason: "want 0 or 1"}
	}
	value := bufferBase + byte(4*b.Update+b.Display)
	if b.Copy {
		value += 16
	}
	if b.Flash {
		value += 8
	}
	return t.write(midi.ControlChange(0, 0, value))
}

// AutoFlash makes the device alternate buffers on its own so that colors
// written in ModeFlash blink
func (t *Translator) AutoFlash() error {
	return t.write(midi.ControlChange(0, 0, autoFlash))
}

// SetMappingMode switches the grid note layout
func (t *Translator) SetMappingMode(m MappingMode) error {
	if m != MappingXY && m != MappingDrumRack {
		return &ValidationError{Field: "mapping mode", Value: byte(m), Reason: "want xy or drum rack"}
	}
	return t.write(midi.ControlChange(0, 0, byte(m)))
}

// rapidOrder lists positions in the device's rapid update order:
// grid left-to-right top-to-bottom, scene column, then automap row.
var rapidOrder = func() []Position {
	order := make([]Position, 0, NumButtons-1)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			order = append(order, Position{X: x, Y: y})
		}
	}
	for y := 0; y < GridSize; y++ {
		order = append(order, Position{X: SceneCol, Y: y})
	}
	for x := 0; x < GridSize; x++ {
		order = append(order, Position{X: x, Y: AutomapRow})
	}
	return order
}()

// SetFrame writes every LED using the rapid update protocol, two LEDs per
// message
func (t *Translator) SetFrame(f Frame) error {
	// Any mapping mode message resets the rapid update cursor
	if err := t.write(midi.ControlChange(0, 0, mappingXY)); err != nil {
		return err
	}
	for i := 0; i < rapidMessages; i++ {
		a, b := rapidOrder[2*i], rapidOrder[2*i+1]
		msg := midi.Message{StatusRapid, byte(f.At(a)), byte(f.At(b))}
		if err := t.write(msg); err != nil {
			return fmt.Errorf("failed to send frame at %s: %w", a, err)
		}
	}

	t.mu.Lock()
	for _, p := range rapidOrder {
		t.buttons[p.index()].Color = f.At(p)
	}
	t.mu.Unlock()
	return nil
}

// Pressed returns the pressed positions in row-major order
func (t *Translator) Pressed() []Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Position
	for i, b := range t.buttons {
		if b.Pressed {
			out = append(out, positionAt(i))
		}
	}
	return out
}

// IsPressed reports whether the button at (x, y) is held down
func (t *Translator) IsPressed(x, y int) (bool, error) {
	p := Position{X: x, Y: y}
	if !p.Valid() {
		return false, invalidPosition(p)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.buttons[p.index()].Pressed, nil
}

// LED returns the last color written to p
func (t *Translator) LED(p Position) (Color, error) {
	if !p.Valid() {
		return Off, invalidPosition(p)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.buttons[p.index()].Color, nil
}

// Snapshot copies the button table
func (t *Translator) Snapshot() [NumButtons]ButtonState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.buttons
}

func (t *Translator) write(msg midi.Message) error {
	if t.send == nil {
		return ErrNotConnected
	}
	t.log.WithField("message", msg.String()).Trace("send")
	return t.send(msg)
}

func ledMessage(command, key byte, c Color) midi.Message {
	if command == StatusControl {
		return midi.ControlChange(0, key, byte(c))
	}
	return midi.NoteOn(0, key, byte(c))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
