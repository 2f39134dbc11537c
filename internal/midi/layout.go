package midi

import "fmt"

// Status bytes used by the surface (channel 1)
const (
	StatusNote    byte = 0x90
	StatusControl byte = 0xB0
	StatusRapid   byte = 0x92 // note-on channel 3, rapid LED update
)

// automapBase is the controller number of the leftmost automap button
const automapBase byte = 0x68

// Layout maps positions to (command, key) pairs and back. It is built once
// and never modified.
type Layout struct {
	buttons [NumButtons]ButtonState
}

// NewLayout builds the table for all 81 positions
func NewLayout() *Layout {
	l := &Layout{}
	for i := range l.buttons {
		x, y := i%Columns, i/Columns
		if y >= AutomapRow {
			// Automap row: Control Change 104 + x
			l.buttons[i] = ButtonState{Command: StatusControl, Key: automapBase + byte(x)}
		} else {
			// Grid and scene column: Note messages, rows offset by 16
			l.buttons[i] = ButtonState{Command: StatusNote, Key: byte(0x10*y + x)}
		}
		l.buttons[i].Color = Off
	}
	return l
}

// Address returns the status and key byte addressing p
func (l *Layout) Address(p Position) (command, key byte, err error) {
	if !p.Valid() {
		return 0, 0, invalidPosition(p)
	}
	b := l.buttons[p.index()]
	return b.Command, b.Key, nil
}

// Decode converts an inbound message into a position and pressed state
func (l *Layout) Decode(msg []byte) (p Position, pressed bool, err error) {
	if len(msg) < 3 {
		return p, false, fmt.Errorf("%w: % X", ErrShortMessage, msg)
	}
	status, key, value := msg[0], msg[1], msg[2]

	switch status {
	case StatusNote:
		x := int(key % 0x10)
		y := int(key-byte(x)) / 0x10
		if y >= AutomapRow {
			return p, false, fmt.Errorf("%w: note 0x%02X", ErrUnmappedKey, key)
		}
		p = Position{X: x, Y: y}
	case StatusControl:
		if key < automapBase || key >= automapBase+GridSize {
			return p, false, fmt.Errorf("%w: controller 0x%02X", ErrUnmappedKey, key)
		}
		p = Position{X: int(key - automapBase), Y: AutomapRow}
	default:
		return p, false, fmt.Errorf("%w: 0x%02X", ErrUnknownStatus, status)
	}

	if !p.Valid() {
		return p, false, fmt.Errorf("%w: note 0x%02X", ErrUnmappedKey, key)
	}
	return p, value > 0, nil
}

// Positions returns every valid position in row-major order
func (l *Layout) Positions() []Position {
	out := make([]Position, 0, NumButtons-1)
	for i := range l.buttons {
		if p := positionAt(i); p.Valid() {
			out = append(out, p)
		}
	}
	return out
}
