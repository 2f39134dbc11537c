package midi

import (
	"fmt"
	"time"
)

// Surface dimensions. Row 8 is the automap row; column 8 holds the scene
// buttons on grid rows.
const (
	Columns    = 9
	Rows       = 9
	GridSize   = 8
	AutomapRow = 8
	SceneCol   = 8
	NumButtons = Columns * Rows
)

// Position addresses a button or LED on the surface
type Position struct {
	X, Y int
}

// Pos is shorthand for Position{X: x, Y: y}
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Valid reports whether p addresses a physical button. (8,8) is reserved.
func (p Position) Valid() bool {
	if p.X < 0 || p.X >= Columns || p.Y < 0 || p.Y >= Rows {
		return false
	}
	return !(p.X == SceneCol && p.Y == AutomapRow)
}

// IsAutomap reports whether p lies on the automap row
func (p Position) IsAutomap() bool {
	return p.Y == AutomapRow
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// index returns the linear table index, row-major
func (p Position) index() int {
	return p.Y*Columns + p.X
}

func positionAt(index int) Position {
	return Position{X: index % Columns, Y: index / Columns}
}

// ButtonState is the per-button entry of the translator table
type ButtonState struct {
	Pressed bool
	Command byte  // MIDI status used to address the button
	Key     byte  // note or controller number within the command class
	Color   Color // last color written to the LED
}

// KeyEvent is produced once per recognized inbound message
type KeyEvent struct {
	X, Y    int
	Pressed bool
	Delta   time.Duration // time since the previous inbound message
}

// Position returns the event's coordinates
func (e KeyEvent) Position() Position {
	return Position{X: e.X, Y: e.Y}
}

// EventType identifies what a driver Event reports
type EventType int

const (
	EventConnect EventType = iota
	EventDisconnect
	EventKey
)

func (t EventType) String() string {
	switch t {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventKey:
		return "key"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is delivered to driver subscribers
type Event struct {
	Type EventType
	Port string   // port name for connect/disconnect
	Key  KeyEvent // set for EventKey
}

// Port describes a MIDI port reported by the transport
type Port struct {
	ID   int
	Name string
}

// Ports groups the available input and output ports
type Ports struct {
	Input  []Port
	Output []Port
}
