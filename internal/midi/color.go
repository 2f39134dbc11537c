package midi

import (
	"fmt"
	"image/color"
)

// Color is an LED velocity byte:
// bits 0-1 red level, bit 2 copy, bit 3 clear, bits 4-5 green level.
type Color byte

// Mode selects how the device applies a color to its LED buffers
type Mode int

const (
	ModeNormal Mode = iota // copy + clear: write both buffers
	ModeFlash              // clear only: LED flashes when flashing is on
	ModeDouble             // neither flag: write the update buffer only
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeFlash:
		return "flash"
	case ModeDouble:
		return "double"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names returned by Mode.String; "" is ModeNormal
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "normal", "none":
		return ModeNormal, nil
	case "flash":
		return ModeFlash, nil
	case "double":
		return ModeDouble, nil
	}
	return 0, &ValidationError{Field: "mode", Value: s, Reason: "want normal, flash or double"}
}

const (
	flagsNormal = 12
	flagsFlash  = 8
	maxLevel    = 3
)

// Named colors, all in normal mode
const (
	Off         Color = flagsNormal
	RedLow      Color = 1 + flagsNormal
	RedMedium   Color = 2 + flagsNormal
	RedFull     Color = 3 + flagsNormal
	GreenLow    Color = 16*1 + flagsNormal
	GreenMedium Color = 16*2 + flagsNormal
	GreenFull   Color = 16*3 + flagsNormal
	AmberLow    Color = 16*1 + 1 + flagsNormal
	AmberMedium Color = 16*2 + 2 + flagsNormal
	AmberFull   Color = 16*3 + 3 + flagsNormal
	YellowFull  Color = 16*3 + 1 + flagsNormal
)

// Compose packs red and green levels (0-3) and a mode into a Color.
// Levels are not checked; see ComposeChecked.
func Compose(red, green int, mode Mode) Color {
	c := 16*green + red
	switch mode {
	case ModeNormal:
		c += flagsNormal
	case ModeFlash:
		c += flagsFlash
	}
	return Color(c)
}

// ComposeChecked is Compose with range checks on every argument
func ComposeChecked(red, green int, mode Mode) (Color, error) {
	if red < 0 || red > maxLevel {
		return 0, &ValidationError{Field: "red", Value: red, Reason: "want 0-3"}
	}
	if green < 0 || green > maxLevel {
		return 0, &ValidationError{Field: "green", Value: green, Reason: "want 0-3"}
	}
	if mode < ModeNormal || mode > ModeDouble {
		return 0, &ValidationError{Field: "mode", Value: mode, Reason: "unknown mode"}
	}
	return Compose(red, green, mode), nil
}

// Levels returns the red and green levels encoded in c
func (c Color) Levels() (red, green int) {
	return int(c & 0x03), int(c>>4) & 0x03
}

// Mode returns the buffer mode encoded in c
func (c Color) Mode() Mode {
	switch c & 0x0C {
	case flagsNormal:
		return ModeNormal
	case flagsFlash:
		return ModeFlash
	default:
		return ModeDouble
	}
}

// IsOff reports whether both levels are zero
func (c Color) IsOff() bool {
	r, g := c.Levels()
	return r == 0 && g == 0
}

func (c Color) String() string {
	r, g := c.Levels()
	return fmt.Sprintf("r%d g%d %s", r, g, c.Mode())
}

// levelTo255 maps a 0-3 level onto an 8 bit channel
var levelTo255 = [4]uint8{0, 85, 170, 255}

// RGBA approximates the LED color for on-screen previews
func (c Color) RGBA() color.NRGBA {
	r, g := c.Levels()
	return color.NRGBA{R: levelTo255[r], G: levelTo255[g], A: 0xFF}
}

// FromRGB maps an RGB color (0-127 per channel) onto the red/green palette.
// Blue is folded mostly into green, a little into red.
func FromRGB(r, g, b uint8) Color {
	if r < 5 && g < 5 && b < 5 {
		return Off
	}

	effectiveR := int(r) + int(b)/4
	effectiveG := int(g) + (int(b)*3)/4
	if effectiveR > 127 {
		effectiveR = 127
	}
	if effectiveG > 127 {
		effectiveG = 127
	}

	return Compose(colorTo4Level(uint8(effectiveR)), colorTo4Level(uint8(effectiveG)), ModeNormal)
}

// colorTo4Level converts 0-127 color value to 0-3 intensity
func colorTo4Level(value uint8) int {
	if value < 32 {
		return 0
	} else if value < 64 {
		return 1
	} else if value < 96 {
		return 2
	}
	return 3
}
