package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutAddress(t *testing.T) {
	l := NewLayout()

	tests := []struct {
		pos     Position
		command byte
		key     byte
	}{
		{Pos(0, 0), 0x90, 0x00},
		{Pos(7, 0), 0x90, 0x07},
		{Pos(8, 0), 0x90, 0x08},
		{Pos(3, 2), 0x90, 0x23},
		{Pos(7, 7), 0x90, 0x77},
		{Pos(8, 7), 0x90, 0x78},
		{Pos(0, 8), 0xB0, 0x68},
		{Pos(7, 8), 0xB0, 0x6F},
	}
	for _, tt := range tests {
		command, key, err := l.Address(tt.pos)
		require.NoError(t, err, tt.pos)
		assert.Equal(t, tt.command, command, tt.pos)
		assert.Equal(t, tt.key, key, tt.pos)
	}
}

func TestLayoutAddressRejectsInvalid(t *testing.T) {
	l := NewLayout()
	for _, p := range []Position{Pos(8, 8), Pos(-1, 0), Pos(0, 9), Pos(9, 0)} {
		_, _, err := l.Address(p)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, p)
	}
}

func TestLayoutRoundTripGrid(t *testing.T) {
	l := NewLayout()
	for y := 0; y < GridSize; y++ {
		for x := 0; x < Columns; x++ {
			command, key, err := l.Address(Pos(x, y))
			require.NoError(t, err)

			p, pressed, err := l.Decode([]byte{command, key, 127})
			require.NoError(t, err)
			assert.Equal(t, Pos(x, y), p)
			assert.True(t, pressed)
		}
	}
}

func TestLayoutSceneColumn(t *testing.T) {
	l := NewLayout()
	for y := 0; y < GridSize; y++ {
		key := byte(0x10*y + 0x08)
		p, pressed, err := l.Decode([]byte{StatusNote, key, 0x7F})
		require.NoError(t, err)
		assert.Equal(t, Pos(SceneCol, y), p)
		assert.True(t, pressed)
	}
}

func TestLayoutRoundTripAutomap(t *testing.T) {
	l := NewLayout()
	for x := 0; x < GridSize; x++ {
		command, key, err := l.Address(Pos(x, AutomapRow))
		require.NoError(t, err)
		assert.Equal(t, StatusControl, command)

		p, pressed, err := l.Decode([]byte{command, key, 0})
		require.NoError(t, err)
		assert.Equal(t, Pos(x, AutomapRow), p)
		assert.False(t, pressed)
	}
}

func TestLayoutDecodeErrors(t *testing.T) {
	l := NewLayout()

	tests := []struct {
		name string
		msg  []byte
		want error
	}{
		{"aftertouch", []byte{0xA0, 0x00, 0x10}, ErrUnknownStatus},
		{"note on channel 2", []byte{0x91, 0x00, 0x7F}, ErrUnknownStatus},
		{"short", []byte{0x90, 0x00}, ErrShortMessage},
		{"note column past scene", []byte{0x90, 0x09, 0x7F}, ErrUnmappedKey},
		{"note past last row", []byte{0x90, 0x7F, 0x7F}, ErrUnmappedKey},
		{"note on automap row", []byte{0x90, 0x80, 0x7F}, ErrUnmappedKey},
		{"note on last automap column", []byte{0x90, 0x87, 0x00}, ErrUnmappedKey},
		{"controller below automap", []byte{0xB0, 0x67, 0x7F}, ErrUnmappedKey},
		{"controller above automap", []byte{0xB0, 0x70, 0x7F}, ErrUnmappedKey},
		{"duty cycle echo", []byte{0xB0, 0x1E, 0x02}, ErrUnmappedKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := l.Decode(tt.msg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLayoutPositions(t *testing.T) {
	ps := NewLayout().Positions()
	require.Len(t, ps, NumButtons-1)
	assert.Equal(t, Pos(0, 0), ps[0])
	assert.Equal(t, Pos(1, 0), ps[1])
	assert.Equal(t, Pos(7, AutomapRow), ps[len(ps)-1])
	assert.NotContains(t, ps, Pos(8, 8))
}

func TestPositionValid(t *testing.T) {
	assert.True(t, Pos(0, 0).Valid())
	assert.True(t, Pos(8, 7).Valid())
	assert.True(t, Pos(7, 8).Valid())
	assert.False(t, Pos(8, 8).Valid())
	assert.False(t, Pos(-1, 3).Valid())
	assert.True(t, Pos(2, 8).IsAutomap())
	assert.Equal(t, "(2,8)", Pos(2, 8).String())
}
