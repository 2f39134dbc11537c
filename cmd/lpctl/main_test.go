package main

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderer6994/launchpad-mini/internal/midi"
)

type recordingTransport struct {
	sent [][]byte
}

func (r *recordingTransport) Ports() (midi.Ports, error) {
	return midi.Ports{Input: []midi.Port{{Name: "Launchpad Mini"}}}, nil
}

func (r *recordingTransport) Open(string) error             { return nil }
func (r *recordingTransport) Close() error                  { return nil }
func (r *recordingTransport) OnMessage(func([]byte, int32)) {}

func (r *recordingTransport) Send(msg []byte) error {
	r.sent = append(r.sent, append([]byte(nil), msg...))
	return nil
}

func connected(t *testing.T) (*midi.Launchpad, *recordingTransport) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	tr := &recordingTransport{}
	lp := midi.New(tr, midi.WithLogger(log))
	require.NoError(t, lp.Connect(""))
	return lp, tr
}

func TestLight(t *testing.T) {
	lp, tr := connected(t)

	require.NoError(t, light(lp, []string{"3", "2", "3", "0"}))
	assert.Equal(t, []byte{0x90, 0x23, 0x0F}, tr.sent[0])

	require.NoError(t, light(lp, []string{"4", "8", "0", "3", "flash"}))
	assert.Equal(t, []byte{0xB0, 0x6C, 0x38}, tr.sent[1])
}

func TestLightRejectsBadArgs(t *testing.T) {
	lp, tr := connected(t)

	assert.ErrorIs(t, light(lp, []string{"1", "2"}), errUsage)
	assert.ErrorIs(t, light(lp, []string{"a", "2", "3", "3"}), errUsage)

	var verr *midi.ValidationError
	assert.ErrorAs(t, light(lp, []string{"1", "1", "4", "0"}), &verr)
	assert.ErrorAs(t, light(lp, []string{"8", "8", "1", "0"}), &verr)
	assert.ErrorAs(t, light(lp, []string{"1", "1", "1", "0", "blink"}), &verr)
	assert.Empty(t, tr.sent)
}

func TestReset(t *testing.T) {
	lp, tr := connected(t)

	require.NoError(t, reset(lp, nil))
	require.NoError(t, reset(lp, []string{"2"}))
	assert.Equal(t, [][]byte{{0xB0, 0x00, 0x00}, {0xB0, 0x00, 0x7E}}, tr.sent)

	assert.ErrorIs(t, reset(lp, []string{"x"}), errUsage)
}

func TestBrightness(t *testing.T) {
	lp, tr := connected(t)

	require.NoError(t, brightness(lp, []string{"12", "16"}))
	assert.Equal(t, []byte{0xB0, 0x1F, 0x3D}, tr.sent[0])
	assert.ErrorIs(t, brightness(lp, []string{"12"}), errUsage)
}

func TestTestPattern(t *testing.T) {
	lp, tr := connected(t)

	require.NoError(t, testPattern(lp))
	require.Len(t, tr.sent, 41)
	assert.Equal(t, []byte{0xB0, 0x00, 0x01}, tr.sent[0])

	// first two grid pads of row 0
	assert.Equal(t, []byte{0x92, byte(midi.Compose(0, 0, midi.ModeNormal)), byte(midi.Compose(0, 0, midi.ModeNormal))}, tr.sent[1])

	c, err := lp.LED(midi.Pos(8, 7))
	require.NoError(t, err)
	assert.Equal(t, midi.Compose(3, 2, midi.ModeNormal), c)
}
