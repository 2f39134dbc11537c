package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderer6994/launchpad-mini/internal/midi"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.False(t, cfg.FirstLaunchCompleted)
	assert.Equal(t, midi.DefaultPortHint, cfg.Device.PortHint)
	_, err = uuid.Parse(cfg.Device.ID)
	assert.NoError(t, err)
	assert.Equal(t, midi.DefaultBrightness, cfg.Brightness.Brightness())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.FirstLaunchCompleted = true
	cfg.Device.Port = "Launchpad Mini"
	cfg.Brightness = BrightnessConfig{Numerator: 9, Denominator: 12}
	cfg.ResetLevel = 2
	cfg.PressedColor = ColorConfig{Red: 3, Green: 0, Mode: "flash"}
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	c, err := loaded.PressedColor.Color()
	require.NoError(t, err)
	assert.Equal(t, midi.Compose(3, 0, midi.ModeFlash), c)
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"device": {"port": "Launchpad S"}}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Launchpad S", cfg.Device.Port)
	assert.NotEmpty(t, cfg.Device.ID)
	assert.Equal(t, midi.DefaultPortHint, cfg.Device.PortHint)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"reset level":   `{"reset_level": 4}`,
		"numerator":     `{"brightness": {"numerator": 17, "denominator": 5}}`,
		"denominator":   `{"brightness": {"numerator": 1, "denominator": 2}}`,
		"pressed color": `{"pressed_color": {"red": 5, "green": 0}}`,
		"pressed mode":  `{"pressed_color": {"red": 1, "green": 0, "mode": "strobe"}}`,
		"malformed":     `{"device": `,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestNewDeviceConfigUniqueIDs(t *testing.T) {
	a, b := NewDeviceConfig(), NewDeviceConfig()
	assert.NotEqual(t, a.ID, b.ID)
}
