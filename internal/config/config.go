package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/wanderer6994/launchpad-mini/internal/midi"
)

// DeviceConfig selects the surface to connect to
type DeviceConfig struct {
	ID       string `json:"id"`        // Unique identifier
	Name     string `json:"name"`      // User-friendly name
	Port     string `json:"port"`      // MIDI port name, empty to search by hint
	PortHint string `json:"port_hint"` // Substring matched against port names
}

// NewDeviceConfig creates a new device config with a generated ID
func NewDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ID:       uuid.New().String(),
		Name:     "Launchpad",
		PortHint: midi.DefaultPortHint,
	}
}

// BrightnessConfig is the duty cycle applied on connect
type BrightnessConfig struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Brightness converts to the driver type
func (b BrightnessConfig) Brightness() midi.Brightness {
	return midi.Brightness{Numerator: b.Numerator, Denominator: b.Denominator}
}

// ColorConfig stores an LED color as red/green levels (0-3) and a mode
type ColorConfig struct {
	Red   int    `json:"red"`
	Green int    `json:"green"`
	Mode  string `json:"mode,omitempty"` // "normal", "flash" or "double"
}

// Color converts to the device color byte
func (c ColorConfig) Color() (midi.Color, error) {
	mode, err := midi.ParseMode(c.Mode)
	if err != nil {
		return 0, err
	}
	return midi.ComposeChecked(c.Red, c.Green, mode)
}

// Config holds application configuration
type Config struct {
	FirstLaunchCompleted bool             `json:"first_launch_completed"`
	OpenAtStartup        bool             `json:"open_at_startup"`
	Device               DeviceConfig     `json:"device"`
	Brightness           BrightnessConfig `json:"brightness"`
	ResetLevel           int              `json:"reset_level"` // 0 clears, 1-3 lights all LEDs
	ResetOnConnect       bool             `json:"reset_on_connect"`
	PressedColor         ColorConfig      `json:"pressed_color"`
	LogLevel             string           `json:"log_level"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Device: NewDeviceConfig(),
		Brightness: BrightnessConfig{
			Numerator:   midi.DefaultBrightness.Numerator,
			Denominator: midi.DefaultBrightness.Denominator,
		},
		ResetOnConnect: true,
		PressedColor:   ColorConfig{Red: 3, Green: 3},
		LogLevel:       "info",
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "launchpad-mini"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config at path, returning defaults if it does not exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Device.ID == "" {
		cfg.Device.ID = uuid.New().String()
	}
	if cfg.Device.PortHint == "" {
		cfg.Device.PortHint = midi.DefaultPortHint
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges that would otherwise be clamped or garbled
func (c *Config) Validate() error {
	if c.ResetLevel < 0 || c.ResetLevel > 3 {
		return &midi.ValidationError{Field: "reset_level", Value: c.ResetLevel, Reason: "want 0-3"}
	}
	if n := c.Brightness.Numerator; n < 0 || n > 16 {
		return &midi.ValidationError{Field: "brightness.numerator", Value: n, Reason: "want 1-16"}
	}
	if d := c.Brightness.Denominator; d != 0 && (d < 3 || d > 18) {
		return &midi.ValidationError{Field: "brightness.denominator", Value: d, Reason: "want 3-18"}
	}
	if _, err := c.PressedColor.Color(); err != nil {
		return fmt.Errorf("pressed_color: %w", err)
	}
	return nil
}
