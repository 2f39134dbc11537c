package startup

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUnsupported is returned on platforms without a launch-at-login mechanism
var ErrUnsupported = errors.New("launch at login not supported on this platform")

// Entry describes the login item registered for the running executable
type Entry struct {
	Label string // reverse-DNS identifier, used for the LaunchAgent
	Name  string // display name, used for the desktop file and registry value
	Args  []string

	// executable overrides os.Executable in tests
	executable string
}

// Default is the entry for the mirror app
var Default = Entry{
	Label: "io.github.wanderer6994.launchpad-mini",
	Name:  "Launchpad Mini",
}

func (e Entry) exec() (string, error) {
	if e.executable != "" {
		return e.executable, nil
	}
	return os.Executable()
}

// Enable registers the entry to launch at login
func (e Entry) Enable() error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = e.enableMacOS()
	case "linux":
		err = e.enableLinux()
	case "windows":
		err = e.enableWindows()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, runtime.GOOS)
	}
	if err != nil {
		return fmt.Errorf("failed to enable %s at login: %w", e.Name, err)
	}
	return nil
}

// Disable removes the login entry. Removing a missing entry is not an error.
func (e Entry) Disable() error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = removeIfExists(e.macOSPlistPath())
	case "linux":
		err = removeIfExists(e.linuxDesktopPath())
	case "windows":
		err = e.disableWindows()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, runtime.GOOS)
	}
	if err != nil {
		return fmt.Errorf("failed to disable %s at login: %w", e.Name, err)
	}
	return nil
}

// IsEnabled reports whether the login entry exists
func (e Entry) IsEnabled() bool {
	switch runtime.GOOS {
	case "darwin":
		return exists(e.macOSPlistPath())
	case "linux":
		return exists(e.linuxDesktopPath())
	case "windows":
		return exec.Command("reg", "query", windowsRunKey, "/v", e.Name).Run() == nil
	default:
		return false
	}
}

// SetEnabled enables or disables the entry
func (e Entry) SetEnabled(on bool) error {
	if on {
		return e.Enable()
	}
	return e.Disable()
}

func (e Entry) commandLine() (string, error) {
	path, err := e.exec()
	if err != nil {
		return "", err
	}
	return strings.Join(append([]string{path}, e.Args...), " "), nil
}

// macOS

func (e Entry) macOSPlistPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents", e.Label+".plist")
}

func (e Entry) enableMacOS() error {
	path, err := e.exec()
	if err != nil {
		return err
	}

	var args strings.Builder
	for _, a := range append([]string{path}, e.Args...) {
		fmt.Fprintf(&args, "        <string>%s</string>\n", a)
	}

	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
%s    </array>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`, e.Label, args.String())

	return writeFile(e.macOSPlistPath(), plist)
}

// Linux (XDG autostart)

func (e Entry) linuxDesktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", e.Label+".desktop")
}

func (e Entry) enableLinux() error {
	cmdLine, err := e.commandLine()
	if err != nil {
		return err
	}

	desktop := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
Hidden=false
NoDisplay=false
X-GNOME-Autostart-enabled=true
`, e.Name, cmdLine)

	return writeFile(e.linuxDesktopPath(), desktop)
}

// Windows

const windowsRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (e Entry) enableWindows() error {
	cmdLine, err := e.commandLine()
	if err != nil {
		return err
	}
	return exec.Command("reg", "add", windowsRunKey,
		"/v", e.Name,
		"/t", "REG_SZ",
		"/d", cmdLine,
		"/f").Run()
}

func (e Entry) disableWindows() error {
	output, err := exec.Command("reg", "delete", windowsRunKey, "/v", e.Name, "/f").CombinedOutput()
	if err != nil && !strings.Contains(string(output), "unable to find") {
		return err
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
