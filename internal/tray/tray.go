package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
	"github.com/wanderer6994/launchpad-mini/internal/config"
	"github.com/wanderer6994/launchpad-mini/internal/startup"
)

// Callbacks for tray menu actions
type Callbacks struct {
	OnOpen  func()
	OnClear func()
	OnQuit  func()
}

// Setup installs the system tray menu. It does nothing when the app is not
// running on a desktop driver.
func Setup(app fyne.App, cfg *config.Config, entry startup.Entry, log logrus.FieldLogger, callbacks Callbacks) {
	desk, ok := app.(desktop.App)
	if !ok {
		return
	}
	log = log.WithField("component", "tray")

	openItem := fyne.NewMenuItem("Open Launchpad Mini", callbacks.OnOpen)
	clearItem := fyne.NewMenuItem("Clear LEDs", callbacks.OnClear)

	startupItem := fyne.NewMenuItem("Open at Startup", nil)
	startupItem.Checked = cfg.OpenAtStartup

	quitItem := fyne.NewMenuItem("Quit", callbacks.OnQuit)

	menu := fyne.NewMenu("Launchpad Mini",
		openItem,
		clearItem,
		fyne.NewMenuItemSeparator(),
		startupItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	// Set after the menu exists so it can be refreshed
	startupItem.Action = func() {
		want := !startupItem.Checked
		if err := entry.SetEnabled(want); err != nil {
			log.WithError(err).Warn("failed to change login item")
			return
		}
		startupItem.Checked = want
		cfg.OpenAtStartup = want
		if err := cfg.Save(); err != nil {
			log.WithError(err).Warn("failed to save config")
		}
		menu.Refresh()
	}

	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.GridIcon())
}
