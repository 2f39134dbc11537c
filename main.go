package main

import (
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/sirupsen/logrus"
	"github.com/wanderer6994/launchpad-mini/internal/config"
	"github.com/wanderer6994/launchpad-mini/internal/logging"
	"github.com/wanderer6994/launchpad-mini/internal/midi"
	"github.com/wanderer6994/launchpad-mini/internal/startup"
	"github.com/wanderer6994/launchpad-mini/internal/tray"
	"github.com/wanderer6994/launchpad-mini/internal/window"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	// Initialize MIDI transport and driver
	manager := midi.NewManager(log)
	defer manager.Shutdown()

	lp := midi.New(manager,
		midi.WithLogger(log),
		midi.WithPortHint(cfg.Device.PortHint),
	)
	defer lp.Disconnect()

	cancel := lp.Subscribe(func(e midi.Event) {
		if e.Type == midi.EventConnect {
			initializeDevice(lp, cfg, log)
		}
	})
	defer cancel()

	fyneApp := app.NewWithID("io.github.wanderer6994.launchpad-mini")

	mirror := window.NewMirrorWindow(fyneApp, cfg, lp, log)
	defer mirror.Close()

	tray.Setup(fyneApp, cfg, startup.Default, log, tray.Callbacks{
		OnOpen: mirror.Show,
		OnClear: func() {
			if err := lp.Reset(0); err != nil {
				log.WithError(err).Warn("clear failed")
			}
		},
		OnQuit: fyneApp.Quit,
	})

	// A missing device is not fatal; the window can connect later
	if err := lp.Connect(cfg.Device.Port); err != nil {
		log.WithError(err).Warn("no device connected")
	}

	// Show window on first launch, otherwise run in the tray
	if !cfg.FirstLaunchCompleted {
		cfg.FirstLaunchCompleted = true
		if err := cfg.Save(); err != nil {
			log.WithError(err).Warn("failed to save config")
		}
		mirror.Show()
	} else if _, ok := fyneApp.(desktop.App); !ok {
		// no tray to reopen it from
		mirror.Show()
	}

	// Blocks until Quit
	fyneApp.Run()
}

// initializeDevice applies the configured reset and duty cycle after connect
func initializeDevice(lp *midi.Launchpad, cfg *config.Config, log logrus.FieldLogger) {
	if !cfg.ResetOnConnect {
		return
	}
	if err := lp.Reset(cfg.ResetLevel); err != nil {
		log.WithError(err).Warn("reset failed")
		return
	}
	if err := lp.SetBrightness(cfg.Brightness.Brightness()); err != nil {
		log.WithError(err).Warn("brightness failed")
	}
}
