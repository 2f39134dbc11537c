package window

import (
	"fmt"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"github.com/wanderer6994/launchpad-mini/internal/config"
	"github.com/wanderer6994/launchpad-mini/internal/midi"
)

// tapCycle is the color sequence a tapped pad steps through
var tapCycle = []midi.Color{
	midi.Off,
	midi.RedLow, midi.RedFull,
	midi.AmberLow, midi.AmberFull,
	midi.GreenLow, midi.GreenFull,
	midi.YellowFull,
}

// MirrorWindow shows the surface's LEDs and pressed buttons and lets the
// user light pads from the screen
type MirrorWindow struct {
	window fyne.Window
	app    fyne.App
	cfg    *config.Config
	lp     *midi.Launchpad
	log    logrus.FieldLogger

	pads        [midi.NumButtons]*padWidget
	status      *widget.Label
	portSelect  *widget.Select
	brightness  *widget.Slider
	echoPresses *widget.Check

	// mirrors echoPresses for the MIDI goroutine
	echoEnabled atomic.Bool

	// colors shown before a press was echoed, restored on release.
	// Only touched on the fyne goroutine.
	echoed map[midi.Position]midi.Color

	unsubscribe func()
}

// NewMirrorWindow creates the mirror window for lp
func NewMirrorWindow(app fyne.App, cfg *config.Config, lp *midi.Launchpad, log logrus.FieldLogger) *MirrorWindow {
	win := app.NewWindow("Launchpad Mini")

	mw := &MirrorWindow{
		window: win,
		app:    app,
		cfg:    cfg,
		lp:     lp,
		log:    log.WithField("component", "window"),
		echoed: make(map[midi.Position]midi.Color),
	}

	mw.setupUI()
	mw.unsubscribe = lp.Subscribe(mw.handleEvent)

	win.Resize(fyne.NewSize(520, 600))
	win.CenterOnScreen()
	win.SetCloseIntercept(func() {
		win.Hide()
	})

	return mw
}

// Show brings the window to the front
func (mw *MirrorWindow) Show() {
	mw.window.Show()
	mw.window.RequestFocus()
}

// Close stops receiving driver events
func (mw *MirrorWindow) Close() {
	if mw.unsubscribe != nil {
		mw.unsubscribe()
		mw.unsubscribe = nil
	}
}

func (mw *MirrorWindow) setupUI() {
	mw.status = widget.NewLabel("Disconnected")

	grid := mw.createGrid()
	body := container.NewBorder(nil, nil,
		rotatedLabel("GRID", mw.log),
		rotatedLabel("SCENE", mw.log),
		container.NewCenter(grid),
	)

	mw.window.SetContent(container.NewBorder(
		mw.createToolbar(),
		container.NewVBox(widget.NewSeparator(), mw.status),
		nil, nil,
		body,
	))
	mw.refreshGrid()
	mw.refreshStatus()
}

// createGrid lays out the automap row on top, then grid rows 0-7 with the
// scene column on the right
func (mw *MirrorWindow) createGrid() fyne.CanvasObject {
	var cells []fyne.CanvasObject

	for x := 0; x < midi.Columns; x++ {
		pos := midi.Pos(x, midi.AutomapRow)
		if !pos.Valid() {
			cells = append(cells, layout.NewSpacer())
			continue
		}
		cells = append(cells, mw.newPad(pos))
	}
	for y := 0; y < midi.GridSize; y++ {
		for x := 0; x < midi.Columns; x++ {
			cells = append(cells, mw.newPad(midi.Pos(x, y)))
		}
	}

	return container.NewGridWithColumns(midi.Columns, cells...)
}

func (mw *MirrorWindow) newPad(pos midi.Position) *padWidget {
	pad := newPadWidget(pos, mw.cyclePad)
	mw.pads[padIndex(pos)] = pad
	return pad
}

func (mw *MirrorWindow) createToolbar() fyne.CanvasObject {
	mw.portSelect = widget.NewSelect(mw.inputPortNames(), nil)
	mw.portSelect.PlaceHolder = "Select port..."
	if mw.cfg.Device.Port != "" {
		mw.portSelect.SetSelected(mw.cfg.Device.Port)
	}

	refreshBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		mw.portSelect.Options = mw.inputPortNames()
		mw.portSelect.Refresh()
	})

	connectBtn := widget.NewButtonWithIcon("Connect", theme.LoginIcon(), func() {
		mw.connect(mw.portSelect.Selected)
	})
	disconnectBtn := widget.NewButtonWithIcon("Disconnect", theme.LogoutIcon(), func() {
		if err := mw.lp.Disconnect(); err != nil {
			mw.log.WithError(err).Warn("disconnect failed")
		}
	})

	resetBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		mw.reset(0)
	})
	testBtn := widget.NewButton("All On", func() {
		mw.reset(3)
	})

	mw.brightness = widget.NewSlider(1, 16)
	mw.brightness.Step = 1
	mw.brightness.SetValue(float64(mw.cfg.Brightness.Brightness().Numerator))
	if mw.cfg.Brightness.Numerator == 0 {
		mw.brightness.SetValue(float64(midi.DefaultBrightness.Numerator))
	}
	mw.brightness.OnChangeEnded = func(v float64) {
		mw.cfg.Brightness.Numerator = int(v)
		if err := mw.lp.SetBrightness(mw.cfg.Brightness.Brightness()); err != nil {
			mw.log.WithError(err).Debug("brightness not sent")
		}
	}

	mw.echoPresses = widget.NewCheck("Echo presses", func(on bool) {
		mw.echoEnabled.Store(on)
	})
	mw.echoPresses.SetChecked(true)
	mw.echoEnabled.Store(true)

	portRow := container.NewBorder(nil, nil, widget.NewLabel("Port"),
		container.NewHBox(refreshBtn, connectBtn, disconnectBtn),
		mw.portSelect,
	)
	controlRow := container.NewBorder(nil, nil,
		container.NewHBox(resetBtn, testBtn, widget.NewLabel("Brightness")),
		mw.echoPresses,
		mw.brightness,
	)
	return container.NewVBox(portRow, controlRow, widget.NewSeparator())
}

func (mw *MirrorWindow) inputPortNames() []string {
	ports, err := mw.lp.ListAvailablePorts()
	if err != nil {
		mw.log.WithError(err).Warn("failed to list ports")
		return nil
	}
	names := make([]string, 0, len(ports.Input))
	for _, p := range ports.Input {
		names = append(names, p.Name)
	}
	return names
}

func (mw *MirrorWindow) connect(port string) {
	if err := mw.lp.Connect(port); err != nil {
		mw.log.WithError(err).Error("connect failed")
		mw.status.SetText(err.Error())
		return
	}

	mw.cfg.Device.Port = mw.lp.PortName()
	if err := mw.cfg.Save(); err != nil {
		mw.log.WithError(err).Warn("failed to save config")
	}
}

func (mw *MirrorWindow) reset(level int) {
	if err := mw.lp.Reset(level); err != nil {
		mw.log.WithError(err).Debug("reset not sent")
		return
	}
	mw.echoed = make(map[midi.Position]midi.Color)
	mw.refreshGrid()
}

// cyclePad advances a tapped pad to the next color in tapCycle
func (mw *MirrorWindow) cyclePad(pos midi.Position) {
	current, err := mw.lp.LED(pos)
	if err != nil {
		return
	}

	next := tapCycle[0]
	for i, c := range tapCycle {
		if c == current {
			next = tapCycle[(i+1)%len(tapCycle)]
			break
		}
	}

	if err := mw.lp.SetColor(next, pos); err != nil {
		mw.log.WithError(err).WithField("pad", pos).Debug("color not sent")
		return
	}
	mw.refreshPad(pos)
}

// handleEvent runs on the MIDI goroutine; UI work is handed to fyne
func (mw *MirrorWindow) handleEvent(e midi.Event) {
	switch e.Type {
	case midi.EventKey:
		if mw.echoEnabled.Load() {
			mw.echo(e.Key)
		}
		fyne.Do(func() { mw.refreshPad(e.Key.Position()) })
	case midi.EventConnect, midi.EventDisconnect:
		fyne.Do(func() {
			mw.refreshStatus()
			mw.refreshGrid()
		})
	}
}

// echo lights a pressed pad with the configured color and restores the
// previous color on release
func (mw *MirrorWindow) echo(key midi.KeyEvent) {
	pos := key.Position()
	if key.Pressed {
		pressedColor, err := mw.cfg.PressedColor.Color()
		if err != nil {
			return
		}
		prev, err := mw.lp.LED(pos)
		if err != nil {
			return
		}
		if err := mw.lp.SetColor(pressedColor, pos); err != nil {
			return
		}
		fyne.Do(func() {
			// a repeated press must keep the color from before the first one
			if _, held := mw.echoed[pos]; !held {
				mw.echoed[pos] = prev
			}
		})
		return
	}

	fyne.Do(func() {
		prev, ok := mw.echoed[pos]
		if !ok {
			return
		}
		delete(mw.echoed, pos)
		if err := mw.lp.SetColor(prev, pos); err != nil {
			mw.log.WithError(err).Debug("restore not sent")
		}
		mw.refreshPad(pos)
	})
}

func (mw *MirrorWindow) refreshPad(pos midi.Position) {
	pad := mw.pads[padIndex(pos)]
	if pad == nil {
		return
	}
	c, err := mw.lp.LED(pos)
	if err != nil {
		return
	}
	pressed, _ := mw.lp.IsPressed(pos.X, pos.Y)
	pad.show(c, pressed)
}

func (mw *MirrorWindow) refreshGrid() {
	for _, pos := range mw.lp.Layout().Positions() {
		mw.refreshPad(pos)
	}
}

func (mw *MirrorWindow) refreshStatus() {
	if mw.lp.Connected() {
		mw.status.SetText(fmt.Sprintf("Connected to %s", mw.lp.PortName()))
	} else {
		mw.status.SetText("Disconnected")
	}
}

func padIndex(p midi.Position) int {
	return p.Y*midi.Columns + p.X
}
