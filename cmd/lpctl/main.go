package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/wanderer6994/launchpad-mini/internal/config"
	"github.com/wanderer6994/launchpad-mini/internal/logging"
	"github.com/wanderer6994/launchpad-mini/internal/midi"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	os.Exit(run())
}

// run executes the subcommand and returns the exit code
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		cfg = config.Default()
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	manager := midi.NewManager(log)
	defer manager.Shutdown()

	lp := midi.New(manager, midi.WithLogger(log), midi.WithPortHint(cfg.Device.PortHint))

	args := os.Args[2:]
	switch os.Args[1] {
	case "list":
		err = listPorts(lp)
	case "watch":
		err = withDevice(lp, cfg, func() error { return watch(lp) })
	case "reset":
		err = withDevice(lp, cfg, func() error { return reset(lp, args) })
	case "light":
		err = withDevice(lp, cfg, func() error { return light(lp, args) })
	case "brightness":
		err = withDevice(lp, cfg, func() error { return brightness(lp, args) })
	case "test":
		err = withDevice(lp, cfg, func() error { return testPattern(lp) })
	default:
		usage()
		return 2
	}

	if errors.Is(err, errUsage) {
		usage()
		return 2
	}
	if err != nil {
		log.WithError(err).Error(os.Args[1] + " failed")
		return 1
	}
	return 0
}

func usage() {
	fmt.Println("Launchpad Mini control")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                          - List MIDI ports")
	fmt.Println("  watch                         - Print button presses until interrupted")
	fmt.Println("  reset [level]                 - Clear LEDs, or light all at level 1-3")
	fmt.Println("  light x y red green [mode]    - Set one LED (levels 0-3, mode normal|flash|double)")
	fmt.Println("  brightness num den            - Set the LED duty cycle")
	fmt.Println("  test                          - Send a test frame with rapid update")
}

func listPorts(lp *midi.Launchpad) error {
	ports, err := lp.ListAvailablePorts()
	if err != nil {
		return err
	}
	fmt.Println("=== MIDI Input Ports ===")
	for _, p := range ports.Input {
		fmt.Printf("  %d: %s\n", p.ID, p.Name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for _, p := range ports.Output {
		fmt.Printf("  %d: %s\n", p.ID, p.Name)
	}
	return nil
}

// withDevice connects to the configured port, or the first hint match, for
// the duration of fn
func withDevice(lp *midi.Launchpad, cfg *config.Config, fn func() error) error {
	if err := lp.Connect(cfg.Device.Port); err != nil {
		return err
	}
	defer lp.Disconnect()

	fmt.Printf("Using %s\n", lp.PortName())
	return fn()
}

func watch(lp *midi.Launchpad) error {
	cancel := lp.Subscribe(func(e midi.Event) {
		if e.Type != midi.EventKey {
			return
		}
		state := "release"
		if e.Key.Pressed {
			state = "press"
		}
		fmt.Printf("%-7s %s  +%s\n", state, e.Key.Position(), e.Key.Delta)
	})
	defer cancel()

	fmt.Println("Watching buttons, Ctrl+C to stop")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	return nil
}

func reset(lp *midi.Launchpad, args []string) error {
	level := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: level %q", errUsage, args[0])
		}
		level = n
	}
	return lp.Reset(level)
}

func light(lp *midi.Launchpad, args []string) error {
	if len(args) < 4 {
		return errUsage
	}
	nums, err := atoiAll(args[:4])
	if err != nil {
		return err
	}

	mode := midi.ModeNormal
	if len(args) > 4 {
		if mode, err = midi.ParseMode(args[4]); err != nil {
			return err
		}
	}

	c, err := midi.ComposeChecked(nums[2], nums[3], mode)
	if err != nil {
		return err
	}
	return lp.SetColor(c, midi.Pos(nums[0], nums[1]))
}

func brightness(lp *midi.Launchpad, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	nums, err := atoiAll(args[:2])
	if err != nil {
		return err
	}
	b := midi.Brightness{Numerator: nums[0], Denominator: nums[1]}
	fmt.Printf("Sending % X\n", midi.EncodeBrightness(b).Bytes())
	return lp.SetBrightness(b)
}

// testPattern fills the surface with a diagonal red/green gradient
func testPattern(lp *midi.Launchpad) error {
	var f midi.Frame
	for _, p := range lp.Layout().Positions() {
		red := p.X * 3 / (midi.Columns - 1)
		green := p.Y * 3 / (midi.Rows - 1)
		f.Set(p, midi.Compose(red, green, midi.ModeNormal))
	}
	return lp.SetFrame(f)
}

func atoiAll(args []string) ([]int, error) {
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errUsage, a)
		}
		nums[i] = n
	}
	return nums, nil
}
