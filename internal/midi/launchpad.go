package midi

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
)

// DefaultPortHint matches the surface's port names
const DefaultPortHint = "launchpad"

// Launchpad drives one surface over a Transport. The embedded Translator
// provides the LED and button operations.
type Launchpad struct {
	*Translator

	transport Transport
	log       logrus.FieldLogger
	portHint  string

	mu        sync.Mutex
	connected bool
	port      string
	lastStamp int32
	stamped   bool

	subMu       sync.RWMutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// Option configures a Launchpad
type Option func(*Launchpad)

// WithLogger sets the logger used by the driver and its translator
func WithLogger(log logrus.FieldLogger) Option {
	return func(lp *Launchpad) {
		if log != nil {
			lp.log = log
		}
	}
}

// WithPortHint sets the substring used to find a port when none is named
func WithPortHint(hint string) Option {
	return func(lp *Launchpad) {
		if hint != "" {
			lp.portHint = hint
		}
	}
}

// New creates a driver on top of transport. It does not connect.
func New(transport Transport, opts ...Option) *Launchpad {
	lp := &Launchpad{
		transport:   transport,
		log:         logrus.StandardLogger(),
		portHint:    DefaultPortHint,
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(lp)
	}
	lp.log = lp.log.WithField("component", "launchpad")
	lp.Translator = NewTranslator(lp.sendMessage, lp.log)
	transport.OnMessage(lp.handleMessage)
	return lp
}

// ListAvailablePorts reports the transport's input and output ports
func (lp *Launchpad) ListAvailablePorts() (Ports, error) {
	ports, err := lp.transport.Ports()
	if err != nil {
		return Ports{}, fmt.Errorf("failed to list ports: %w", err)
	}
	return ports, nil
}

// Connect opens port. An empty port selects the first input port whose
// name contains the port hint. An open connection is closed first.
func (lp *Launchpad) Connect(port string) error {
	if lp.Connected() {
		if err := lp.Disconnect(); err != nil {
			lp.log.WithError(err).Warn("failed to close previous port")
		}
	}

	if port == "" {
		found, err := lp.findPort()
		if err != nil {
			return err
		}
		port = found
	}

	if err := lp.transport.Open(port); err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return err
		}
		return &ConnectionError{Port: port, Err: err}
	}

	lp.mu.Lock()
	lp.connected = true
	lp.port = port
	lp.stamped = false
	lp.mu.Unlock()

	lp.log.WithField("port", port).Info("connected")
	lp.publish(Event{Type: EventConnect, Port: port})
	return nil
}

func (lp *Launchpad) findPort() (string, error) {
	ports, err := lp.ListAvailablePorts()
	if err != nil {
		return "", &ConnectionError{Err: err}
	}
	hint := strings.ToLower(lp.portHint)
	for _, p := range ports.Input {
		if strings.Contains(strings.ToLower(p.Name), hint) {
			return p.Name, nil
		}
	}
	for _, p := range ports.Output {
		if strings.Contains(strings.ToLower(p.Name), hint) {
			return p.Name, nil
		}
	}
	return "", &ConnectionError{Err: fmt.Errorf("%w: no port contains %q", ErrNoDevice, lp.portHint)}
}

// Disconnect closes the transport. Calling it while disconnected is a no-op.
func (lp *Launchpad) Disconnect() error {
	lp.mu.Lock()
	if !lp.connected {
		lp.mu.Unlock()
		return nil
	}
	port := lp.port
	lp.connected = false
	lp.port = ""
	lp.mu.Unlock()

	err := lp.transport.Close()
	if err != nil {
		err = fmt.Errorf("failed to close %q: %w", port, err)
	}

	lp.log.WithField("port", port).Info("disconnected")
	lp.publish(Event{Type: EventDisconnect, Port: port})
	return err
}

// Connected reports whether the driver has an open port
func (lp *Launchpad) Connected() bool {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.connected
}

// PortName returns the open port's name, or "" when disconnected
func (lp *Launchpad) PortName() string {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.port
}

// Send writes raw bytes to the device unchanged
func (lp *Launchpad) Send(raw []byte) error {
	if !lp.Connected() {
		return ErrNotConnected
	}
	return lp.transport.Send(raw)
}

// Subscribe registers fn for driver events. Events are delivered on the
// goroutine that produced them. The returned func removes fn.
func (lp *Launchpad) Subscribe(fn func(Event)) (cancel func()) {
	lp.subMu.Lock()
	id := lp.nextSubID
	lp.nextSubID++
	lp.subscribers[id] = fn
	lp.subMu.Unlock()

	return func() {
		lp.subMu.Lock()
		delete(lp.subscribers, id)
		lp.subMu.Unlock()
	}
}

func (lp *Launchpad) publish(e Event) {
	lp.subMu.RLock()
	subs := make([]func(Event), 0, len(lp.subscribers))
	for _, fn := range lp.subscribers {
		subs = append(subs, fn)
	}
	lp.subMu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

// handleMessage receives inbound messages from the transport
func (lp *Launchpad) handleMessage(msg []byte, timestampms int32) {
	lp.mu.Lock()
	var delta time.Duration
	if lp.stamped {
		delta = time.Duration(timestampms-lp.lastStamp) * time.Millisecond
	}
	lp.lastStamp = timestampms
	lp.stamped = true
	lp.mu.Unlock()

	key, ok := lp.Process(delta, msg)
	if !ok {
		return
	}
	lp.log.WithFields(logrus.Fields{
		"x":       key.X,
		"y":       key.Y,
		"pressed": key.Pressed,
	}).Debug("key")
	lp.publish(Event{Type: EventKey, Key: key})
}

func (lp *Launchpad) sendMessage(msg midi.Message) error {
	if !lp.Connected() {
		return ErrNotConnected
	}
	return lp.transport.Send(msg.Bytes())
}
