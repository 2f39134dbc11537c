package midi

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Transport carries raw messages to and from a device port pair
type Transport interface {
	Ports() (Ports, error)
	Open(name string) error
	Close() error
	OnMessage(fn func(msg []byte, timestampms int32))
	Send(msg []byte) error
}

// Manager is the gomidi backed Transport. Input and output ports are
// matched by name; the surface exposes one of each with the same name.
type Manager struct {
	mu       sync.RWMutex
	log      logrus.FieldLogger
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg midi.Message) error
	stopFunc func()
	onMsg    func(msg []byte, timestampms int32)
}

// NewManager creates a new MIDI manager
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{log: log.WithField("component", "transport")}
}

// Shutdown closes any open ports and the MIDI driver
func (m *Manager) Shutdown() {
	_ = m.Close()
	midi.CloseDriver()
}

// Ports lists the available input and output ports
func (m *Manager) Ports() (Ports, error) {
	var ports Ports
	for _, in := range midi.GetInPorts() {
		ports.Input = append(ports.Input, Port{ID: in.Number(), Name: in.String()})
	}
	for _, out := range midi.GetOutPorts() {
		ports.Output = append(ports.Output, Port{ID: out.Number(), Name: out.String()})
	}
	return ports, nil
}

// OnMessage sets the callback for inbound messages. It applies to ports
// opened afterwards.
func (m *Manager) OnMessage(fn func(msg []byte, timestampms int32)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMsg = fn
}

// Open opens the input and output ports called name. Either one may be
// missing, but not both.
func (m *Manager) Open(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inPort != nil || m.outPort != nil {
		m.closeLocked()
	}

	inPort := findInPort(name)
	outPort := findOutPort(name)
	if inPort == nil && outPort == nil {
		return &ConnectionError{Port: name, Err: ErrNoDevice}
	}

	if outPort != nil {
		send, err := midi.SendTo(outPort)
		if err != nil {
			return &ConnectionError{Port: name, Err: fmt.Errorf("failed to create sender: %w", err)}
		}
		m.outPort = outPort
		m.send = send
	}

	if inPort != nil {
		onMsg := m.onMsg
		stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
			if onMsg != nil {
				onMsg(msg.Bytes(), timestampms)
			}
		})
		if err != nil {
			m.closeLocked()
			return &ConnectionError{Port: name, Err: fmt.Errorf("failed to start listening: %w", err)}
		}
		m.inPort = inPort
		m.stopFunc = stop
	}

	m.log.WithFields(logrus.Fields{
		"port":   name,
		"input":  inPort != nil,
		"output": outPort != nil,
	}).Info("opened ports")
	return nil
}

// Close stops listening and closes both ports
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	var firstErr error
	if m.stopFunc != nil {
		m.stopFunc()
		m.stopFunc = nil
	}
	if m.inPort != nil {
		if err := m.inPort.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close input: %w", err)
		}
		m.inPort = nil
	}
	if m.outPort != nil {
		if err := m.outPort.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close output: %w", err)
		}
		m.outPort = nil
	}
	m.send = nil
	return firstErr
}

// Send writes one raw message to the output port
func (m *Manager) Send(msg []byte) error {
	m.mu.RLock()
	send := m.send
	m.mu.RUnlock()

	if send == nil {
		return ErrNotConnected
	}
	if err := send(midi.Message(msg)); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

func findInPort(name string) drivers.In {
	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in
		}
	}
	return nil
}

func findOutPort(name string) drivers.Out {
	for _, out := range midi.GetOutPorts() {
		if out.String() == name {
			return out
		}
	}
	return nil
}
