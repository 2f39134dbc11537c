package midi

import (
	"bytes"
	"sync"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
)

// fakeTransport records sent messages and lets tests inject inbound ones
type fakeTransport struct {
	mu      sync.Mutex
	ports   Ports
	opened  string
	closed  int
	openErr error
	onMsg   func(msg []byte, timestampms int32)
	sent    [][]byte
}

func newFakeTransport(names ...string) *fakeTransport {
	ft := &fakeTransport{}
	for i, n := range names {
		ft.ports.Input = append(ft.ports.Input, Port{ID: i, Name: n})
		ft.ports.Output = append(ft.ports.Output, Port{ID: i, Name: n})
	}
	return ft
}

func (ft *fakeTransport) Ports() (Ports, error) { return ft.ports, nil }

func (ft *fakeTransport) Open(name string) error {
	if ft.openErr != nil {
		return ft.openErr
	}
	ft.opened = name
	return nil
}

func (ft *fakeTransport) Close() error {
	ft.closed++
	return nil
}

func (ft *fakeTransport) OnMessage(fn func(msg []byte, timestampms int32)) { ft.onMsg = fn }

func (ft *fakeTransport) Send(msg []byte) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.sent = append(ft.sent, append([]byte(nil), msg...))
	return nil
}

func (ft *fakeTransport) inject(ts int32, msg ...byte) {
	ft.onMsg(msg, ts)
}

func (ft *fakeTransport) messages() [][]byte {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.sent
}

// recorder is a send func capturing translator output
type recorder struct {
	sent [][]byte
}

func (r *recorder) send(msg midi.Message) error {
	r.sent = append(r.sent, msg.Bytes())
	return nil
}

func (r *recorder) last() []byte {
	if len(r.sent) == 0 {
		return nil
	}
	return r.sent[len(r.sent)-1]
}

// quietLogger writes to a buffer the test can inspect
func quietLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}
