package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := map[string]logrus.Level{
		"":      logrus.InfoLevel,
		"debug": logrus.DebugLevel,
		"warn":  logrus.WarnLevel,
		"trace": logrus.TraceLevel,
	}
	for in, want := range tests {
		log := New(in, &bytes.Buffer{})
		assert.Equal(t, want, log.GetLevel(), in)
	}
}

func TestNewUnknownLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("loud", buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}

func TestNewWritesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("info", buf)
	log.WithField("port", "Launchpad").Info("connected")
	assert.Contains(t, buf.String(), "port=Launchpad")
	assert.Contains(t, buf.String(), "msg=connected")
}
