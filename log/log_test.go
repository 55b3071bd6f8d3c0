package log_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/pipelined/render/log"
)

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := log.GetLogger()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	log.WithFields(l, logrus.Fields{"id": "abc"}).Info("initialized")
	assert.Contains(t, buf.String(), "id=abc")
	assert.Contains(t, buf.String(), "initialized")
}

func TestDiscard(t *testing.T) {
	l := log.WithFields(log.Discard(), logrus.Fields{"id": "abc"})
	assert.Equal(t, log.Discard(), l)
	l.Info("dropped")
}
