package rtscam

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger("", false)
	l.out = log.New(&buf, "", 0)

	l.Infof("hello %d", 1)
	l.Debugf("hidden")
	assert.Equal(t, "[rtscam] INFO: hello 1\n", buf.String())

	buf.Reset()
	l.SetDebug(true)
	l.Debugf("shown")
	assert.Equal(t, "[rtscam] DEBUG: shown\n", buf.String())
}

func TestWithPrefix(t *testing.T) {
	capture := &captureLogger{}
	l := WithPrefix(WithPrefix(capture, "rts camera"), "ground")

	l.Warnf("%d%% covered", 50)
	l.Errorf("bad")
	assert.Equal(t, []string{
		"WARN: rts camera: ground: 50% covered",
		"ERROR: rts camera: ground: bad",
	}, capture.lines)

	assert.NotPanics(t, func() { WithPrefix(nil, "x").Infof("dropped") })
}

func TestWithPrefix_DebugFollowsInner(t *testing.T) {
	var buf bytes.Buffer
	inner := NewDefaultLogger("viewer", false)
	inner.out = log.New(&buf, "", 0)
	l := WithPrefix(inner, "rts camera")

	l.Debugf("hidden")
	assert.Empty(t, buf.String())

	l.SetDebug(true)
	l.Debugf("camera %d", 3)
	assert.Equal(t, "[viewer] DEBUG: rts camera: camera 3\n", buf.String())
}
