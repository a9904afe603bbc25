package logger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, "info")

	l.Infof("scanning %s", "/mnt/usb")

	assert.Regexp(t, regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[INFO\] scanning /mnt/usb\n$`), buf.String())
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warn", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
		{"bogus", []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := NewConsoleLogger(buf, tt.level)
			l.Debugf("d")
			l.Infof("i")
			l.Warnf("w")
			l.Errorf("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			assert.Len(t, lines, len(tt.want))
			for i, tag := range tt.want {
				assert.Contains(t, lines[i], "["+tag+"]")
			}
		})
	}
}

func TestConsoleLogger_SetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, "info")
	l.Debugf("hidden")
	l.SetLevel("debug")
	l.Debugf("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleLogger_NilWriter(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Errorf("nothing %d", 1)
	})
}

func TestConsoleLogger_NoColorForBuffers(t *testing.T) {
	l := NewConsoleLogger(&bytes.Buffer{}, "info")
	assert.False(t, l.colorOutput)
}
