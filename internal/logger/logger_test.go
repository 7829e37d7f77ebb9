package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type staticChecker bool

func (s staticChecker) IsVerbose() bool { return bool(s) }

func TestVerboseGating(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter("fetch", staticChecker(tt.verbose), &buf)

			log.Debug("fetching %s", "snapshot")
			log.Info("plain info")
			gotDebug := strings.Contains(buf.String(), "DEBUG [fetch] fetching snapshot")
			if gotDebug != tt.wantDebug {
				t.Errorf("Expected debug output %v, got %q", tt.wantDebug, buf.String())
			}

			buf.Reset()
			log.Warn("always shown")
			if !strings.Contains(buf.String(), "WARN [fetch] always shown") {
				t.Errorf("Expected warning line, got %q", buf.String())
			}
		})
	}
}

func TestWarnWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("materialize", nil, &buf)

	log.WarnWithFields("header missing", []Field{F("field", "nick"), Count(3), Error(errors.New("boom"))})

	line := buf.String()
	if !strings.Contains(line, "[field=nick count=3 error=boom]") {
		t.Errorf("Expected structured fields in line, got %q", line)
	}
}

func TestPercentSignWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("", nil, &buf)

	log.Error("100% broken")
	if !strings.Contains(buf.String(), "ERROR [main] 100% broken") {
		t.Errorf("Expected literal message, got %q", buf.String())
	}
}

func TestWithComponentAndDiscard(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithCallback("cli", func() bool { return true })
	base.writer = &buf

	child := base.WithComponent("watch")
	child.Info("reloaded")
	if !strings.Contains(buf.String(), "INFO [watch] reloaded") {
		t.Errorf("Expected child component tag, got %q", buf.String())
	}

	// must not panic or write anywhere observable
	Discard().Error("dropped")
}
