package logger

import (
	"bytes"
	"strings"
	"testing"
)

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func TestBackendFiltersByLevel(t *testing.T) {
	backend := NewBackendWithFlags(0)
	infoWriter := &closingBuffer{}
	errorWriter := &closingBuffer{}
	if err := backend.AddLogWriter(infoWriter, LevelInfo); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.AddLogWriter(errorWriter, LevelError); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if err := backend.AddLogWriter(&closingBuffer{}, LevelInfo); err == nil {
		t.Fatalf("AddLogWriter: expected an error once the backend is running")
	}

	log := backend.Logger("TEST")
	log.SetLevel(LevelDebug)
	log.Tracef("dropped %d", 1)
	log.Debugf("debug %d", 2)
	log.Infof("info %d", 3)
	log.Errorf("error %d", 4)
	backend.Close()

	infoOutput := infoWriter.String()
	if strings.Contains(infoOutput, "dropped") || strings.Contains(infoOutput, "debug 2") {
		t.Fatalf("info writer received messages below its level:\n%s", infoOutput)
	}
	if !strings.Contains(infoOutput, "[INF] TEST: info 3\n") {
		t.Fatalf("info writer is missing the info message:\n%s", infoOutput)
	}
	if !strings.Contains(infoOutput, "[ERR] TEST: error 4\n") {
		t.Fatalf("info writer is missing the error message:\n%s", infoOutput)
	}

	errorOutput := errorWriter.String()
	if strings.Contains(errorOutput, "info 3") || !strings.Contains(errorOutput, "error 4") {
		t.Fatalf("error writer has unexpected content:\n%s", errorOutput)
	}
	if !infoWriter.closed || !errorWriter.closed {
		t.Fatalf("Close should close every writer")
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input         string
		expectedLevel Level
		expectedOK    bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"warn", LevelWarn, true},
		{"off", LevelOff, true},
		{"loud", LevelInfo, false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.input)
		if level != test.expectedLevel || ok != test.expectedOK {
			t.Errorf("LevelFromString(%q): expected (%s, %t), got (%s, %t)",
				test.input, test.expectedLevel, test.expectedOK, level, ok)
		}
	}
}

func TestParseAndSetLogLevels(t *testing.T) {
	log := RegisterSubSystem("TSTP")
	if err := ParseAndSetLogLevels("TSTP=debug"); err != nil {
		t.Fatalf("ParseAndSetLogLevels: %+v", err)
	}
	if log.Level() != LevelDebug {
		t.Fatalf("expected level %s, got %s", LevelDebug, log.Level())
	}
	if err := ParseAndSetLogLevels("NOSUCHSUBSYSTEM=debug"); err == nil {
		t.Fatalf("expected an error for an unknown subsystem")
	}
	if err := ParseAndSetLogLevels("verbose"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}
