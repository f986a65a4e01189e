package logger

import "strings"

// Level is the level at which a logger is configured. Messages below it are
// dropped.
type Level uint32

// Level constants.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// levelNames holds the tag printed in log lines and the name accepted in
// configuration for every level.
var levelNames = [...]struct{ tag, name string }{
	LevelTrace:    {"TRC", "trace"},
	LevelDebug:    {"DBG", "debug"},
	LevelInfo:     {"INF", "info"},
	LevelWarn:     {"WRN", "warn"},
	LevelError:    {"ERR", "error"},
	LevelCritical: {"CRT", "critical"},
	LevelOff:      {"OFF", "off"},
}

// LevelFromString parses a level from either its name or its tag, ignoring
// case. Anything else yields LevelInfo and false.
func LevelFromString(s string) (Level, bool) {
	for level, names := range levelNames {
		if strings.EqualFold(s, names.name) || strings.EqualFold(s, names.tag) {
			return Level(level), true
		}
	}
	return LevelInfo, false
}

// String returns the tag of the level used in log lines
func (l Level) String() string {
	if l >= LevelOff {
		return levelNames[LevelOff].tag
	}
	return levelNames[l].tag
}
