package logging

import (
	"testing"
	"time"
)

func TestInitLogger(t *testing.T) {
	levels := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, Level(99)}
	formats := []Format{FormatJSON, FormatText}

	for _, level := range levels {
		for _, format := range formats {
			InitLogger(level, format)
			if GetLogger() == nil {
				t.Errorf("GetLogger() = nil after InitLogger(%d, %d)", level, format)
			}
		}
	}
}

func TestHelpersDoNotPanic(t *testing.T) {
	InitLogger(LevelDebug, FormatText)

	Debug("debug message", "key", "value")
	Info("info message", "key", "value")
	Warn("warn message", "key", "value")
	Error("error message", "key", "value")

	RecomputeEvent(3, 2, 5*time.Millisecond, "doc", "d1")
	ReconcileEvent("ref-list-1", 1, 1, 0)
	SnapshotEvent("save", "doc.xml.xz", 1024)
	WebSocketEvent("client_connected", 1)
}
