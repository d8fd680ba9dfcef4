package sonar

import (
	plog "github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

// discard is an arbor writer that drops every event.
// A logger holding its own writers never falls back to
// the writers registered with arbor for the whole process.
type discard struct{}

func (discard) WithLevel(plog.Level) writers.IWriter { return discard{} }
func (discard) Write(p []byte) (int, error)          { return len(p), nil }
func (discard) GetFilePath() string                  { return "" }
func (discard) Close() error                         { return nil }

func silentLogger() arbor.ILogger {
	return arbor.NewLogger().WithWriters([]writers.IWriter{discard{}})
}

// NewLogger returns a logger writing text to the console
// at info level, or debug level if debug is set.
func NewLogger(debug bool) arbor.ILogger {
	level := "info"
	if debug {
		level = "debug"
	}
	return arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		TextOutput:       true,
		DisableTimestamp: false,
	}).WithLevelFromString(level)
}
