// Package logging builds arbor loggers with private writers, so loggers
// created here never fall back to arbor's global writer registry.
package logging

import (
	"sync"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const timeFormat = "15:04:05"

// Discard returns a logger that drops every event.
func Discard() arbor.ILogger {
	return arbor.NewLogger().WithWriters([]writers.IWriter{discardWriter{}})
}

// OrDiscard returns logger, or Discard when it is nil.
func OrDiscard(logger arbor.ILogger) arbor.ILogger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// Console returns a logfmt logger writing to stderr at level.
func Console(level string) arbor.ILogger {
	writer := writers.ConsoleWriter(models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		TimeFormat: timeFormat,
		OutputType: models.OutputFormatLogfmt,
	})
	return arbor.NewLogger().WithWriters([]writers.IWriter{writer}).WithLevelFromString(orInfo(level))
}

// File returns a logfmt logger writing to a rotated file at level.
func File(location, level string) arbor.ILogger {
	writer := writers.FileWriter(models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   location,
		TimeFormat: timeFormat,
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 3,
		OutputType: models.OutputFormatLogfmt,
	})
	return arbor.NewLogger().WithWriters([]writers.IWriter{writer}).WithLevelFromString(orInfo(level))
}

// Capture returns a logger recording every encoded event into the returned
// Recorder.
func Capture() (arbor.ILogger, *Recorder) {
	recorder := &Recorder{}
	return arbor.NewLogger().WithWriters([]writers.IWriter{recorder}), recorder
}

func orInfo(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

type discardWriter struct{}

func (w discardWriter) WithLevel(log.Level) writers.IWriter { return w }
func (discardWriter) Write(p []byte) (int, error)          { return len(p), nil }
func (discardWriter) GetFilePath() string                   { return "" }
func (discardWriter) Close() error                          { return nil }

// Recorder keeps the raw JSON events handed to it.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) WithLevel(log.Level) writers.IWriter { return r }

func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, string(p))
	return len(p), nil
}

func (*Recorder) GetFilePath() string { return "" }
func (*Recorder) Close() error        { return nil }

// Events returns the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.events...)
}
