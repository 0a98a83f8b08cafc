// Package logging configures logrus for installer output.
//
// Entries are rendered as "[LEVEL] message key=value ..." with no
// timestamp. Info and debug go to stdout; warnings and errors go to
// stderr, so scripted callers can separate failures from progress.
package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
)

// TagFormatter renders entries with a bracketed level tag.
type TagFormatter struct {
	levelTags []string
}

// NewTagFormatter creates a TagFormatter.
func NewTagFormatter() *TagFormatter {
	return &TagFormatter{
		levelTags: []string{"PANIC", "FATAL", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"},
	}
}

// Format renders a single log entry.
func (f *TagFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", f.tag(entry.Level), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *TagFormatter) tag(level logrus.Level) string {
	if int(level) >= len(f.levelTags) {
		return "LOG"
	}
	return f.levelTags[level]
}

// New returns a logger writing info/debug to stdout and warn/error to
// stderr. Debug entries are emitted only when verbose is set.
func New(stdout, stderr io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(NewTagFormatter())

	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.AddHook(&writer.Hook{
		Writer:    stdout,
		LogLevels: []logrus.Level{logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel},
	})
	logger.AddHook(&writer.Hook{
		Writer:    stderr,
		LogLevels: []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel},
	})

	return logger
}

// Adapter exposes a logrus logger through the installer's key/value
// logging interface.
type Adapter struct {
	entry *logrus.Entry
}

// NewAdapter wraps logger.
func NewAdapter(logger *logrus.Logger) *Adapter {
	return &Adapter{entry: logrus.NewEntry(logger)}
}

func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.with(keysAndValues).Debug(msg)
}

func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.with(keysAndValues).Info(msg)
}

func (a *Adapter) Warn(msg string, keysAndValues ...interface{}) {
	a.with(keysAndValues).Warn(msg)
}

func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.with(keysAndValues).Error(msg)
}

// with turns alternating key/value pairs into logrus fields. A trailing
// key without a value is logged under "extra".
func (a *Adapter) with(keysAndValues []interface{}) *logrus.Entry {
	if len(keysAndValues) == 0 {
		return a.entry
	}
	fields := make(logrus.Fields, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 >= len(keysAndValues) {
			fields["extra"] = keysAndValues[i]
			break
		}
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return a.entry.WithFields(fields)
}
