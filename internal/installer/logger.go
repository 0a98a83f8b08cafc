package installer

// Logger receives the events of an install or uninstall run. Every call
// is a message followed by alternating key/value pairs; a logrus-backed
// implementation lives in internal/logging.
type Logger interface {
	// Debug receives one "state" event per install step, keyed by
	// "state" with the State reached and step details such as the
	// resolved version, archive name and size, or installed path.
	Debug(msg string, keysAndValues ...interface{})

	// Info receives the progress lines shown to the user: release
	// resolution, detected platform, download, checksum result,
	// installed binary and written templates.
	Info(msg string, keysAndValues ...interface{})

	// Warn receives each reason an archive goes unverified (disabled,
	// not published, or unreachable) and a scratch directory that
	// could not be removed after a successful run.
	Warn(msg string, keysAndValues ...interface{})

	// Error receives the terminal failure of a run. The installer
	// returns its errors; the caller decides whether to log them.
	Error(msg string, keysAndValues ...interface{})
}

// silent drops every event. Installers built without WithLogger use it.
type silent struct{}

func (silent) Debug(string, ...interface{}) {}
func (silent) Info(string, ...interface{})  {}
func (silent) Warn(string, ...interface{})  {}
func (silent) Error(string, ...interface{}) {}
