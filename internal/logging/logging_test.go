package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestTagFormatter(t *testing.T) {
	tests := []struct {
		name  string
		level logrus.Level
		msg   string
		data  logrus.Fields
		want  string
	}{
		{"info", logrus.InfoLevel, "Installing", nil, "[INFO] Installing\n"},
		{"warn", logrus.WarnLevel, "checksum skipped", nil, "[WARN] checksum skipped\n"},
		{"error", logrus.ErrorLevel, "boom", nil, "[ERROR] boom\n"},
		{"debug", logrus.DebugLevel, "state", nil, "[DEBUG] state\n"},
		{
			"sorted fields", logrus.DebugLevel, "state",
			logrus.Fields{"version": "v1.0.2", "state": "VERSION_RESOLVED"},
			"[DEBUG] state state=VERSION_RESOLVED version=v1.0.2\n",
		},
	}

	f := NewTagFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Level:   tt.level,
				Message: tt.msg,
				Data:    tt.data,
				Time:    time.Now(),
			}
			if entry.Data == nil {
				entry.Data = logrus.Fields{}
			}
			got, err := f.Format(entry)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_SplitsStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := New(&stdout, &stderr, false)

	logger.Info("progress")
	logger.Debug("hidden")
	logger.Warn("careful")
	logger.Error("failed")

	if got := stdout.String(); got != "[INFO] progress\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := stderr.String(); got != "[WARN] careful\n[ERROR] failed\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestNew_Verbose(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := New(&stdout, &stderr, true)

	logger.Debug("shown")

	if !strings.Contains(stdout.String(), "[DEBUG] shown") {
		t.Errorf("debug entry missing from stdout: %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestAdapter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := NewAdapter(New(&stdout, &stderr, true))

	log.Debug("transition", "state", "DOWNLOADED", "bytes", 42)
	log.Info("done")
	log.Warn("odd", "dangling")
	log.Error("failed", "kind", "DownloadFailed")

	wantOut := "[DEBUG] transition bytes=42 state=DOWNLOADED\n[INFO] done\n"
	if stdout.String() != wantOut {
		t.Errorf("stdout = %q, want %q", stdout.String(), wantOut)
	}
	wantErr := "[WARN] odd extra=dangling\n[ERROR] failed kind=DownloadFailed\n"
	if stderr.String() != wantErr {
		t.Errorf("stderr = %q, want %q", stderr.String(), wantErr)
	}
}
