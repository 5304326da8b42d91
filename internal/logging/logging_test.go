package logging

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ringwatch/gostatus/internal/objects"
)

func TestLogger_Log(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := tmpDir + "/test.log"

	l, err := NewLogger(logPath, tmpDir, objects.LogRotationNone, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	l.Log("Test message %d", 42)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Test message 42") {
		t.Errorf("expected 'Test message 42' in log, got: %s", content)
	}
	if !strings.HasPrefix(content, "[") {
		t.Error("expected timestamp prefix")
	}
}

func TestLogger_Verbose(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := tmpDir + "/test.log"

	l, err := NewLogger(logPath, tmpDir, objects.LogRotationNone, false)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.LogVerbose(VerboseLivestatus, "should be suppressed")
	l.Verbosity = VerboseLivestatus
	l.LogVerbose(VerboseLivestatus, "should appear")
	l.LogVerbose(VerboseWait, "also suppressed")

	data, _ := os.ReadFile(logPath)
	content := string(data)
	if strings.Contains(content, "should be suppressed") {
		t.Error("expected first message to be suppressed")
	}
	if !strings.Contains(content, "should appear") {
		t.Error("expected second message to be logged")
	}
	if strings.Contains(content, "also suppressed") {
		t.Error("expected wait-flag message to be suppressed")
	}
}

func TestLogger_NextRotationTime(t *testing.T) {
	logPath := "/dev/null"

	tests := []struct {
		method   int
		from     time.Time
		expected time.Time
	}{
		{
			objects.LogRotationHourly,
			time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
			time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC),
		},
		{
			objects.LogRotationDaily,
			time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
			time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			objects.LogRotationMonthly,
			time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		l, err := NewLogger(logPath, "/tmp", tt.method, false)
		if err != nil {
			t.Fatal(err)
		}
		got := l.NextRotationTime(tt.from)
		if !got.Equal(tt.expected) {
			t.Errorf("method %d: expected %v, got %v", tt.method, tt.expected, got)
		}
		l.Close()
	}
}

func TestLogger_Rotate(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := tmpDir + "/livestatus.log"

	l, err := NewLogger(logPath, tmpDir, objects.LogRotationDaily, false)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Log("Before rotation")

	if err := l.Rotate(); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	l.Log("After rotation")

	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), "After rotation") {
		t.Error("expected new log to contain 'After rotation'")
	}
	if strings.Contains(string(data), "Before rotation") {
		t.Error("expected 'Before rotation' to be in archive, not current log")
	}

	entries, _ := os.ReadDir(tmpDir)
	foundArchive := false
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "livestatus-") && strings.HasSuffix(e.Name(), ".log") {
			foundArchive = true
		}
	}
	if !foundArchive {
		t.Error("expected archive file to exist")
	}
}
