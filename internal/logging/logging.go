// Package logging provides the ambient log-file/syslog sink used by the
// live-status server: a rotatable append log plus optional syslog mirroring,
// gated by a verbosity bitmask so callers can enable per-subsystem tracing
// without a structured logging dependency.
package logging

import (
	"fmt"
	"log/syslog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ringwatch/gostatus/internal/objects"
)

// Verbosity bitmask flags for selective verbose logging.
const (
	VerboseLivestatus = 1 << 0 // Log every livestatus query
	VerboseWait       = 1 << 1 // Log wait-coordinator trigger activity
)

// Logger handles append-only log output with rotation support.
type Logger struct {
	mu             sync.Mutex
	logFile        *os.File
	logPath        string
	archivePath    string
	rotationMethod int
	useSyslog      bool
	useStdout      bool
	syslogWriter   *syslog.Writer
	Verbosity      int
}

// NewLogger creates a new Logger writing to logPath, archiving rotated files
// under archivePath.
func NewLogger(logPath, archivePath string, rotationMethod int, useSyslog bool) (*Logger, error) {
	l := &Logger{
		logPath:        logPath,
		archivePath:    archivePath,
		rotationMethod: rotationMethod,
		useSyslog:      useSyslog,
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logPath, err)
	}
	l.logFile = f

	if useSyslog {
		sw, err := syslog.New(syslog.LOG_USER|syslog.LOG_INFO, "livestatus")
		if err != nil {
			// Syslog failure is non-fatal
			l.useSyslog = false
		} else {
			l.syslogWriter = sw
		}
	}

	return l, nil
}

// Close closes the log file and syslog connection.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
	}
	if l.syslogWriter != nil {
		l.syslogWriter.Close()
	}
}

// SetStdout enables or disables echoing log messages to stdout.
func (l *Logger) SetStdout(enabled bool) {
	l.mu.Lock()
	l.useStdout = enabled
	l.mu.Unlock()
}

// Log writes a timestamped message to the log file.
func (l *Logger) Log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%d] %s\n", time.Now().Unix(), msg)

	l.mu.Lock()
	if l.logFile != nil {
		l.logFile.WriteString(line)
	}
	if l.useStdout {
		os.Stdout.WriteString(line)
	}
	l.mu.Unlock()

	if l.useSyslog && l.syslogWriter != nil {
		l.syslogWriter.Info(msg)
	}
}

// LogVerbose writes a log message only if the given verbosity flag is enabled.
func (l *Logger) LogVerbose(flag int, format string, args ...interface{}) {
	if l.Verbosity&flag == 0 {
		return
	}
	l.Log(format, args...)
}

// Rotate rotates the log file.
func (l *Logger) Rotate() error {
	now := time.Now()
	archiveName := fmt.Sprintf("livestatus-%02d-%02d-%04d-%02d.log",
		now.Month(), now.Day(), now.Year(), now.Hour())
	archivePath := filepath.Join(l.archivePath, archiveName)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Don't overwrite existing archive
	if _, err := os.Stat(archivePath); err == nil {
		return nil
	}

	if l.logFile != nil {
		l.logFile.Close()
	}

	if err := os.Rename(l.logPath, archivePath); err != nil {
		// If rename fails, reopen the log
		l.logFile, _ = os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		return fmt.Errorf("rotate log: %w", err)
	}

	var err error
	l.logFile, err = os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open new log: %w", err)
	}

	fmt.Fprintf(l.logFile, "[%d] LOG ROTATION: %s\n", time.Now().Unix(), archivePath)

	return nil
}

// NextRotationTime returns the next time the log should be rotated.
func (l *Logger) NextRotationTime(from time.Time) time.Time {
	switch l.rotationMethod {
	case objects.LogRotationHourly:
		return from.Truncate(time.Hour).Add(time.Hour)
	case objects.LogRotationDaily:
		y, m, d := from.Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, from.Location())
	case objects.LogRotationWeekly:
		y, m, d := from.Date()
		daysUntilSunday := (7 - int(from.Weekday())) % 7
		if daysUntilSunday == 0 {
			daysUntilSunday = 7
		}
		return time.Date(y, m, d+daysUntilSunday, 0, 0, 0, 0, from.Location())
	case objects.LogRotationMonthly:
		y, m, _ := from.Date()
		return time.Date(y, m+1, 1, 0, 0, 0, 0, from.Location())
	default:
		return time.Time{} // No rotation
	}
}

// RotationMethod returns the current rotation method.
func (l *Logger) RotationMethod() int {
	return l.rotationMethod
}
