package logging

import (
	"container/ring"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// MaxBufferSize is the maximum number of log entries to keep in memory
	MaxBufferSize = 1000

	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var levelRank = map[string]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}

// Manager collects log entries into a ring buffer and echoes the ones at or
// above its level to an output writer and an optional append-only file.
type Manager struct {
	mu     sync.Mutex
	buffer *ring.Ring
	level  int
	out    io.Writer
	file   *os.File
}

// NewManager creates a manager writing to out. An unknown level means info.
func NewManager(level string, out io.Writer) *Manager {
	if out == nil {
		out = io.Discard
	}
	return &Manager{
		buffer: ring.New(MaxBufferSize),
		level:  parseLevel(level),
		out:    out,
	}
}

func parseLevel(level string) int {
	if r, ok := levelRank[strings.ToLower(strings.TrimSpace(level))]; ok {
		return r
	}
	return levelRank[LogLevelInfo]
}

// SetLevel changes the minimum level that is echoed.
func (m *Manager) SetLevel(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = parseLevel(level)
}

// OpenFile appends every echoed entry to path, creating parent directories.
func (m *Manager) OpenFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file != nil {
		m.file.Close()
	}
	m.file = f
	return nil
}

// Close releases the file sink, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	return err
}

// Log adds a log entry to the buffer and echoes it when it meets the level.
func (m *Manager) Log(level, source, message string) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Source:    source,
		Message:   message,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.buffer.Value = entry
	m.buffer = m.buffer.Next()

	if parseLevel(level) < m.level {
		return
	}
	line := formatEntry(entry)
	fmt.Fprintln(m.out, line)
	if m.file != nil {
		fmt.Fprintf(m.file, "%s %s\n", entry.Timestamp.Format(time.RFC3339), line)
	}
}

func formatEntry(e LogEntry) string {
	return fmt.Sprintf("%-5s [%s] %s", strings.ToUpper(e.Level), e.Source, e.Message)
}

// GetRecent returns up to limit buffered entries, newest first, optionally
// filtered by level.
func (m *Manager) GetRecent(limit int, levelFilter string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > MaxBufferSize {
		limit = 100
	}

	logs := make([]LogEntry, 0, limit)
	m.buffer.Do(func(v interface{}) {
		entry, ok := v.(LogEntry)
		if !ok {
			return
		}
		if levelFilter != "" && entry.Level != levelFilter {
			return
		}
		logs = append(logs, entry)
	})

	// Reverse to get newest first
	for i := 0; i < len(logs)/2; i++ {
		logs[i], logs[len(logs)-1-i] = logs[len(logs)-1-i], logs[i]
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs
}

func (m *Manager) Debug(source, message string) { m.Log(LogLevelDebug, source, message) }
func (m *Manager) Info(source, message string)  { m.Log(LogLevelInfo, source, message) }
func (m *Manager) Warn(source, message string)  { m.Log(LogLevelWarn, source, message) }
func (m *Manager) Error(source, message string) { m.Log(LogLevelError, source, message) }

// logInterceptWriter implements io.Writer so that Go's standard log package
// output is captured and routed through the logging manager.
type logInterceptWriter struct {
	manager *Manager
}

// Write parses the "[Component] message" format used by log.Printf calls
// throughout the module.
func (w *logInterceptWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))

	level := LogLevelInfo
	source := "system"

	if len(msg) > 2 && msg[0] == '[' {
		end := strings.Index(msg, "]")
		if end > 1 {
			source = strings.ToLower(msg[1:end])
			msg = strings.TrimSpace(msg[end+1:])
		}
	}

	// Level markers: "Debug:", "Warning:", "Error:" or a failure message.
	lowerMsg := strings.ToLower(msg)
	switch {
	case strings.HasPrefix(lowerMsg, "debug:"):
		level = LogLevelDebug
		msg = strings.TrimSpace(msg[len("debug:"):])
	case strings.HasPrefix(lowerMsg, "warning:"):
		level = LogLevelWarn
		msg = strings.TrimSpace(msg[len("warning:"):])
	case strings.HasPrefix(lowerMsg, "error:"):
		level = LogLevelError
		msg = strings.TrimSpace(msg[len("error:"):])
	case strings.Contains(lowerMsg, "failed"):
		level = LogLevelError
	}

	w.manager.Log(level, source, msg)
	return len(p), nil
}

// InstallLogInterceptor redirects Go's standard log package through this manager.
// Call this once at startup after creating the manager.
func (m *Manager) InstallLogInterceptor() {
	log.SetOutput(&logInterceptWriter{manager: m})
	log.SetFlags(0) // We handle timestamps ourselves
}
