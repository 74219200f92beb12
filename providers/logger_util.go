package providers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type FileLoggerImpl struct {
	filePath string
	mutex    sync.Mutex
}

func NewFileLogger(logPath string) (FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &FileLoggerImpl{
		filePath: logPath,
	}, nil
}

func (l *FileLoggerImpl) LogRequest(providerName, operation, location string) {
	l.writeLog(map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"provider":  providerName,
		"operation": operation,
		"event":     "request",
		"location":  location,
	})
}

// LogSuccess logs a completed provider call
func (l *FileLoggerImpl) LogSuccess(providerName, operation, location string, duration time.Duration) {
	l.writeLog(map[string]interface{}{
		"timestamp":   time.Now().Format(time.RFC3339),
		"provider":    providerName,
		"operation":   operation,
		"event":       "response",
		"location":    location,
		"duration_ms": duration.Milliseconds(),
	})
}

// LogError logs a failed provider call
func (l *FileLoggerImpl) LogError(providerName, operation, location string, err error, duration time.Duration) {
	l.writeLog(map[string]interface{}{
		"timestamp":   time.Now().Format(time.RFC3339),
		"provider":    providerName,
		"operation":   operation,
		"event":       "error",
		"location":    location,
		"duration_ms": duration.Milliseconds(),
		"error":       err.Error(),
	})
}

func (l *FileLoggerImpl) writeLog(entry map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		slog.Error("Failed to marshal log entry", "error", err)
		return
	}

	file, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("Failed to open log file", "path", l.filePath, "error", err)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.Write(append(data, '\n')); err != nil {
		slog.Error("Failed to write log entry", "error", err)
	}
}
