package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	Logger  *log.Logger
	logFile *os.File
	mu      sync.Mutex
)

// The TUI owns the terminal, so the logger starts discarded and only writes
// once Initialize points it at a file next to the database.
func init() {
	Logger = log.New(io.Discard, "[notry] ", log.LstdFlags|log.Lshortfile)
}

// Initialize redirects the logger to a debug.log in the given directory.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" {
		logDir = "."
	}

	logPath := filepath.Join(logDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	if logFile != nil {
		logFile.Close()
	}

	logFile = f
	Logger = log.New(f, "[notry] ", log.LstdFlags|log.Lshortfile)
	return nil
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile.Close()
	}
	return nil
}
