// Package logging writes pipeline activity to a rotating log file under
// the .planpatch directory. Progress meant for the terminal goes through
// the CLI; the file log keeps the full trail.
package logging

import (
	"fmt"
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the file-backed activity log.
type Logger struct {
	logger *log.Logger
	file   *lumberjack.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger, creating it on first use.
func Get() *Logger {
	once.Do(func() {
		file := &lumberjack.Logger{
			Filename:   ".planpatch/planpatch.log",
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(file, "", log.LstdFlags),
			file:   file,
		}
	})
	return globalLogger
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	return l.file.Close()
}

// Log writes one message to the log file.
func (l *Logger) Log(message string) {
	l.logger.Print(message)
}

// Logf writes one formatted message to the log file.
func (l *Logger) Logf(format string, v ...any) {
	l.logger.Printf(format, v...)
}

// LogPhase records a named pipeline phase with detail.
func (l *Logger) LogPhase(phase, detail string) {
	l.logger.Printf("Phase: %s, Detail: %s", phase, detail)
}

// LogError records an error.
func (l *Logger) LogError(err error) {
	l.logger.Print(fmt.Sprintf("Error: %s", err))
}
