// Package logger provides structured logging for the game server.
package logger

import (
	"fmt"
	"log"
	"os"
)

// Logger provides leveled logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a new logger instance.
func NewLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "[LEAF-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[LEAF-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[LEAF-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Infof logs informational messages with formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.infoLogger.Println(fmt.Sprintf(format, args...))
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Warnf logs warning messages with formatting.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.warnLogger.Println(fmt.Sprintf(format, args...))
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Errorf logs error messages with formatting.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.errorLogger.Println(fmt.Sprintf(format, args...))
}

// Event logs a specific game event for traceability.
func (l *Logger) Event(eventType string, details string) {
	l.infoLogger.Printf("[EVENT:%s] %s", eventType, details)
}
