package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a small leveled logger writing to stderr and optionally to a
// rotated file. Search results go to stdout, so all diagnostics stay on
// stderr to keep piped output clean.
type Logger struct {
	writer io.Writer

	Name  string
	Level LogLevel

	TimeFormat string
	NoColor    bool
}

type LoggerRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

var defaultRotation = LoggerRotation{
	MaxSize:    64,
	MaxBackups: 3,
	MaxAge:     14,
}

// NewLogger creates a logger writing to stderr. A non-empty file path adds
// a rotated file target.
func NewLogger(name string, level LogLevel, file string) *Logger {
	writers := []io.Writer{os.Stderr}

	if file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    defaultRotation.MaxSize,
			MaxBackups: defaultRotation.MaxBackups,
			MaxAge:     defaultRotation.MaxAge,
			Compress:   defaultRotation.Compress,
		})
	}

	return &Logger{
		writer:     io.MultiWriter(writers...),
		Name:       name,
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// Discard returns a logger that drops everything; used by tests and as a
// fallback when no logger is configured.
func Discard() *Logger {
	return &Logger{
		writer:     io.Discard,
		Level:      Fatal + 1,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.Level {
		return
	}

	timestamp := time.Now().Format(l.TimeFormat)
	formatted := fmt.Sprintf(msg, args...)

	prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
	if l.Name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
	}

	if l.NoColor {
		fmt.Fprintf(l.writer, "%s %s\n", prefix, formatted)
	} else {
		fmt.Fprintf(l.writer, "%s%s %s\033[0m\n", level.Color(), prefix, formatted)
	}

	if level == Fatal {
		os.Exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}

// Named returns a child logger sharing the writer, with name appended to
// the prefix.
func (l *Logger) Named(name string) *Logger {
	child := *l
	if l.Name != "" {
		child.Name = fmt.Sprintf("%s/%s", l.Name, name)
	} else {
		child.Name = name
	}
	return &child
}
