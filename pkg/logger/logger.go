package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger логгер сервиса в printf-стиле поверх charmbracelet/log
// Пишет одновременно в stdout и в файл (если указан)
type Logger struct {
	base *log.Logger
	file *os.File
}

// New создаёт логгер, пишущий в stdout и в файл filePath
// Пустой filePath отключает запись в файл
func New(filePath, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		out  io.Writer = os.Stdout
		file *os.File
	)

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("logger: create log directory: %w", err)
		}

		file, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	l := newBase(out, lvl)
	return &Logger{base: l, file: file}, nil
}

// NewWriter создаёт логгер поверх произвольного io.Writer (используется в тестах)
func NewWriter(w io.Writer, level string) *Logger {
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return &Logger{base: newBase(w, lvl)}
}

func newBase(w io.Writer, lvl log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})
}

func parseLevel(level string) (log.Level, error) {
	if level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return 0, fmt.Errorf("logger: unknown level %q: %w", level, err)
	}
	return lvl, nil
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.base.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.base.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.base.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.base.Errorf(format, v...)
}

// Fatal пишет сообщение и завершает процесс с кодом 1
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.base.Errorf(format, v...)
	l.Close()
	os.Exit(1)
}

// Close закрывает файл лога
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
