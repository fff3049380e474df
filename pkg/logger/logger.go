// Package logger provides the file logger used by the form and the CLI.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"SpamCheck/pkg/utils"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the name of the log file inside the log directory.
const FileName = "spamcheck.log"

type Level string

const (
	DEBUG Level = "DEBUG"
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
)

// Options controls where and how much the logger writes.
type Options struct {
	Dir        string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// Logger wraps zap.SugaredLogger for compatibility
type Logger struct {
	sugar    *zap.SugaredLogger
	filePath string
	rotator  *lumberjack.Logger
}

// ParseLevel maps a config level name to a zap level, defaulting to INFO.
func ParseLevel(name string) zapcore.Level {
	switch Level(strings.ToUpper(strings.TrimSpace(name))) {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func New(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("log directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, err
	}

	logPath := filepath.Join(opts.Dir, FileName)

	rotator := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		CallerKey:      "caller",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	fileEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	fileCore := zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), ParseLevel(opts.Level))
	zapLogger := zap.New(fileCore, zap.AddCaller(), zap.AddCallerSkip(2))

	return &Logger{
		sugar:    zapLogger.Sugar(),
		filePath: logPath,
		rotator:  rotator,
	}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) log(level Level, message string) {
	if l == nil || l.sugar == nil {
		return
	}
	message = utils.SanitizeLog(message)

	switch level {
	case DEBUG:
		l.sugar.Debug(message)
	case INFO:
		l.sugar.Info(message)
	case WARN:
		l.sugar.Warn(message)
	case ERROR:
		l.sugar.Error(message)
	}
}

func (l *Logger) Debug(format string, v ...any) {
	l.log(DEBUG, fmt.Sprintf(format, v...))
}

func (l *Logger) Info(format string, v ...any) {
	l.log(INFO, fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(format string, v ...any) {
	l.log(WARN, fmt.Sprintf(format, v...))
}

func (l *Logger) Error(format string, v ...any) {
	l.log(ERROR, fmt.Sprintf(format, v...))
}

// Path returns the active log file, or "" for a Nop logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

func (l *Logger) GetLastLines(n int) string {
	if l == nil || l.filePath == "" {
		return ""
	}
	content, err := os.ReadFile(l.filePath)
	if err != nil {
		return "Error reading log file"
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}

	return strings.Join(lines[len(lines)-n:], "\n")
}

// Sync flushes buffered entries; Close also releases the file handle.
func (l *Logger) Sync() error {
	if l == nil || l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	_ = l.Sync()
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}
