package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log *logrus.Logger

// fallback serves calls made before Init.
var fallback = newFallback()

func newFallback() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	return l
}

// Options mirrors config.LogConfig so the logger does not import config.
type Options struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

func Init(opts Options) error {
	l := logrus.New()

	// unknown levels fall back to info
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   true,
		})
	}
	l.SetOutput(out)

	log = l
	return nil
}

// Discard silences logging; tests call it so nothing reaches stdout.
func Discard() {
	l := logrus.New()
	l.SetOutput(io.Discard)
	log = l
}

func current() *logrus.Logger {
	if log == nil {
		return fallback
	}
	return log
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return current().WithFields(fields)
}

func Debug(args ...interface{})                 { current().Debug(args...) }
func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }
func Info(args ...interface{})                  { current().Info(args...) }
func Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func Warn(args ...interface{})                  { current().Warn(args...) }
func Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func Error(args ...interface{})                 { current().Error(args...) }
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }
func Fatal(args ...interface{})                 { current().Fatal(args...) }
func Fatalf(format string, args ...interface{}) { current().Fatalf(format, args...) }
