package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Default level
	Logger.SetLevel(logrus.InfoLevel)

	// Override from env, e.g., LOG_LEVEL=debug
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if parsedLevel, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
			Logger.SetLevel(parsedLevel)
		}
	}
}

// WithComponent adds a component field to the logger
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}

// SetupFileOutput tees log output to a rotated log file.
// An empty fileName leaves the logger writing to stdout only.
func SetupFileOutput(fileName string) io.Closer {
	if fileName == "" {
		return nopCloser{}
	}
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	lj := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		LocalTime:  false,
		Compress:   true,
	}
	Logger.SetOutput(io.MultiWriter(os.Stdout, lj))
	WithComponent("logger").Infof("writing logs to %s and stdout", fileName)
	return lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
