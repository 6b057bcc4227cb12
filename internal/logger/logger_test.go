package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithComponent(t *testing.T) {
	entry := WithComponent("test-component")
	if entry == nil {
		t.Fatal("expected non-nil entry")
	}

	if val, ok := entry.Data["component"]; !ok {
		t.Error("expected component field to be set")
	} else if val != "test-component" {
		t.Errorf("expected component 'test-component', got '%v'", val)
	}
}

func TestLoggerInit(t *testing.T) {
	if Logger == nil {
		t.Fatal("expected Logger to be initialized")
	}

	if Logger.Out != os.Stdout {
		t.Error("expected Logger output to be os.Stdout")
	}

	if _, ok := Logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("expected text formatter, got %T", Logger.Formatter)
	}
}

func TestSetupFileOutput_Empty(t *testing.T) {
	closer := SetupFileOutput("")
	if closer == nil {
		t.Fatal("expected non-nil closer")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if Logger.Out != os.Stdout {
		t.Error("expected output to stay on stdout")
	}
}

func TestSetupFileOutput_WritesFile(t *testing.T) {
	origOut := Logger.Out
	origLevel := Logger.GetLevel()
	defer func() {
		Logger.SetOutput(origOut)
		Logger.SetLevel(origLevel)
	}()

	base := filepath.Join(t.TempDir(), "server")
	closer := SetupFileOutput(base)
	Logger.SetLevel(logrus.InfoLevel)
	WithComponent("test").Info("hello file")
	if err := closer.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	data, err := os.ReadFile(base + ".log")
	if err != nil {
		t.Fatalf("expected log file with .log suffix: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}
