package nativelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTodayFilename(t *testing.T) {
	t.Parallel()
	got := TodayFilename(time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC))
	if got != "stdout_3-7-24.log" {
		t.Fatalf("TodayFilename = %q", got)
	}
}

func TestResolveDirPrefersConfigured(t *testing.T) {
	t.Setenv(EnvLogDir, "/from/env")
	if got := ResolveDir(" /from/config "); got != "/from/config" {
		t.Errorf("ResolveDir(configured) = %q", got)
	}
	if got := ResolveDir(""); got != "/from/env" {
		t.Errorf("ResolveDir(env) = %q", got)
	}
}

func TestWriterAppendsToDailyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w, err := NewWriter(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	day := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	w.now = func() time.Time { return day }

	for _, line := range []string{"first\n", "second\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(w.Dir(), "stdout_1-2-24.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := string(data); got != "first\nsecond\n" {
		t.Fatalf("log contents = %q", got)
	}
}

func TestNewZapLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewZapLogger(dir, false)
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}
	logger.Info("hello guestbook")
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, TodayFilename(time.Now())))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello guestbook") || strings.Contains(string(data), "hidden") {
		t.Fatalf("log contents = %q", data)
	}
}
