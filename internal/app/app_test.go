package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stockroom.log")

	logger, closeLog, err := newLogger(path, "debug")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.WithField("component", "test").Debug("hello")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") || !strings.Contains(string(data), "component=test") {
		t.Fatalf("log file = %q", data)
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	if _, _, err := newLogger(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestRun_FailsOnInvalidConfig(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("update_method = \"POST\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := Run(context.Background(), Options{ConfigPath: path})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Run error = %v, want load config failure", err)
	}
}

func TestPrintLog_FiltersConfiguredFile(t *testing.T) {
	chdir(t, t.TempDir())
	dir := t.TempDir()
	logPath := filepath.Join(dir, "stockroom.log")
	body := "level=info msg=started\nlevel=warning msg=\"refresh failed\"\nlevel=info msg=stopped\n"
	if err := os.WriteFile(logPath, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("log_file = \""+logPath+"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out strings.Builder
	if err := PrintLog(&out, cfgPath, 10, "warn"); err != nil {
		t.Fatalf("PrintLog: %v", err)
	}
	if got := out.String(); got != "level=warning msg=\"refresh failed\"\n" {
		t.Fatalf("output = %q", got)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
