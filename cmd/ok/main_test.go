package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"ok", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	for _, args := range [][]string{{"ok"}, {"ok", "unknown"}} {
		err := runCLI(args)
		if err == nil {
			t.Fatalf("expected invalid command error for %v", args)
		}
		if !strings.Contains(err.Error(), "invalid command") {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HistoryLimit != 200 || cfg.Verbose || cfg.SampleSeed != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OK_HISTORY_LIMIT", "5")
	t.Setenv("OK_VERBOSE", "true")
	t.Setenv("OK_SAMPLE_SEED", "42")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HistoryLimit != 5 || !cfg.Verbose || cfg.SampleSeed != 42 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("OK_HISTORY_LIMIT", "many")
	if _, err := loadConfig(); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse error, got %v", err)
	}

	t.Setenv("OK_HISTORY_LIMIT", "0")
	if _, err := loadConfig(); err == nil || !strings.Contains(err.Error(), "must be positive") {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestVerboseConfigBuildsFactory(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		f, err := cliConfig{HistoryLimit: 1, Verbose: verbose}.newFactory()
		if err != nil {
			t.Fatalf("verbose=%v: %v", verbose, err)
		}
		if _, found := f.Lookup("Base"); !found {
			t.Fatalf("verbose=%v: factory is missing Base", verbose)
		}
	}
	if traceLogger().Prefix() != "ok: " {
		t.Fatalf("unexpected trace prefix %q", traceLogger().Prefix())
	}
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
