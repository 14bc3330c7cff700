package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/segalloc/sizemap"
	"github.com/joshuapare/segalloc/sizemap/source"
)

// resetFlags restores every global flag to its default
func resetFlags(t *testing.T) {
	t.Helper()
	experimentsFlag = ""
	coldFlag = false
	overrideFlag = ""
	envFlag = false
	smallPages = false
	jsonOut = false
	verbose = false
	logLevel = "warn"
	dumpRegister = -1
}

// writeOverride writes infos as a TOML override file and returns its path
func writeOverride(t *testing.T, infos []sizemap.Info) string {
	t.Helper()
	data, err := source.Encode(infos)
	if err != nil {
		t.Fatalf("encode override: %v", err)
	}
	path := filepath.Join(t.TempDir(), "classes.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large dumps don't fill the pipe
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	return string(<-done), fnErr
}

// assertJSON decodes output into v, failing on invalid JSON
func assertJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
