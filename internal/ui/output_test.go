package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputMarkers(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewOutputTo(&out, &errOut)

	o.Success("fetched %d files", 3)
	o.Warning("git init failed")
	o.Error("boom")
	o.Info("root: %s", "/tmp/x")

	if got := out.String(); got != "OK fetched 3 files\nroot: /tmp/x\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "WARN git init failed\nFAIL boom\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestOutputDebugGated(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewOutputTo(&out, &errOut)

	o.Debug("hidden")
	if errOut.Len() != 0 {
		t.Errorf("debug printed while disabled: %q", errOut.String())
	}

	o.SetDebug(true)
	o.Debug("shown %s", "now")
	if got := errOut.String(); got != "DEBUG shown now\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestOutputTable(t *testing.T) {
	var out bytes.Buffer
	o := NewOutputTo(&out, &out)

	o.Table([]string{"ID", "LABEL"}, [][]string{
		{"wordpress", "WordPress"},
		{"nextjs", "Next.js"},
	})

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	want := []string{
		"ID         LABEL",
		"---------  ---------",
		"wordpress  WordPress",
		"nextjs     Next.js",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestOutputTableEmpty(t *testing.T) {
	var out bytes.Buffer
	NewOutputTo(&out, &out).Table([]string{"ID"}, nil)
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
