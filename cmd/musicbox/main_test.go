package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	outputFile, configFile, backend = "", "", ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("musicbox %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestList(t *testing.T) {
	out := execute(t, "list")
	for _, want := range []string{"Happy Birthday", "Tetris", "140 bpm"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestExportAndRender(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"export", "render"} {
		path := filepath.Join(dir, sub+".mid")
		execute(t, sub, "super-mario-bros", "-o", path)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", sub, err)
		}
		if !bytes.HasPrefix(data, []byte("MThd")) {
			t.Errorf("%s wrote %q, want a MIDI header", sub, data[:min(4, len(data))])
		}
	}
}

func TestTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "click.trace")
	script := "# single click on B\n100 press b\n200 release b\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	out := execute(t, "trace", path)
	if !strings.Contains(out, "B Click") {
		t.Errorf("trace output = %q, want a click on B", out)
	}
}

func TestUnknownMelody(t *testing.T) {
	outputFile = ""
	rootCmd.SetArgs([]string{"export", "greensleeves", "-o", filepath.Join(t.TempDir(), "x.mid")})
	if err := rootCmd.Execute(); err == nil {
		t.Error("export of an unknown melody succeeded")
	}
}
