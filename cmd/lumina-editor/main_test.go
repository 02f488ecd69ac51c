package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumina-engine/lumina"
	"github.com/urfave/cli/v3"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out)
	app.ExitErrHandler = func(ctx context.Context, cmd *cli.Command, err error) {}
	t.Cleanup(func() { lumina.SetLogger(nil) })
	err := app.Run(context.Background(), append([]string{"lumina-editor", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumina.toml")
	out, err := runApp(t, "--config", path, "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	_, err = runApp(t, "--config", path, "init")
	exitErr, ok := err.(cli.ExitCoder)
	if !ok || exitErr.ExitCode() != 1 {
		t.Errorf("second init err = %v, want exit code 1", err)
	}
}

func TestLayoutResetAndDump(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lumina.toml")
	layout := filepath.Join(dir, "layout.yaml")

	out, err := runApp(t, "--config", cfgPath, "layout", "reset", "--layout", layout)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wrote default layout") {
		t.Errorf("reset output = %q", out)
	}

	out, err = runApp(t, "--config", cfgPath, "layout", "dump", "--layout", layout)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"split", "tabs", "Scene", "Hierarchy", "Inspector", "Console"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}

	if _, err := runApp(t, "--config", cfgPath, "layout", "dump", "--layout", filepath.Join(dir, "none.toml")); err == nil {
		t.Error("dump of a missing layout succeeded")
	}
}

func TestNewEditorDefaultLayout(t *testing.T) {
	e, err := newEditor(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.dock.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := len(e.dock.AllPanels()); got != 4 {
		t.Errorf("placed panels = %d, want 4", got)
	}
	if e.f.Len() != 1 {
		t.Errorf("framework roots = %d, want the dock only", e.f.Len())
	}

	cfg := DefaultConfig()
	cfg.Layout.Path = filepath.Join(t.TempDir(), "missing.toml")
	e, err = newEditor(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.loadLayout(); err != nil {
		t.Errorf("missing layout should fall back silently: %v", err)
	}
}

func TestDumpTree(t *testing.T) {
	a, b := lumina.WidgetIDFromName("a"), lumina.WidgetIDFromName("b")
	root := lumina.NewSplitNode(lumina.Vertical, 0.25, lumina.NewTabsNode(a, b), lumina.EmptyNode())
	out := dumpTree(root, map[lumina.PanelID]string{a: "Alpha"})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "split") || !strings.Contains(lines[0], "0.25") {
		t.Errorf("split line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  ") || !strings.Contains(lines[1], "tabs") {
		t.Errorf("tabs line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Alpha") || !strings.Contains(lines[3], b.Short()) {
		t.Errorf("panel lines = %q, %q", lines[2], lines[3])
	}
	if !strings.Contains(lines[4], "empty") {
		t.Errorf("empty line = %q", lines[4])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug": "DEBUG", "WARN": "WARN", "warning": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO",
	}
	for in, want := range tests {
		if got := parseLevel(in).Level().String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestInitLoggingRejectsUnknownFormat(t *testing.T) {
	if _, err := initLogging(LoggingConfig{Format: "xml"}, "test"); err == nil {
		t.Error("expected error for unknown format")
	}
	closeFn, err := initLogging(LoggingConfig{File: filepath.Join(t.TempDir(), "logs", "editor.log"), Format: "json"}, "test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { lumina.SetLogger(nil) })
	if err := closeFn(); err != nil {
		t.Error(err)
	}
}
