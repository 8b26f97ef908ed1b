package main

import (
	"testing"
)

func TestReadCLIOptions_Defaults(t *testing.T) {
	cmd := newRootCmd()
	opts, err := readCLIOptions(cmd)
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}

	if opts.Extract.Meta {
		t.Error("Meta = true, want false by default")
	}
	if opts.Extract.NoText {
		t.Error("NoText = true, want false by default")
	}
	if opts.Extract.Calibre {
		t.Error("Calibre = true, want false by default")
	}
	if opts.Extract.Separator != "" {
		t.Errorf("Separator = %q, want empty", opts.Extract.Separator)
	}
	if opts.Extract.Width != defaultWidth {
		t.Errorf("Width = %d, want %d", opts.Extract.Width, defaultWidth)
	}
	if opts.Extract.CoverPath != "" {
		t.Errorf("CoverPath = %q, want empty", opts.Extract.CoverPath)
	}
	if opts.Debug {
		t.Error("Debug = true, want false by default")
	}
}

func TestReadCLIOptions_CustomFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{
		"--meta",
		"--notext",
		"--calibre",
		"--separator", "=====",
		"--width", "40",
		"--cover", "./cover.jpg",
		"--debug",
	}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	opts, err := readCLIOptions(cmd)
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}

	if !opts.Extract.Meta || !opts.Extract.NoText || !opts.Extract.Calibre {
		t.Errorf("bool flags = %+v, want all true", opts.Extract)
	}
	if opts.Extract.Separator != "=====" {
		t.Errorf("Separator = %q, want %q", opts.Extract.Separator, "=====")
	}
	if opts.Extract.Width != 40 {
		t.Errorf("Width = %d, want 40", opts.Extract.Width)
	}
	if opts.Extract.CoverPath != "./cover.jpg" {
		t.Errorf("CoverPath = %q, want %q", opts.Extract.CoverPath, "./cover.jpg")
	}
	if !opts.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestReadCLIOptions_ShortFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"-m", "-n", "-c", "-s", "---", "-w", "0"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	opts, err := readCLIOptions(cmd)
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}
	if !opts.Extract.Meta || !opts.Extract.NoText || !opts.Extract.Calibre {
		t.Errorf("bool flags = %+v, want all true", opts.Extract)
	}
	if opts.Extract.Separator != "---" {
		t.Errorf("Separator = %q, want %q", opts.Extract.Separator, "---")
	}
	if opts.Extract.Width != 0 {
		t.Errorf("Width = %d, want 0", opts.Extract.Width)
	}
}

func TestReadCLIOptions_NegativeWidthRejected(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--width=-5"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if _, err := readCLIOptions(cmd); err == nil {
		t.Fatal("expected error for negative width, got nil")
	}
}
