package main

import (
	"testing"
)

// TestNewRootCmd verifies the command surface.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	if cmd.Use != "steamcarve" {
		t.Errorf("Use = %q", cmd.Use)
	}

	want := map[string]bool{
		"carve":   false,
		"refine":  false,
		"history": false,
		"version": false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("persistent verbose flag not registered")
	}
}

// TestSetupLogger verifies both verbosity levels produce a usable logger.
func TestSetupLogger(t *testing.T) {
	t.Parallel()

	for _, verbose := range []bool{false, true} {
		if logger := setupLogger(verbose); logger == nil {
			t.Errorf("setupLogger(%v) returned nil", verbose)
		}
	}
}

// TestGetVerboseFlag tests flag resolution on the root command.
func TestGetVerboseFlag(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	if getVerboseFlag(cmd) {
		t.Error("verbose defaults to true")
	}
	if err := cmd.PersistentFlags().Set("verbose", "true"); err != nil {
		t.Fatal(err)
	}
	if !getVerboseFlag(cmd) {
		t.Error("verbose flag not picked up")
	}
}
