// Package main provides tests for the brackish CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/brackishdb/brackish/internal/cli"
	"github.com/brackishdb/brackish/internal/cli/config"
)

func TestVersionCommand(t *testing.T) {
	config.ResetConfig()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "brackish") {
		t.Errorf("version output should contain 'brackish', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	config.ResetConfig()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	for _, sub := range []string{"createdb", "dropdb", "tables", "schema", "query", "drift"} {
		if !strings.Contains(output, sub) {
			t.Errorf("help output should list %q, got: %s", sub, output)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	config.ResetConfig()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"definitely-not-a-command"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown command")
	}
}
