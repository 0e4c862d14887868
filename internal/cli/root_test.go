// ABOUTME: Tests for CLI command registration
// ABOUTME: Verifies the root command wires up all subcommands
package cli

import "testing"

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "agileflow" {
		t.Errorf("got use %q, want agileflow", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("root command has no short description")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"mcp", "tools", "settings",
		"create", "observe", "relate",
		"search", "open", "graph", "forget",
		"diagram", "sync",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %s not registered", name)
		}
	}
}

func TestSyncSubcommandsRegistered(t *testing.T) {
	want := []string{"status", "push", "pull", "keys", "rm", "link", "unlink", "repair", "reset", "wipe"}

	registered := make(map[string]bool)
	for _, cmd := range syncCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("sync subcommand %s not registered", name)
		}
	}

	if syncPushCmd.Flags().Lookup("entity") == nil {
		t.Error("push is missing the --entity flag")
	}
}
