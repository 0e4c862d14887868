// ABOUTME: Tests for XDG directory resolution
// ABOUTME: Covers env overrides and home fallbacks
package config

import (
	"path/filepath"
	"testing"
)

func TestGetDataHome(t *testing.T) {
	t.Run("XDG_DATA_HOME set", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		if got := GetDataHome(); got != "/custom/data" {
			t.Errorf("got %s, want /custom/data", got)
		}
	})

	t.Run("fallback to home", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "/home/testuser")
		want := filepath.Join("/home/testuser", ".local", "share")
		if got := GetDataHome(); got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}

func TestGetConfigHome(t *testing.T) {
	t.Run("XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := GetConfigHome(); got != "/custom/config" {
			t.Errorf("got %s, want /custom/config", got)
		}
	})

	t.Run("fallback to home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/testuser")
		want := filepath.Join("/home/testuser", ".config")
		if got := GetConfigHome(); got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}
