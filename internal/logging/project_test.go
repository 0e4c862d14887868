// ABOUTME: Tests for project activity log writing
// ABOUTME: Covers markdown and JSON formats and daily file naming
package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteProjectLogMarkdown(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	ts := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)

	err := WriteProjectLog(logDir, "markdown", Event{
		Timestamp: ts,
		Action:    "entity created",
		Entity:    "auth-epic",
		Detail:    "epic",
	})
	if err != nil {
		t.Fatalf("WriteProjectLog failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(logDir, "2026-08-28.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "## 14:30:00 - entity created") {
		t.Errorf("missing heading:\n%s", content)
	}
	if !strings.Contains(content, "- **Entity**: auth-epic") {
		t.Errorf("missing entity line:\n%s", content)
	}
	if !strings.Contains(content, "- **Detail**: epic") {
		t.Errorf("missing detail line:\n%s", content)
	}
}

func TestWriteProjectLogJSON(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	ts := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	for _, action := range []string{"entity created", "relation created"} {
		err := WriteProjectLog(logDir, "json", Event{
			Timestamp: ts,
			Action:    action,
			Entity:    "auth-epic",
		})
		if err != nil {
			t.Fatalf("WriteProjectLog failed: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(logDir, "2026-08-28.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var event Event
	if err := json.Unmarshal([]byte(lines[1]), &event); err != nil {
		t.Fatalf("parse log line: %v", err)
	}
	if event.Action != "relation created" || event.Entity != "auth-epic" {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestWriteProjectLogDefaultsTimestamp(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	if err := WriteProjectLog(logDir, "markdown", Event{Action: "test"}); err != nil {
		t.Fatalf("WriteProjectLog failed: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	if _, err := os.Stat(filepath.Join(logDir, today+".log")); err != nil {
		t.Errorf("expected daily log file for today: %v", err)
	}
}
