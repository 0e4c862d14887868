// ABOUTME: Project activity log writing
// ABOUTME: Formats graph mutations as markdown or JSON and appends to daily logs
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Event records a single knowledge graph mutation for the project log.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// WriteProjectLog appends a graph mutation event to the project log file
func WriteProjectLog(logDir, format string, event Event) error {
	// Create log directory if needed
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Determine log file name (one per day)
	date := event.Timestamp.Format("2006-01-02")
	logFile := filepath.Join(logDir, date+".log")

	// Format event
	var content string
	switch format {
	case "json":
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		content = string(data) + "\n"
	case "markdown":
		fallthrough
	default:
		content = formatMarkdown(event)
	}

	// Append to file
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}

func formatMarkdown(event Event) string {
	var sb strings.Builder

	timeStr := event.Timestamp.Format("15:04:05")
	sb.WriteString(fmt.Sprintf("## %s - %s\n", timeStr, event.Action))

	if event.Entity != "" {
		sb.WriteString(fmt.Sprintf("- **Entity**: %s\n", event.Entity))
	}
	if event.Detail != "" {
		sb.WriteString(fmt.Sprintf("- **Detail**: %s\n", event.Detail))
	}

	sb.WriteString("\n")

	return sb.String()
}
