package tasks

import (
	"encoding/json"
	"fmt"
	"strings"

	"crewboard/infrastructure/activity"
	"crewboard/models"
)

// FormatEvent renders an activity entry as display text, mirroring the
// history panel on the task page.
func FormatEvent(eventType string, metadata map[string]any) string {
	switch eventType {
	case activity.EventTaskCreated:
		title, _ := metadata["title"].(string)
		if title == "" {
			title = "Untitled"
		}
		return fmt.Sprintf("created task %q", title)
	case activity.EventTaskUpdated:
		if status, ok := metadata["status"].(string); ok {
			return fmt.Sprintf("changed status to %q", status)
		}
		if priority, ok := metadata["priority"].(string); ok {
			return fmt.Sprintf("changed priority to %q", priority)
		}
		if _, ok := metadata["assignedTo"]; ok {
			return "reassigned the task"
		}
		return "updated the task"
	case activity.EventCommentAdded:
		return "added a comment"
	case activity.EventStatusChanged:
		status, _ := metadata["status"].(string)
		if status == "" {
			status = "unknown"
		}
		return fmt.Sprintf("changed status to %q", status)
	default:
		return strings.ReplaceAll(eventType, "_", " ")
	}
}

func decodeMetadata(entry models.TaskActivity) map[string]any {
	if entry.MetadataJSON == "" {
		return nil
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(entry.MetadataJSON), &metadata); err != nil {
		return nil
	}
	return metadata
}
