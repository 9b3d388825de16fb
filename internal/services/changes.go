package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

const (
	notSet             = "not set"
	activityTimeLayout = "January 02, 2006 at 03:04 PM"
)

var fieldLabels = map[string]string{
	"due_date":    "due date",
	"assigned_to": "assigned to",
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return strings.ReplaceAll(field, "_", " ")
}

// changeLog accumulates "{label} was changed from {old} to {new}" clauses.
type changeLog []string

func (l *changeLog) add(field, oldValue, newValue string) {
	*l = append(*l, fmt.Sprintf("%s was changed from %s to %s", fieldLabel(field), oldValue, newValue))
}

func (l changeLog) String() string {
	return strings.Join(l, "; ")
}

func formatText(s string) string {
	if s == "" {
		return notSet
	}
	return s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return notSet
	}
	return t.UTC().Format(activityTimeLayout)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sameID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func createdDescription(task *models.Task) string {
	return fmt.Sprintf("Task \"%s\" was created", task.Title)
}

// assignmentDescription renders the log entry for an assign request.
// oldName is empty when the task had no assignee, newName when it is being unassigned.
func assignmentDescription(oldName, newName string) (models.ActivityAction, string) {
	switch {
	case newName == "" && oldName != "":
		return models.ActionUpdated, "Task unassigned"
	case newName == "":
		return models.ActionUpdated, "Task remains unassigned"
	case oldName != "":
		return models.ActionAssigned, fmt.Sprintf("Task reassigned from %s to %s", oldName, newName)
	default:
		return models.ActionAssigned, fmt.Sprintf("Task assigned to %s", newName)
	}
}
