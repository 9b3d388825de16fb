// Package deadline turns a task due date into a human-readable countdown.
//
// It is the single definition used by the HTTP handlers, the notification
// sweep and the dashboard; nothing else formats deadlines.
package deadline

import (
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// TypeDeadlineApproaching is the record type of every deadline notification.
const TypeDeadlineApproaching = "deadline_approaching"

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// Notification describes the time left before a task is due.
// It is derived on demand and never stored.
type Notification struct {
	Type         string    `json:"type"`
	TaskID       uint64    `json:"task_id"`
	TaskTitle    string    `json:"task_title"`
	DueDate      time.Time `json:"due_date"`
	DaysUntil    int64     `json:"days_until"`
	HoursUntil   int64     `json:"hours_until"`
	MinutesUntil int64     `json:"minutes_until"`
	SecondsUntil int64     `json:"seconds_until"`
	TotalSeconds int64     `json:"total_seconds"`
	Message      string    `json:"message"`
}

// Compute builds the notification for a task due at due, as seen at now.
//
// The remaining time is truncated toward zero to whole seconds. Day and hour
// counts floor toward negative infinity, so one second overdue is day -1.
// Minute and second remainders carry the sign of the total, which makes every
// overdue task fall through to the "overdue!" message.
func Compute(taskID uint64, title string, due, now time.Time) Notification {
	remaining := due.Sub(now)

	totalSeconds := int64(remaining / time.Second)
	daysUntil := floorDiv(totalSeconds, secondsPerDay)
	hoursUntil := floorDiv(totalSeconds, secondsPerHour)
	minutesUntil := floorDiv(totalSeconds, secondsPerMinute) % 60
	secondsUntil := totalSeconds % 60

	return Notification{
		Type:         TypeDeadlineApproaching,
		TaskID:       taskID,
		TaskTitle:    title,
		DueDate:      due,
		DaysUntil:    daysUntil,
		HoursUntil:   hoursUntil,
		MinutesUntil: minutesUntil,
		SecondsUntil: secondsUntil,
		TotalSeconds: totalSeconds,
		Message:      message(title, totalSeconds, daysUntil, hoursUntil, minutesUntil, secondsUntil),
	}
}

// ForTask computes the notification for task. It reports false for tasks
// without a due date and for completed tasks.
func ForTask(task models.Task, now time.Time) (Notification, bool) {
	if task.DueDate == nil || task.Status == models.TaskStatusCompleted {
		return Notification{}, false
	}
	return Compute(task.ID, task.Title, *task.DueDate, now), true
}

// ForTasks formats every eligible task, keeping the input order.
func ForTasks(tasks []models.Task, now time.Time) []Notification {
	notifications := make([]Notification, 0, len(tasks))
	for _, task := range tasks {
		if n, ok := ForTask(task, now); ok {
			notifications = append(notifications, n)
		}
	}
	return notifications
}

// message picks the first matching tier: days, hours, minutes, seconds, overdue.
func message(title string, totalSeconds, days, hours, minutes, seconds int64) string {
	prefix := fmt.Sprintf("Task \"%s\" is due in", title)

	switch {
	case days > 0:
		return fmt.Sprintf("%s %d day(s)", prefix, days)
	case hours > 0:
		remainingMinutes := (totalSeconds % secondsPerHour) / secondsPerMinute
		if remainingMinutes > 0 {
			return fmt.Sprintf("%s %d hour(s), %d minute(s)", prefix, hours, remainingMinutes)
		}
		return fmt.Sprintf("%s %d hour(s)", prefix, hours)
	case minutes > 0:
		if seconds > 0 {
			return fmt.Sprintf("%s %d minute(s), %d second(s)", prefix, minutes, seconds)
		}
		return fmt.Sprintf("%s %d minute(s)", prefix, minutes)
	case seconds > 0:
		return fmt.Sprintf("%s %d second(s)", prefix, seconds)
	default:
		return fmt.Sprintf("Task \"%s\" is overdue!", title)
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
