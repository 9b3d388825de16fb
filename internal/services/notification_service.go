package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/deadline"
	"github.com/yukikurage/task-tracker/internal/events"
	"github.com/yukikurage/task-tracker/internal/inbox"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInboxUnavailable = errors.New("notification inbox unavailable")
)

// Inbox notification types. Status changes are stored as "status_changed".
const (
	InboxTypeTaskCreated   = "task_created"
	InboxTypeTaskAssigned  = "task_assigned"
	InboxTypeStatusChanged = "status_changed"
)

// NotificationService builds deadline notices and maintains the inbox fed by task events.
type NotificationService struct {
	taskRepo     repository.TaskRepository
	activityRepo repository.ActivityRepository
	inbox        inbox.Store
	logger       *zap.Logger
	windowDays   int
	now          func() time.Time
}

// NotificationOption configures a NotificationService.
type NotificationOption func(*NotificationService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) NotificationOption {
	return func(s *NotificationService) {
		s.now = now
	}
}

// NewNotificationService creates a NotificationService. windowDays is the
// default look-ahead for deadline queries; non-positive values use
// constants.DefaultNotificationWindowDays.
func NewNotificationService(
	taskRepo repository.TaskRepository,
	activityRepo repository.ActivityRepository,
	store inbox.Store,
	logger *zap.Logger,
	windowDays int,
	opts ...NotificationOption,
) *NotificationService {
	if windowDays <= 0 {
		windowDays = constants.DefaultNotificationWindowDays
	}

	s := &NotificationService{
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		inbox:        store,
		logger:       logger,
		windowDays:   windowDays,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WindowDays returns the default deadline look-ahead in days.
func (s *NotificationService) WindowDays() int {
	return s.windowDays
}

// InboxCapacity returns how many notifications the inbox keeps.
func (s *NotificationService) InboxCapacity() int {
	return s.inbox.Capacity()
}

// UpcomingTasks returns incomplete tasks due between now and now+days,
// both ends inclusive, earliest due first.
func (s *NotificationService) UpcomingTasks(ctx context.Context, days int) ([]models.Task, error) {
	return s.upcomingTasks(ctx, days, s.now().UTC())
}

func (s *NotificationService) upcomingTasks(ctx context.Context, days int, now time.Time) ([]models.Task, error) {
	if days < 0 {
		days = s.windowDays
	}

	until := now.Add(time.Duration(days) * 24 * time.Hour)
	completed := models.TaskStatusCompleted

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		ExcludeStatus: &completed,
		DueDateFrom:   &now,
		DueDateTo:     &until,
		SortByDueDate: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming tasks: %w", err)
	}
	return tasks, nil
}

// UpcomingDeadlines formats a notice for every task UpcomingTasks returns.
// The query window and the notices share one reading of the clock.
func (s *NotificationService) UpcomingDeadlines(ctx context.Context, days int) ([]deadline.Notification, error) {
	return s.upcomingDeadlines(ctx, days, s.now().UTC())
}

func (s *NotificationService) upcomingDeadlines(ctx context.Context, days int, now time.Time) ([]deadline.Notification, error) {
	tasks, err := s.upcomingTasks(ctx, days, now)
	if err != nil {
		return nil, err
	}
	return deadline.ForTasks(tasks, now), nil
}

// RecentActivity returns at most limit activity entries across all tasks, newest first.
func (s *NotificationService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	activities, err := s.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}

// HandleEvent turns a task event into an inbox notification.
func (s *NotificationService) HandleEvent(ctx context.Context, evt events.Event) error {
	n, err := s.fromEvent(evt)
	if err != nil {
		return err
	}

	if err := s.inbox.Append(ctx, n); err != nil {
		return fmt.Errorf("%w: %w", ErrInboxUnavailable, err)
	}

	s.logger.Debug("notification stored",
		zap.String("type", n.Type),
		zap.Uint64("task_id", n.TaskID),
	)
	return nil
}

// Inbox returns the newest notifications. A failing store yields an empty list.
func (s *NotificationService) Inbox(ctx context.Context, limit int) []inbox.Notification {
	items, err := s.inbox.List(ctx, limit)
	if err != nil {
		s.logger.Warn("failed to read notification inbox", zap.Error(err))
		return []inbox.Notification{}
	}
	if items == nil {
		items = []inbox.Notification{}
	}
	return items
}

// ClearInbox removes every stored notification.
func (s *NotificationService) ClearInbox(ctx context.Context) error {
	if err := s.inbox.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrInboxUnavailable, err)
	}
	s.logger.Info("notification inbox cleared")
	return nil
}

// SweepDeadlines stores the current deadline notices in the inbox and
// returns how many were stored.
func (s *NotificationService) SweepDeadlines(ctx context.Context) (int, error) {
	stamp := s.now().UTC()
	notices, err := s.upcomingDeadlines(ctx, s.windowDays, stamp)
	if err != nil {
		return 0, err
	}

	for i, notice := range notices {
		n := inbox.Notification{
			ID:        uuid.NewString(),
			Type:      notice.Type,
			Message:   notice.Message,
			TaskID:    notice.TaskID,
			Timestamp: stamp,
		}
		if err := s.inbox.Append(ctx, n); err != nil {
			return i, fmt.Errorf("%w: %w", ErrInboxUnavailable, err)
		}
	}

	s.logger.Info("deadline sweep finished", zap.Int("count", len(notices)))
	return len(notices), nil
}

func (s *NotificationService) fromEvent(evt events.Event) (inbox.Notification, error) {
	n := inbox.Notification{
		ID:        evt.ID,
		TaskID:    evt.Payload.TaskID,
		Timestamp: evt.Timestamp,
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = s.now().UTC()
	}

	p := evt.Payload
	switch evt.Type {
	case events.TypeTaskCreated:
		n.Type = InboxTypeTaskCreated
		n.Message = fmt.Sprintf("New task created: %s", p.TaskTitle)
		n.AssignedTo = p.AssignedTo
	case events.TypeTaskAssigned:
		n.Type = InboxTypeTaskAssigned
		n.Message = fmt.Sprintf("Task \"%s\" has been assigned to you", p.TaskTitle)
		n.AssignedTo = p.AssignedTo
		n.UserEmail = p.UserEmail
	case events.TypeTaskStatusChanged:
		n.Type = InboxTypeStatusChanged
		n.Message = fmt.Sprintf("Task status changed from %s to %s", p.OldStatus, p.NewStatus)
	default:
		return inbox.Notification{}, fmt.Errorf("%w: %q", ErrUnknownEventType, evt.Type)
	}
	return n, nil
}
