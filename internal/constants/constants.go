package constants

const (
	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Activity feed
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500

	// Dashboard notifications
	DefaultNotificationWindowDays = 7
	DefaultInboxCapacity          = 500
	DashboardActivityLimit        = 10

	// Session
	SessionCookieName = "task_session"
	ContextKeyUserID  = "user_id"
	ContextKeyTask    = "task"
	SessionMaxAge     = 86400 * 7

	ServiceName = "task-tracker"

	// CSV export
	ExportTimeLayout = "2006-01-02 15:04:05"
)
