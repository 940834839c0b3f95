package domain

import "time"

// NotificationType enumerates notification categories.
type NotificationType string

const (
	NotificationTypeNewComment   NotificationType = "NEW_COMMENT"
	NotificationTypeNewReply     NotificationType = "NEW_REPLY"
	NotificationTypeStatusChange NotificationType = "STATUS_CHANGE"
	NotificationTypeSystem       NotificationType = "SYSTEM"
)

// Notification holds shared message content delivered to one or more
// recipients.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	TicketID  *string
	CreatedAt time.Time
}

// NotificationRecipient tracks per-user delivery state for a notification.
// The (NotificationID, UserID) pair is unique.
type NotificationRecipient struct {
	NotificationID string
	UserID         string
	ReadAt         *time.Time
	Hidden         bool
}

// UserNotification is a notification joined with the requesting user's
// delivery state, as returned by inbox queries.
type UserNotification struct {
	Notification
	ReadAt *time.Time
	Hidden bool
}
