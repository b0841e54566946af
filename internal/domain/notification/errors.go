package notification

import "errors"

// Domain errors for notification.
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidAudience      = errors.New("invalid notification audience")
)
