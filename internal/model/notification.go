package model

import "time"

// AudienceType selects who a notification is addressed to.
type AudienceType string

const (
	AudienceUser AudienceType = "user"
	AudienceRole AudienceType = "role"
)

// IsValid checks if the audience type is known.
func (a AudienceType) IsValid() bool {
	return a == AudienceUser || a == AudienceRole
}

// Role names used as role audiences.
const (
	RoleChina     = "china"
	RoleVenezuela = "venezuela"
	RolePagos     = "pagos"
)

// Severity is the visual weight of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Notification is a message shown in a user's or a role's notification queue.
type Notification struct {
	ID            int64        `gorm:"primaryKey;autoIncrement"`
	AudienceType  AudienceType `gorm:"size:16;not null;index:idx_notifications_dedup,priority:1"`
	AudienceValue string       `gorm:"not null;index:idx_notifications_dedup,priority:2"`
	Title         string       `gorm:"not null;index:idx_notifications_dedup,priority:4"`
	Description   string
	Href          string
	Severity      Severity  `gorm:"size:16;not null;default:info"`
	OrderID       *int64    `gorm:"index:idx_notifications_dedup,priority:3"`
	Unread        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"index:idx_notifications_dedup,priority:5"`
	ReadAt        *time.Time
}

// TableName returns the database table name.
func (Notification) TableName() string {
	return "notifications"
}

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	AudienceType  AudienceType
	AudienceValue string
	UnreadOnly    bool
	Limit         int
}

// DedupKey identifies a semantic notification event for deduplication.
type DedupKey struct {
	AudienceType  AudienceType
	AudienceValue string
	OrderID       int64
	Title         string
}
