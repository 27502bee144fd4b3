package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeAnnotationCreated   ActivityType = "annotation_created"
	TypeAnnotationDeleted   ActivityType = "annotation_deleted"
	TypeAnnotationActivated ActivityType = "annotation_activated"
	TypeHighlightToggled    ActivityType = "highlight_toggled"
	TypeCameraModeChanged   ActivityType = "camera_mode_changed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	AnnotationID *string      `json:"annotation_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
