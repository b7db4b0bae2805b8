package model

import "time"

type CallStatus string

const (
	CallStatusRinging   CallStatus = "ringing"
	CallStatusAccepted  CallStatus = "accepted"
	CallStatusRejected  CallStatus = "rejected"
	CallStatusTimeout   CallStatus = "timeout"
	CallStatusCompleted CallStatus = "completed"
	CallStatusFailed    CallStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s CallStatus) Terminal() bool {
	switch s {
	case CallStatusRejected, CallStatusTimeout, CallStatusCompleted, CallStatusFailed:
		return true
	}
	return false
}

// CallRequest rows are never deleted; they are the audit trail of every
// session attempt. Status transitions are guarded by conditional updates.
type CallRequest struct {
	ID         int64      `gorm:"primaryKey;autoIncrement;<-:create"`
	ViewerID   int64      `gorm:"column:viewer_id;not null;index"`
	StreamerID int64      `gorm:"column:streamer_id;not null;index:idx_streamer_status"`
	Status     CallStatus `gorm:"column:status;type:enum('ringing','accepted','rejected','timeout','completed','failed');not null;default:'ringing';index:idx_streamer_status"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`

	Viewer   User `gorm:"foreignKey:ViewerID"`
	Streamer User `gorm:"foreignKey:StreamerID"`
}

func (CallRequest) TableName() string {
	return "call_requests"
}
