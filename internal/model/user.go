package model

import "time"

type Role string

const (
	RoleViewer   Role = "viewer"
	RoleStreamer Role = "streamer"
	RoleAdmin    Role = "admin"
	RoleBanned   Role = "banned"
)

func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleStreamer, RoleAdmin, RoleBanned:
		return true
	}
	return false
}

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	Username  string    `gorm:"column:username;type:varchar(64);not null;uniqueIndex"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Role      Role      `gorm:"column:role;type:enum('viewer','streamer','admin','banned');not null;default:'viewer'"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}
