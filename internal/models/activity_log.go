package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity tags written by the account service.
const (
	ActionUserRegistration = "USER_REGISTRATION"
	ActionUserLogin        = "USER_LOGIN"
	ActionLoginFailed      = "LOGIN_FAILED"
	ActionPasswordReset    = "PASSWORD_RESET"
)

// ActivityLog is an append-only audit record of something that happened to a user.
// UserID is a plain back-reference; no foreign key ties it to users.
type ActivityLog struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"userId" gorm:"not null;index"`
	Action    string    `json:"action" gorm:"type:varchar(50);not null"`
	Details   string    `json:"details" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	IPAddress *string   `json:"ipAddress" gorm:"type:varchar(45)"`
}

// TableName pins the table name regardless of naming strategy.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// BeforeCreate stamps the record at insert time; callers never set Timestamp.
func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	a.Timestamp = time.Now().UTC()
	return nil
}
