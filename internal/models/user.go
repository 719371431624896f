package models

import "time"

// User represents a registered account.
type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName    string    `json:"firstName" gorm:"type:varchar(50);not null"`
	LastName     string    `json:"lastName" gorm:"type:varchar(50);not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(50);not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password     string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt digest, never serialized
	MobileNumber string    `json:"mobileNumber" gorm:"type:varchar(20);index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime;<-:create"`
}

// TableName pins the table name regardless of naming strategy.
func (User) TableName() string {
	return "users"
}
