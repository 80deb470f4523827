package models

import (
	"time"
)

// AuditLog is one admin mutation: moderation transitions, role and status
// changes, deletions. Rows are append-only; there is no update path.
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdminUserID  uint      `json:"adminUserID" gorm:"index;not null"`
	AdminRole    string    `json:"adminRole" gorm:"size:20"`
	Action       string    `json:"action" gorm:"size:64;index"` // e.g. property.approve, user.role
	ResourceType string    `json:"resourceType" gorm:"size:32;index"`
	ResourceID   uint      `json:"resourceID" gorm:"index"`
	Reason       string    `json:"reason" gorm:"type:text"` // rejection reason for moderation actions
	BeforeJSON   string    `json:"beforeJSON" gorm:"type:text"`
	AfterJSON    string    `json:"afterJSON" gorm:"type:text"`
	IPAddress    string    `json:"ipAddress" gorm:"size:64"`
	CreatedAt    time.Time `json:"createdAt"`
}
