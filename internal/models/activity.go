package models

import "gorm.io/datatypes"

// ActivityLog records an admin write.
type ActivityLog struct {
	Base
	UserID     *uint          `json:"user_id"     gorm:"index"`
	Action     string         `json:"action"      gorm:"size:32;index;not null" binding:"required"`
	EntityType string         `json:"entity_type" gorm:"size:64;index"`
	EntityID   *uint          `json:"entity_id"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `json:"ip_address"  gorm:"size:64"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
