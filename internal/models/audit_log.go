package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID    uint   `json:"salon_id"`
	ActorID    *uint  `json:"actor_id"`
	ActorEmail string `gorm:"size:100" json:"actor_email"`

	EventType string `gorm:"size:50;not null" json:"event_type"`
	Entity    string `gorm:"size:50" json:"entity"`
	EntityID  *uint  `json:"entity_id"`
	Details   string `gorm:"type:text" json:"details"`

	CreatedAt time.Time `json:"created_at"`
}
