package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	salonID uint,
	actorID *uint,
	actorEmail string,
	eventType string,
	entity string,
	entityID *uint,
	details any,
) error {

	var detailsJSON string
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}

	row := models.AuditLog{
		SalonID:    salonID,
		ActorID:    actorID,
		ActorEmail: actorEmail,
		EventType:  eventType,
		Entity:     entity,
		EntityID:   entityID,
		Details:    detailsJSON,
	}

	return l.db.Create(&row).Error
}
