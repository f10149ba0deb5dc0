package models

import "time"

// CommissionEvent é o gatilho consumido pelo subsistema de comissões.
// O índice único em appointment_id garante idempotência: concluir o mesmo
// atendimento duas vezes nunca gera comissão duplicada.
type CommissionEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID        uint `json:"salon_id"`
	AppointmentID  uint `gorm:"uniqueIndex" json:"appointment_id"`
	ProfessionalID uint `json:"professional_id"`

	ServicePrice float64 `json:"service_price"`
	Percent      float64 `json:"percent"`

	CreatedAt time.Time `json:"created_at"`
}
