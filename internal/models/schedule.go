package models

import "time"

// Janela recorrente de atendimento por dia da semana ("15:04").
type ProfessionalAvailability struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"index:idx_availability_pro_weekday" json:"professional_id"`

	Weekday   int    `gorm:"index:idx_availability_pro_weekday" json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pausa recorrente (almoço, limpeza), subtraída da disponibilidade.
type ProfessionalBreak struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"index:idx_break_pro_weekday" json:"professional_id"`

	Weekday   int    `gorm:"index:idx_break_pro_weekday" json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Name      string `gorm:"size:100" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	BlockTypeDayOff      = "day_off"
	BlockTypeBlockedSlot = "blocked_slot"
)

// Exceção pontual por data: day_off remove o dia inteiro (sem horários);
// blocked_slot remove o sub-intervalo start/end. As duas formas são
// mutuamente exclusivas.
type ProfessionalBlockedTime struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"index:idx_blocked_pro_date" json:"professional_id"`

	BlockDate time.Time `gorm:"type:date;index:idx_blocked_pro_date" json:"block_date"`
	BlockType string    `gorm:"size:20;not null" json:"block_type"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Reason    string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
