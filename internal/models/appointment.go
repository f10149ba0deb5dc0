package models

import "time"

// AppointmentGroup é uma transação de agendamento multi-serviço de um
// cliente. Totais são congelados na criação.
type AppointmentGroup struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PublicCode string `gorm:"size:36;uniqueIndex" json:"public_code"`

	SalonID uint  `json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"salon"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	TotalDurationMin int     `json:"total_duration_min"`
	TotalPrice       float64 `json:"total_price"`

	Status string `gorm:"size:25;default:'scheduled'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	Appointments []Appointment `gorm:"foreignKey:GroupID" json:"appointments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Appointment é uma perna (serviço, profissional, cliente) do grupo.
// Preço e duração são cópias congeladas no momento da reserva.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint `json:"salon_id"`
	GroupID uint `gorm:"index" json:"group_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	VariationID *uint             `json:"variation_id"`
	Variation   *ServiceVariation `gorm:"foreignKey:VariationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"variation"`

	ProfessionalID uint `gorm:"index" json:"professional_id"`
	Professional   User `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	DurationMin    int     `json:"duration_min"`
	PriceAtBooking float64 `json:"price_at_booking"`

	Status string `gorm:"size:25;default:'scheduled'" json:"status"`

	Stations []Station `gorm:"many2many:appointment_stations;" json:"stations"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	ArrivedAt   *time.Time `json:"arrived_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	NoShowAt    *time.Time `json:"no_show_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
