package dto

import "time"

type AppointmentDTO struct {
	ID               uint      `json:"id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	DurationMin      int       `json:"duration_min"`
	PriceAtBooking   float64   `json:"price_at_booking"`
	Status           string    `json:"status"`
	ServiceName      string    `json:"service_name"`
	ProfessionalName string    `json:"professional_name"`
}

type AppointmentGroupDTO struct {
	ID               uint      `json:"id"`
	PublicCode       string    `json:"public_code"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TotalDurationMin int       `json:"total_duration_min"`
	TotalPrice       float64   `json:"total_price"`
	Status           string    `json:"status"`
	ClientName       string    `json:"client_name"`

	Appointments []AppointmentDTO `json:"appointments"`
}
