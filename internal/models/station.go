package models

import "time"

// StationType é uma categoria de recurso físico (ex: "hair_chair").
type StationType struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	Name string `gorm:"size:50;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Station é uma instância física reservável.
type Station struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	StationTypeID uint        `json:"station_type_id"`
	StationType   StationType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"station_type"`

	Label  string `gorm:"size:50;not null" json:"label"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceStationRequirement: o serviço precisa de qty estações do tipo
// durante toda a sua execução.
type ServiceStationRequirement struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `json:"service_id"`

	StationTypeID uint `json:"station_type_id"`
	Qty           int  `gorm:"default:1" json:"qty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
