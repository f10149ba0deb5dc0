package models

import "time"

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	Price       float64 `json:"price"`

	DurationMin   int `json:"duration_min"`
	ProcessingMin int `json:"processing_min"`
	FinishingMin  int `json:"finishing_min"`

	// Ordem relativa quando o grupo é executado sequencialmente.
	ExecutionOrder    int  `gorm:"default:0" json:"execution_order"`
	ExecutionFlexible bool `gorm:"default:false" json:"execution_flexible"`

	Parallelable    bool `gorm:"default:false" json:"parallelable"`
	MaxParallelPros int  `gorm:"default:1" json:"max_parallel_pros"`

	Active bool `gorm:"default:true" json:"active"`

	VariationGroups []ServiceVariationGroup     `json:"variation_groups"`
	Requirements    []ServiceStationRequirement `json:"requirements"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServiceVariationGroup struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `json:"service_id"`

	Name string `gorm:"size:100;not null" json:"name"`

	Variations []ServiceVariation `gorm:"foreignKey:GroupID" json:"variations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceVariation ajusta preço e duração por delta (pode ser negativo).
type ServiceVariation struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	GroupID uint `json:"group_id"`

	Name             string  `gorm:"size:100;not null" json:"name"`
	PriceDelta       float64 `json:"price_delta"`
	DurationDeltaMin int     `json:"duration_delta_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
