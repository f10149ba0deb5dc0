package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Client{},
		&models.Service{},
		&models.ServiceVariationGroup{},
		&models.ServiceVariation{},
		&models.StationType{},
		&models.Station{},
		&models.ServiceStationRequirement{},
		&models.ProfessionalAvailability{},
		&models.ProfessionalBreak{},
		&models.ProfessionalBlockedTime{},
		&models.AppointmentGroup{},
		&models.Appointment{},
		&models.AuditLog{},
		&models.CommissionEvent{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Trava de corrida contra double-booking: o AutoMigrate não expressa
	// índice parcial, então criamos na mão.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_appointments_pro_start
        ON appointments (professional_id, start_time)
        WHERE status NOT IN ('cancelled', 'no_show')
    `)

	db.Exec(`
        UPDATE salons
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}
