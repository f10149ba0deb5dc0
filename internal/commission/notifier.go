package commission

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Event é o pedido de criação de comissão emitido quando um atendimento
// é concluído. O subsistema de comissões (externo) consome a tabela.
type Event struct {
	SalonID        uint
	AppointmentID  uint
	ProfessionalID uint
	ServicePrice   float64
	Percent        float64
}

type Notifier interface {
	Notify(ev Event) error
}

// GormNotifier persiste o gatilho. ON CONFLICT DO NOTHING no índice único
// de appointment_id: reentrega do mesmo complete nunca duplica comissão.
type GormNotifier struct {
	db *gorm.DB
}

func NewGormNotifier(db *gorm.DB) *GormNotifier {
	return &GormNotifier{db: db}
}

func (n *GormNotifier) Notify(ev Event) error {
	row := models.CommissionEvent{
		SalonID:        ev.SalonID,
		AppointmentID:  ev.AppointmentID,
		ProfessionalID: ev.ProfessionalID,
		ServicePrice:   ev.ServicePrice,
		Percent:        ev.Percent,
	}

	return n.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appointment_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}
