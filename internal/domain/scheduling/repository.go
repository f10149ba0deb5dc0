package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Repository é a visão de persistência do motor de agendamento. Os
// carregadores de catálogo são em lote e devolvem mapas por id para
// evitar N+1 nos grupos multi-serviço.
type Repository interface {
	// Transaction executa fn num escopo atômico; o Repository recebido
	// por fn enxerga a transação. Check-then-act de slot/estação roda
	// sempre dentro de uma.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// -------- Salon / Professional --------
	GetSalonByID(ctx context.Context, id uint) (*models.Salon, error)
	GetProfessional(ctx context.Context, salonID uint, id uint) (*models.User, error)

	// -------- Catalog (batch) --------
	GetServicesByIDs(ctx context.Context, salonID uint, ids []uint) (map[uint]models.Service, error)
	GetVariationsByIDs(ctx context.Context, ids []uint) (map[uint]models.ServiceVariation, error)
	GetVariationGroupsByIDs(ctx context.Context, ids []uint) (map[uint]models.ServiceVariationGroup, error)
	ListStationRequirements(ctx context.Context, serviceID uint) ([]models.ServiceStationRequirement, error)

	// -------- Client --------
	GetClientByID(ctx context.Context, salonID uint, id uint) (*models.Client, error)
	FindClientByEmail(ctx context.Context, salonID uint, email string) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) error

	// -------- Schedule rules (somente leitura aqui) --------
	ListAvailability(ctx context.Context, professionalID uint, weekday int) ([]models.ProfessionalAvailability, error)
	ListBreaks(ctx context.Context, professionalID uint, weekday int) ([]models.ProfessionalBreak, error)
	ListBlockedTimes(ctx context.Context, professionalID uint, date time.Time) ([]models.ProfessionalBlockedTime, error)
	ListAllAvailability(ctx context.Context, professionalID uint) ([]models.ProfessionalAvailability, error)
	ListAllBreaks(ctx context.Context, professionalID uint) ([]models.ProfessionalBreak, error)
	ListBlockedTimesInRange(ctx context.Context, professionalID uint, from, to time.Time) ([]models.ProfessionalBlockedTime, error)

	// -------- Appointments --------
	ListAppointmentsForDay(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error)
	CountOverlapping(ctx context.Context, professionalID uint, start, end time.Time, excludeID uint, lock bool) (int64, error)
	CreateAppointmentGroup(ctx context.Context, group *models.AppointmentGroup) error
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointmentGroup(ctx context.Context, salonID uint, id uint) (*models.AppointmentGroup, error)
	GetAppointment(ctx context.Context, salonID uint, id uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointmentGroup(ctx context.Context, group *models.AppointmentGroup) error
	ListGroupChildren(ctx context.Context, groupID uint) ([]models.Appointment, error)
	ListGroupsForPeriod(ctx context.Context, salonID uint, start, end time.Time) ([]models.AppointmentGroup, error)

	// -------- Stations --------
	ListStationsByType(ctx context.Context, salonID uint, stationTypeID uint) ([]models.Station, error)
	ListBusyStationIDs(ctx context.Context, stationTypeID uint, start, end time.Time) ([]uint, error)
	AttachStations(ctx context.Context, ap *models.Appointment, stations []models.Station) error
}
