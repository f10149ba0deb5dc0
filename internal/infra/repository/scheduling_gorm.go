package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Status que ocupam agenda e estação. Cancelado e no-show liberam o slot.
var occupyingStatuses = []string{
	string(domain.StatusScheduled),
	string(domain.StatusWalkIn),
	string(domain.StatusConfirmed),
	string(domain.StatusArrived),
	string(domain.StatusInService),
	string(domain.StatusPartiallyCompleted),
	string(domain.StatusReadyToPay),
	string(domain.StatusCompleted),
}

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *SchedulingGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SchedulingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Salon / Professional
// --------------------------------------------------

func (r *SchedulingGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, id).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *SchedulingGormRepository) GetProfessional(
	ctx context.Context,
	salonID uint,
	id uint,
) (*models.User, error) {

	var pro models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND role = ?", id, salonID, string(domain.RoleProfessional)).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

// --------------------------------------------------
// Catalog (batch)
// --------------------------------------------------

func (r *SchedulingGormRepository) GetServicesByIDs(
	ctx context.Context,
	salonID uint,
	ids []uint,
) (map[uint]models.Service, error) {

	out := make(map[uint]models.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND id IN ? AND active = true", salonID, ids).
		Find(&services).Error; err != nil {
		return nil, err
	}

	for _, svc := range services {
		out[svc.ID] = svc
	}
	return out, nil
}

func (r *SchedulingGormRepository) GetVariationsByIDs(
	ctx context.Context,
	ids []uint,
) (map[uint]models.ServiceVariation, error) {

	out := make(map[uint]models.ServiceVariation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var variations []models.ServiceVariation
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&variations).Error; err != nil {
		return nil, err
	}

	for _, v := range variations {
		out[v.ID] = v
	}
	return out, nil
}

func (r *SchedulingGormRepository) GetVariationGroupsByIDs(
	ctx context.Context,
	ids []uint,
) (map[uint]models.ServiceVariationGroup, error) {

	out := make(map[uint]models.ServiceVariationGroup, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var groups []models.ServiceVariationGroup
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&groups).Error; err != nil {
		return nil, err
	}

	for _, g := range groups {
		out[g.ID] = g
	}
	return out, nil
}

func (r *SchedulingGormRepository) ListStationRequirements(
	ctx context.Context,
	serviceID uint,
) ([]models.ServiceStationRequirement, error) {

	var reqs []models.ServiceStationRequirement
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *SchedulingGormRepository) GetClientByID(
	ctx context.Context,
	salonID uint,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *SchedulingGormRepository) FindClientByEmail(
	ctx context.Context,
	salonID uint,
	email string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND email = ?", salonID, email).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *SchedulingGormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// --------------------------------------------------
// Schedule rules
// --------------------------------------------------

func (r *SchedulingGormRepository) ListAvailability(
	ctx context.Context,
	professionalID uint,
	weekday int,
) ([]models.ProfessionalAvailability, error) {

	var windows []models.ProfessionalAvailability
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		Order("start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *SchedulingGormRepository) ListBreaks(
	ctx context.Context,
	professionalID uint,
	weekday int,
) ([]models.ProfessionalBreak, error) {

	var breaks []models.ProfessionalBreak
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		Order("start_time ASC").
		Find(&breaks).Error; err != nil {
		return nil, err
	}
	return breaks, nil
}

func (r *SchedulingGormRepository) ListBlockedTimes(
	ctx context.Context,
	professionalID uint,
	date time.Time,
) ([]models.ProfessionalBlockedTime, error) {

	var blocks []models.ProfessionalBlockedTime
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND block_date = ?", professionalID, date.Format("2006-01-02")).
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *SchedulingGormRepository) ListAllAvailability(
	ctx context.Context,
	professionalID uint,
) ([]models.ProfessionalAvailability, error) {

	var windows []models.ProfessionalAvailability
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *SchedulingGormRepository) ListAllBreaks(
	ctx context.Context,
	professionalID uint,
) ([]models.ProfessionalBreak, error) {

	var breaks []models.ProfessionalBreak
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC, start_time ASC").
		Find(&breaks).Error; err != nil {
		return nil, err
	}
	return breaks, nil
}

func (r *SchedulingGormRepository) ListBlockedTimesInRange(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.ProfessionalBlockedTime, error) {

	var blocks []models.ProfessionalBlockedTime
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND block_date >= ? AND block_date < ?",
			professionalID, from.Format("2006-01-02"), to.Format("2006-01-02"),
		).
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *SchedulingGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"professional_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			professionalID, occupyingStatuses, start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// CountOverlapping conta atendimentos ocupando [start, end). Com lock=true
// segura FOR UPDATE nas linhas conflitantes até o fim da transação — é o
// guard do check-then-act de reserva.
func (r *SchedulingGormRepository) CountOverlapping(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
	lock bool,
) (int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	q = q.Where(
		"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
		professionalID, occupyingStatuses, end, start,
	)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SchedulingGormRepository) CreateAppointmentGroup(
	ctx context.Context,
	group *models.AppointmentGroup,
) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *SchedulingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *SchedulingGormRepository) GetAppointmentGroup(
	ctx context.Context,
	salonID uint,
	id uint,
) (*models.AppointmentGroup, error) {

	var group models.AppointmentGroup
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Appointments").
		Preload("Appointments.Service").
		Preload("Appointments.Professional").
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *SchedulingGormRepository) GetAppointment(
	ctx context.Context,
	salonID uint,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *SchedulingGormRepository) UpdateAppointmentGroup(
	ctx context.Context,
	group *models.AppointmentGroup,
) error {
	return r.db.WithContext(ctx).Omit("Appointments").Save(group).Error
}

func (r *SchedulingGormRepository) ListGroupChildren(
	ctx context.Context,
	groupID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *SchedulingGormRepository) ListGroupsForPeriod(
	ctx context.Context,
	salonID uint,
	start time.Time,
	end time.Time,
) ([]models.AppointmentGroup, error) {

	var groups []models.AppointmentGroup
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Appointments").
		Preload("Appointments.Service").
		Preload("Appointments.Professional").
		Where(
			"salon_id = ? AND start_time >= ? AND start_time < ?",
			salonID, start, end,
		).
		Order("start_time ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// --------------------------------------------------
// Stations
// --------------------------------------------------

func (r *SchedulingGormRepository) ListStationsByType(
	ctx context.Context,
	salonID uint,
	stationTypeID uint,
) ([]models.Station, error) {

	var stations []models.Station
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND station_type_id = ? AND active = true", salonID, stationTypeID).
		Order("label ASC").
		Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

// ListBusyStationIDs devolve as estações do tipo já tomadas por
// atendimentos não cancelados que cruzam [start, end).
func (r *SchedulingGormRepository) ListBusyStationIDs(
	ctx context.Context,
	stationTypeID uint,
	start time.Time,
	end time.Time,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Table("appointment_stations").
		Select("appointment_stations.station_id").
		Joins("JOIN appointments ON appointments.id = appointment_stations.appointment_id").
		Joins("JOIN stations ON stations.id = appointment_stations.station_id").
		Where(
			"stations.station_type_id = ? AND appointments.status IN ? AND appointments.start_time < ? AND appointments.end_time > ?",
			stationTypeID, occupyingStatuses, end, start,
		).
		Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SchedulingGormRepository) AttachStations(
	ctx context.Context,
	ap *models.Appointment,
	stations []models.Station,
) error {
	if len(stations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(ap).Association("Stations").Append(&stations)
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
