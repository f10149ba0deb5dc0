package appointment

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/commission"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var errFakeNotFound = errors.New("record not found")

// fakeRepo implementa domain.Repository em memória. Transaction tira um
// snapshot das escritas e restaura em erro, para os testes de atomicidade.
type fakeRepo struct {
	salon         *models.Salon
	professionals map[uint]*models.User

	services        map[uint]models.Service
	variations      map[uint]models.ServiceVariation
	variationGroups map[uint]models.ServiceVariationGroup
	requirements    map[uint][]models.ServiceStationRequirement
	stations        map[uint][]models.Station
	busyStations    map[uint]bool

	clients      map[uint]*models.Client
	nextClientID uint

	windows []models.ProfessionalAvailability
	breaks  []models.ProfessionalBreak
	blocks  []models.ProfessionalBlockedTime

	groups       map[uint]*models.AppointmentGroup
	appointments map[uint]*models.Appointment
	nextGroupID  uint
	nextApID     uint

	// failOnAppointmentCreate > 0 faz a criação do N-ésimo filho falhar.
	failOnAppointmentCreate int
	createdAppointments     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		salon: &models.Salon{
			ID:                 1,
			Name:               "Studio Teste",
			Timezone:           "America/Sao_Paulo",
			MinAdvanceMinutes:  120,
			SlotGranularityMin: 15,
			CommissionPercent:  40,
		},
		professionals:   make(map[uint]*models.User),
		services:        make(map[uint]models.Service),
		variations:      make(map[uint]models.ServiceVariation),
		variationGroups: make(map[uint]models.ServiceVariationGroup),
		requirements:    make(map[uint][]models.ServiceStationRequirement),
		stations:        make(map[uint][]models.Station),
		busyStations:    make(map[uint]bool),
		clients:         make(map[uint]*models.Client),
		nextClientID:    100,
		groups:          make(map[uint]*models.AppointmentGroup),
		appointments:    make(map[uint]*models.Appointment),
		nextGroupID:     10,
		nextApID:        1000,
	}
}

// fullWeekWindow abre todos os dias da semana no intervalo dado.
func (f *fakeRepo) fullWeekWindow(professionalID uint, start, end string) {
	for wd := 0; wd < 7; wd++ {
		f.windows = append(f.windows, models.ProfessionalAvailability{
			ProfessionalID: professionalID,
			Weekday:        wd,
			StartTime:      start,
			EndTime:        end,
		})
	}
}

func occupying(status string) bool {
	s := domain.Status(status)
	return s != domain.StatusCancelled && s != domain.StatusNoShow
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (f *fakeRepo) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	snapGroups := make(map[uint]*models.AppointmentGroup, len(f.groups))
	for k, v := range f.groups {
		c := *v
		snapGroups[k] = &c
	}
	snapAps := make(map[uint]*models.Appointment, len(f.appointments))
	for k, v := range f.appointments {
		c := *v
		snapAps[k] = &c
	}
	snapGroupID, snapApID := f.nextGroupID, f.nextApID
	snapCreated := f.createdAppointments

	if err := fn(f); err != nil {
		f.groups = snapGroups
		f.appointments = snapAps
		f.nextGroupID, f.nextApID = snapGroupID, snapApID
		f.createdAppointments = snapCreated
		return err
	}
	return nil
}

// --------------------------------------------------
// Salon / Professional
// --------------------------------------------------

func (f *fakeRepo) GetSalonByID(ctx context.Context, id uint) (*models.Salon, error) {
	if f.salon == nil || f.salon.ID != id {
		return nil, errFakeNotFound
	}
	c := *f.salon
	return &c, nil
}

func (f *fakeRepo) GetProfessional(ctx context.Context, salonID, id uint) (*models.User, error) {
	pro, ok := f.professionals[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *pro
	return &c, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (f *fakeRepo) GetServicesByIDs(ctx context.Context, salonID uint, ids []uint) (map[uint]models.Service, error) {
	out := make(map[uint]models.Service)
	for _, id := range ids {
		if svc, ok := f.services[id]; ok {
			out[id] = svc
		}
	}
	return out, nil
}

func (f *fakeRepo) GetVariationsByIDs(ctx context.Context, ids []uint) (map[uint]models.ServiceVariation, error) {
	out := make(map[uint]models.ServiceVariation)
	for _, id := range ids {
		if v, ok := f.variations[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (f *fakeRepo) GetVariationGroupsByIDs(ctx context.Context, ids []uint) (map[uint]models.ServiceVariationGroup, error) {
	out := make(map[uint]models.ServiceVariationGroup)
	for _, id := range ids {
		if g, ok := f.variationGroups[id]; ok {
			out[id] = g
		}
	}
	return out, nil
}

func (f *fakeRepo) ListStationRequirements(ctx context.Context, serviceID uint) ([]models.ServiceStationRequirement, error) {
	return f.requirements[serviceID], nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (f *fakeRepo) GetClientByID(ctx context.Context, salonID, id uint) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *client
	return &c, nil
}

func (f *fakeRepo) FindClientByEmail(ctx context.Context, salonID uint, email string) (*models.Client, error) {
	for _, client := range f.clients {
		if client.Email == email {
			c := *client
			return &c, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeRepo) CreateClient(ctx context.Context, client *models.Client) error {
	f.nextClientID++
	client.ID = f.nextClientID
	c := *client
	f.clients[client.ID] = &c
	return nil
}

// --------------------------------------------------
// Schedule rules
// --------------------------------------------------

func (f *fakeRepo) ListAvailability(ctx context.Context, professionalID uint, weekday int) ([]models.ProfessionalAvailability, error) {
	var out []models.ProfessionalAvailability
	for _, w := range f.windows {
		if w.ProfessionalID == professionalID && w.Weekday == weekday {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBreaks(ctx context.Context, professionalID uint, weekday int) ([]models.ProfessionalBreak, error) {
	var out []models.ProfessionalBreak
	for _, b := range f.breaks {
		if b.ProfessionalID == professionalID && b.Weekday == weekday {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBlockedTimes(ctx context.Context, professionalID uint, date time.Time) ([]models.ProfessionalBlockedTime, error) {
	var out []models.ProfessionalBlockedTime
	day := date.Format("2006-01-02")
	for _, b := range f.blocks {
		if b.ProfessionalID == professionalID && b.BlockDate.Format("2006-01-02") == day {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAllAvailability(ctx context.Context, professionalID uint) ([]models.ProfessionalAvailability, error) {
	var out []models.ProfessionalAvailability
	for _, w := range f.windows {
		if w.ProfessionalID == professionalID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAllBreaks(ctx context.Context, professionalID uint) ([]models.ProfessionalBreak, error) {
	var out []models.ProfessionalBreak
	for _, b := range f.breaks {
		if b.ProfessionalID == professionalID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBlockedTimesInRange(ctx context.Context, professionalID uint, from, to time.Time) ([]models.ProfessionalBlockedTime, error) {
	var out []models.ProfessionalBlockedTime
	for _, b := range f.blocks {
		if b.ProfessionalID == professionalID && !b.BlockDate.Before(from) && b.BlockDate.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (f *fakeRepo) ListAppointmentsForDay(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ProfessionalID == professionalID && occupying(ap.Status) &&
			!ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeRepo) CountOverlapping(ctx context.Context, professionalID uint, start, end time.Time, excludeID uint, lock bool) (int64, error) {
	var count int64
	for _, ap := range f.appointments {
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if ap.ProfessionalID == professionalID && occupying(ap.Status) &&
			ap.StartTime.Before(end) && ap.EndTime.After(start) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateAppointmentGroup(ctx context.Context, group *models.AppointmentGroup) error {
	f.nextGroupID++
	group.ID = f.nextGroupID
	f.groups[group.ID] = group
	return nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.createdAppointments++
	if f.failOnAppointmentCreate > 0 && f.createdAppointments >= f.failOnAppointmentCreate {
		return errors.New("forced appointment create failure")
	}
	f.nextApID++
	ap.ID = f.nextApID
	c := *ap
	f.appointments[ap.ID] = &c
	return nil
}

func (f *fakeRepo) GetAppointmentGroup(ctx context.Context, salonID, id uint) (*models.AppointmentGroup, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *group
	children, _ := f.ListGroupChildren(ctx, id)
	c.Appointments = children
	return &c, nil
}

func (f *fakeRepo) GetAppointment(ctx context.Context, salonID, id uint) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok {
		return nil, errFakeNotFound
	}
	c := *ap
	return &c, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	if _, ok := f.appointments[ap.ID]; !ok {
		return errFakeNotFound
	}
	c := *ap
	f.appointments[ap.ID] = &c
	return nil
}

func (f *fakeRepo) UpdateAppointmentGroup(ctx context.Context, group *models.AppointmentGroup) error {
	if _, ok := f.groups[group.ID]; !ok {
		return errFakeNotFound
	}
	c := *group
	f.groups[group.ID] = &c
	return nil
}

func (f *fakeRepo) ListGroupChildren(ctx context.Context, groupID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.GroupID == groupID {
			out = append(out, *ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeRepo) ListGroupsForPeriod(ctx context.Context, salonID uint, start, end time.Time) ([]models.AppointmentGroup, error) {
	var out []models.AppointmentGroup
	for _, g := range f.groups {
		if g.SalonID == salonID && !g.StartTime.Before(start) && g.StartTime.Before(end) {
			c := *g
			children, _ := f.ListGroupChildren(ctx, g.ID)
			c.Appointments = children
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// --------------------------------------------------
// Stations
// --------------------------------------------------

func (f *fakeRepo) ListStationsByType(ctx context.Context, salonID, stationTypeID uint) ([]models.Station, error) {
	stations := append([]models.Station(nil), f.stations[stationTypeID]...)
	sort.Slice(stations, func(i, j int) bool { return stations[i].Label < stations[j].Label })
	return stations, nil
}

func (f *fakeRepo) ListBusyStationIDs(ctx context.Context, stationTypeID uint, start, end time.Time) ([]uint, error) {
	var ids []uint
	for id, busy := range f.busyStations {
		if busy {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRepo) AttachStations(ctx context.Context, ap *models.Appointment, stations []models.Station) error {
	ap.Stations = append(ap.Stations, stations...)
	if stored, ok := f.appointments[ap.ID]; ok {
		stored.Stations = append(stored.Stations, stations...)
	}
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// --------------------------------------------------
// Sinks / cache de teste
// --------------------------------------------------

type fakeAuditSink struct {
	events []audit.Event
}

func (f *fakeAuditSink) Dispatch(ev audit.Event) {
	f.events = append(f.events, ev)
}

type fakeCommissionSink struct {
	events []commission.Event
}

func (f *fakeCommissionSink) Dispatch(ev commission.Event) {
	f.events = append(f.events, ev)
}

func newTestMonthCache() *MonthAvailabilityCache {
	return NewMonthAvailabilityCache(cache.NewNoop(), time.Minute)
}
