package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ServiceEntry struct {
	ServiceID      uint  `json:"service_id"`
	VariationID    *uint `json:"variation_id"`
	ProfessionalID uint  `json:"professional_id"`
}

type CreateGroupInput struct {
	SalonID uint
	Actor   domain.Actor

	Client   ClientInput
	Services []ServiceEntry

	// Date/Time explícitos mandam; ausentes, walk-in entra "agora" com
	// segundos zerados.
	Date   string
	Time   string
	WalkIn bool
	Notes  string
}

// appointmentData é o bundle preparado antes de qualquer escrita.
type appointmentData struct {
	salon         *models.Salon
	client        *ClientResult
	calculations  []domain.ServiceCalculation
	totals        domain.GroupTotals
	start         time.Time
	allSequential bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointmentGroup struct {
	repo    domain.Repository
	clients *ClientResolver
	audit   audit.Sink
	months  *MonthAvailabilityCache
}

func NewCreateAppointmentGroup(
	repo domain.Repository,
	clients *ClientResolver,
	auditSink audit.Sink,
	months *MonthAvailabilityCache,
) *CreateAppointmentGroup {
	return &CreateAppointmentGroup{
		repo:    repo,
		clients: clients,
		audit:   auditSink,
		months:  months,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointmentGroup) Execute(
	ctx context.Context,
	in CreateGroupInput,
) (*models.AppointmentGroup, error) {

	if err := validateRequest(in); err != nil {
		return nil, err
	}

	data, err := uc.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	group, err := uc.createGroupWithAppointments(ctx, in, data)
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			// Corrida perdida no índice parcial, depois do scan com lock.
			return nil, httperr.ErrConflict("time_conflict", "Conflito de horário.")
		}
		return nil, err
	}

	for _, calc := range data.calculations {
		uc.months.Invalidate(ctx, calc.ProfessionalID, data.start)
	}

	actorID := in.Actor.ID
	uc.audit.Dispatch(audit.Event{
		SalonID:    in.SalonID,
		ActorID:    &actorID,
		ActorEmail: in.Actor.Email,
		EventType:  "appointment_group_created",
		Entity:     "appointment_group",
		EntityID:   &group.ID,
		Details: map[string]any{
			"services":    len(data.calculations),
			"total_price": data.totals.TotalPrice,
			"walk_in":     in.WalkIn,
		},
	})

	return group, nil
}

// ======================================================
// VALIDATE
// ======================================================

func validateRequest(in CreateGroupInput) error {
	if len(in.Services) == 0 {
		return httperr.ErrValidation("services_required", "Informe ao menos um serviço.")
	}
	for _, entry := range in.Services {
		if entry.ServiceID == 0 {
			return httperr.ErrValidation("service_id_required", "Serviço sem id.")
		}
		if entry.ProfessionalID == 0 {
			return httperr.ErrValidation("professional_id_required", "Serviço sem profissional.")
		}
	}
	return nil
}

// ======================================================
// PREPARE
// ======================================================

func (uc *CreateAppointmentGroup) prepare(
	ctx context.Context,
	in CreateGroupInput,
) (*appointmentData, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, httperr.ErrNotFound("salon_not_found", "Salão não encontrado.")
	}

	client, err := uc.clients.Resolve(ctx, in.SalonID, in.Client)
	if err != nil {
		return nil, err
	}

	// Carga única em lote — nada de lookup por entrada.
	serviceIDs := make([]uint, 0, len(in.Services))
	variationIDs := make([]uint, 0, len(in.Services))
	for _, entry := range in.Services {
		serviceIDs = append(serviceIDs, entry.ServiceID)
		if entry.VariationID != nil {
			variationIDs = append(variationIDs, *entry.VariationID)
		}
	}

	services, err := uc.repo.GetServicesByIDs(ctx, in.SalonID, serviceIDs)
	if err != nil {
		return nil, err
	}
	variations, err := uc.repo.GetVariationsByIDs(ctx, variationIDs)
	if err != nil {
		return nil, err
	}

	groupIDs := make([]uint, 0, len(variations))
	for _, v := range variations {
		groupIDs = append(groupIDs, v.GroupID)
	}
	variationGroups, err := uc.repo.GetVariationGroupsByIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	calcs := make([]domain.ServiceCalculation, 0, len(in.Services))
	for _, entry := range in.Services {
		svc, ok := services[entry.ServiceID]
		if !ok {
			return nil, httperr.ErrNotFound("service_not_found", "Serviço não encontrado.")
		}

		var variation *models.ServiceVariation
		if entry.VariationID != nil {
			v, ok := variations[*entry.VariationID]
			if !ok {
				return nil, httperr.ErrNotFound("variation_not_found", "Variação não encontrada.")
			}
			// A variação só vale para o serviço dono do grupo dela; o
			// serviço já foi carregado com escopo de salão.
			if g, ok := variationGroups[v.GroupID]; !ok || g.ServiceID != entry.ServiceID {
				return nil, httperr.ErrValidation("variation_not_for_service", "Variação não pertence ao serviço.")
			}
			variation = &v
		}

		calcs = append(calcs, domain.ServiceCalculation{
			ServiceID:         svc.ID,
			VariationID:       entry.VariationID,
			ProfessionalID:    entry.ProfessionalID,
			Price:             domain.PriceFor(&svc, variation),
			Duration:          domain.DurationFor(&svc, variation),
			ExecutionOrder:    svc.ExecutionOrder,
			ExecutionFlexible: svc.ExecutionFlexible,
		})
	}

	if len(calcs) == 0 {
		return nil, httperr.ErrValidation("services_required", "Nenhum serviço válido.")
	}

	start, err := resolveStart(salon, in)
	if err != nil {
		return nil, err
	}

	if !in.WalkIn {
		minAdvance := salon.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = 120
		}
		now := timezone.NowIn(salon.Timezone)
		if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
			return nil, httperr.ErrValidation("too_soon", "Horário muito próximo ou no passado.")
		}
	}

	allSequential := true
	for _, c := range calcs {
		if c.ExecutionFlexible {
			allSequential = false
			break
		}
	}

	return &appointmentData{
		salon:         salon,
		client:        client,
		calculations:  calcs,
		totals:        domain.Totals(calcs),
		start:         start,
		allSequential: allSequential,
	}, nil
}

// resolveStart: começo explícito do chamador é autoritativo; sem ele,
// agora no fuso do salão com segundos zerados (fluxo walk-in).
func resolveStart(salon *models.Salon, in CreateGroupInput) (time.Time, error) {
	if in.Date != "" && in.Time != "" {
		start, err := timezone.ParseDateTime(salon.Timezone, in.Date, in.Time)
		if err != nil {
			return time.Time{}, httperr.ErrValidation("invalid_date_or_time", "Data ou hora inválida.")
		}
		return start, nil
	}

	if !in.WalkIn {
		return time.Time{}, httperr.ErrValidation("start_required", "Data e hora são obrigatórias.")
	}

	return timezone.NowIn(salon.Timezone).Truncate(time.Minute), nil
}

// ======================================================
// CREATE (transação única)
// ======================================================

// leg é uma perna já posicionada no tempo.
type leg struct {
	calc  domain.ServiceCalculation
	start time.Time
	end   time.Time
}

func (uc *CreateAppointmentGroup) createGroupWithAppointments(
	ctx context.Context,
	in CreateGroupInput,
	data *appointmentData,
) (*models.AppointmentGroup, error) {

	legs := layoutLegs(data)

	groupEnd := data.start
	for _, l := range legs {
		if l.end.After(groupEnd) {
			groupEnd = l.end
		}
	}
	if data.allSequential {
		groupEnd = data.start.Add(time.Duration(data.totals.TotalDurationMin) * time.Minute)
	}

	status := domain.StatusScheduled
	if in.WalkIn {
		status = domain.StatusWalkIn
	}

	var created *models.AppointmentGroup

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		loc := timezone.Location(data.salon.Timezone)
		allocator := NewStationAllocator(tx)

		// Valida cada perna antes de qualquer escrita de appointment.
		for _, l := range legs {
			if err := assertLegBookable(ctx, tx, l, loc); err != nil {
				return err
			}
		}

		group := &models.AppointmentGroup{
			PublicCode:       uuid.NewString(),
			SalonID:          in.SalonID,
			ClientID:         data.client.Client.ID,
			StartTime:        data.start,
			EndTime:          groupEnd,
			TotalDurationMin: data.totals.TotalDurationMin,
			TotalPrice:       data.totals.TotalPrice,
			Status:           string(status),
			Notes:            in.Notes,
		}

		// Create já faz o flush: o ID sai daqui para os filhos.
		if err := tx.CreateAppointmentGroup(ctx, group); err != nil {
			return err
		}

		for _, l := range legs {
			stations, err := allocator.Allocate(ctx, in.SalonID, l.calc.ServiceID, l.start, l.end)
			if err != nil {
				return err
			}

			ap := &models.Appointment{
				SalonID:        in.SalonID,
				GroupID:        group.ID,
				ServiceID:      l.calc.ServiceID,
				VariationID:    l.calc.VariationID,
				ProfessionalID: l.calc.ProfessionalID,
				ClientID:       data.client.Client.ID,
				StartTime:      l.start,
				EndTime:        l.end,
				DurationMin:    l.calc.Duration.Total,
				PriceAtBooking: l.calc.Price.Final,
				Status:         string(status),
			}

			if err := tx.CreateAppointment(ctx, ap); err != nil {
				return err
			}
			if err := tx.AttachStations(ctx, ap, stations); err != nil {
				return err
			}

			group.Appointments = append(group.Appointments, *ap)
		}

		created = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// layoutLegs posiciona as pernas: sequenciais em fila por execution_order;
// flexíveis sobrepõem no início do grupo quando o profissional difere,
// senão serializam no fim da fila.
func layoutLegs(data *appointmentData) []leg {
	sequential := make([]domain.ServiceCalculation, 0, len(data.calculations))
	flexible := make([]domain.ServiceCalculation, 0)

	for _, c := range data.calculations {
		if c.ExecutionFlexible {
			flexible = append(flexible, c)
		} else {
			sequential = append(sequential, c)
		}
	}

	sort.SliceStable(sequential, func(i, j int) bool {
		return sequential[i].ExecutionOrder < sequential[j].ExecutionOrder
	})

	legs := make([]leg, 0, len(data.calculations))
	cursor := data.start

	for _, c := range sequential {
		end := cursor.Add(time.Duration(c.Duration.Total) * time.Minute)
		legs = append(legs, leg{calc: c, start: cursor, end: end})
		cursor = end
	}

	for _, c := range flexible {
		start := data.start
		end := start.Add(time.Duration(c.Duration.Total) * time.Minute)

		overlapsSamePro := false
		for _, l := range legs {
			if l.calc.ProfessionalID == c.ProfessionalID && start.Before(l.end) && l.start.Before(end) {
				overlapsSamePro = true
				break
			}
		}

		if overlapsSamePro {
			start = cursor
			end = start.Add(time.Duration(c.Duration.Total) * time.Minute)
			cursor = end
		}

		legs = append(legs, leg{calc: c, start: start, end: end})
	}

	return legs
}

// assertLegBookable: slot dentro da disponibilidade efetiva + scan com
// lock contra sobreposição. Roda dentro da transação.
func assertLegBookable(
	ctx context.Context,
	tx domain.Repository,
	l leg,
	loc *time.Location,
) error {

	dayStart := dayStartIn(l.start, loc)

	sched, err := buildDaySchedule(ctx, tx, l.calc.ProfessionalID, dayStart, loc, 0)
	if err != nil {
		return err
	}

	free := domain.FreeIntervals(sched)
	startMin := domain.MinutesOfDay(l.start.In(loc))
	if !domain.SlotFits(free, startMin, l.calc.Duration.Total) {
		return httperr.ErrConflict("slot_unavailable", "Horário indisponível para o profissional.")
	}

	count, err := tx.CountOverlapping(ctx, l.calc.ProfessionalID, l.start, l.end, 0, true)
	if err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrConflict("time_conflict", "Conflito de horário.")
	}

	return nil
}
