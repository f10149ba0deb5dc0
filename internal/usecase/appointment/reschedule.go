package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type RescheduleInput struct {
	SalonID       uint
	Actor         domain.Actor
	AppointmentID uint

	Date string
	Time string
}

type RescheduleAppointment struct {
	repo   domain.Repository
	audit  audit.Sink
	months *MonthAvailabilityCache
}

func NewRescheduleAppointment(
	repo domain.Repository,
	auditSink audit.Sink,
	months *MonthAvailabilityCache,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		audit:  auditSink,
		months: months,
	}
}

// Execute move o atendimento para o novo intervalo: reroda o cálculo de
// disponibilidade e, em conflito, falha sem mudar nada (status incluso).
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, httperr.ErrNotFound("salon_not_found", "Salão não encontrado.")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.SalonID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrNotFound("appointment_not_found", "Atendimento não encontrado.")
	}

	if err := assertOwnership(in.Actor, ap); err != nil {
		return nil, err
	}

	if err := domain.Authorize(domain.Status(ap.Status), domain.ActionReschedule, in.Actor.Role); err != nil {
		return nil, err
	}

	newStart, err := timezone.ParseDateTime(salon.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time", "Data ou hora inválida.")
	}
	newEnd := newStart.Add(time.Duration(ap.DurationMin) * time.Minute)

	oldStart := ap.StartTime
	loc := timezone.Location(salon.Timezone)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		dayStart := dayStartIn(newStart, loc)

		sched, err := buildDaySchedule(ctx, tx, ap.ProfessionalID, dayStart, loc, ap.ID)
		if err != nil {
			return err
		}

		free := domain.FreeIntervals(sched)
		startMin := domain.MinutesOfDay(newStart.In(loc))
		if !domain.SlotFits(free, startMin, ap.DurationMin) {
			return httperr.ErrConflict("slot_unavailable", "Novo horário indisponível.")
		}

		count, err := tx.CountOverlapping(ctx, ap.ProfessionalID, newStart, newEnd, ap.ID, true)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("time_conflict", "Conflito no novo horário.")
		}

		ap.StartTime = newStart
		ap.EndTime = newEnd
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		return syncGroupEnvelope(ctx, tx, in.SalonID, ap.GroupID)
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrConflict("time_conflict", "Conflito no novo horário.")
		}
		return nil, err
	}

	uc.months.Invalidate(ctx, ap.ProfessionalID, oldStart)
	uc.months.Invalidate(ctx, ap.ProfessionalID, newStart)

	actorID := in.Actor.ID
	uc.audit.Dispatch(audit.Event{
		SalonID:    in.SalonID,
		ActorID:    &actorID,
		ActorEmail: in.Actor.Email,
		EventType:  "appointment_rescheduled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Details: map[string]any{
			"from": oldStart,
			"to":   newStart,
		},
	})

	return ap, nil
}

// syncGroupEnvelope recalcula início/fim do grupo a partir dos filhos não
// cancelados após uma remarcação.
func syncGroupEnvelope(
	ctx context.Context,
	tx domain.Repository,
	salonID uint,
	groupID uint,
) error {

	group, err := tx.GetAppointmentGroup(ctx, salonID, groupID)
	if err != nil {
		return err
	}

	children, err := tx.ListGroupChildren(ctx, groupID)
	if err != nil {
		return err
	}

	var start, end time.Time
	for _, ap := range children {
		if domain.Status(ap.Status) == domain.StatusCancelled {
			continue
		}
		if start.IsZero() || ap.StartTime.Before(start) {
			start = ap.StartTime
		}
		if ap.EndTime.After(end) {
			end = ap.EndTime
		}
	}

	if start.IsZero() {
		return nil
	}

	group.StartTime = start
	group.EndTime = end
	return tx.UpdateAppointmentGroup(ctx, group)
}
