package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type CancelGroup struct {
	repo   domain.Repository
	audit  audit.Sink
	months *MonthAvailabilityCache
}

func NewCancelGroup(
	repo domain.Repository,
	auditSink audit.Sink,
	months *MonthAvailabilityCache,
) *CancelGroup {
	return &CancelGroup{
		repo:   repo,
		audit:  auditSink,
		months: months,
	}
}

// Execute cancela todos os filhos canceláveis do grupo. Cancelamento é
// status, nunca delete de linha. Sem nenhum filho cancelável, erro de
// estado.
func (uc *CancelGroup) Execute(
	ctx context.Context,
	salonID uint,
	actor domain.Actor,
	groupID uint,
) (*models.AppointmentGroup, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, httperr.ErrNotFound("salon_not_found", "Salão não encontrado.")
	}

	group, err := uc.repo.GetAppointmentGroup(ctx, salonID, groupID)
	if err != nil {
		return nil, httperr.ErrNotFound("group_not_found", "Agendamento não encontrado.")
	}

	if actor.Role == domain.RoleClient && group.ClientID != actor.ID {
		return nil, httperr.ErrForbidden("not_own_group", "Agendamento de outro cliente.")
	}

	now := timezone.NowIn(salon.Timezone)

	var cancelled []models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		children, err := tx.ListGroupChildren(ctx, groupID)
		if err != nil {
			return err
		}

		for i := range children {
			ap := &children[i]
			if actor.Role == domain.RoleProfessional && ap.ProfessionalID != actor.ID {
				continue
			}
			if err := domain.Authorize(domain.Status(ap.Status), domain.ActionCancel, actor.Role); err != nil {
				continue
			}

			domain.Apply(ap, domain.ActionCancel, now)
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}
			cancelled = append(cancelled, *ap)
		}

		if len(cancelled) == 0 {
			return httperr.ErrState("nothing_to_cancel", "Nenhum atendimento cancelável no grupo.")
		}

		return syncGroupStatus(ctx, tx, salonID, groupID)
	})
	if err != nil {
		return nil, err
	}

	for _, ap := range cancelled {
		uc.months.Invalidate(ctx, ap.ProfessionalID, ap.StartTime)
	}

	actorID := actor.ID
	uc.audit.Dispatch(audit.Event{
		SalonID:    salonID,
		ActorID:    &actorID,
		ActorEmail: actor.Email,
		EventType:  "appointment_group_cancelled",
		Entity:     "appointment_group",
		EntityID:   &groupID,
		Details:    map[string]any{"cancelled": len(cancelled)},
	})

	return uc.repo.GetAppointmentGroup(ctx, salonID, groupID)
}
