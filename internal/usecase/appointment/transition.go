package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/commission"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ======================================================
// TRANSITION (confirm / arrive / start / ready /
//             complete / cancel / no_show)
// ======================================================

type TransitionInput struct {
	SalonID       uint
	Actor         domain.Actor
	AppointmentID uint
	Action        domain.Action
}

type TransitionAppointment struct {
	repo        domain.Repository
	audit       audit.Sink
	commissions commission.Sink
	months      *MonthAvailabilityCache
}

func NewTransitionAppointment(
	repo domain.Repository,
	auditSink audit.Sink,
	commissions commission.Sink,
	months *MonthAvailabilityCache,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:        repo,
		audit:       auditSink,
		commissions: commissions,
		months:      months,
	}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
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

	if err := domain.Authorize(domain.Status(ap.Status), in.Action, in.Actor.Role); err != nil {
		if domain.IsAlreadyCompleted(err) {
			// Idempotente: re-completar não é erro nem gera comissão.
			return ap, nil
		}
		return nil, err
	}

	now := timezone.NowIn(salon.Timezone)
	domain.Apply(ap, in.Action, now)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		return syncGroupStatus(ctx, tx, in.SalonID, ap.GroupID)
	})
	if err != nil {
		return nil, err
	}

	// Cancelamento e no-show liberam agenda: o calendário cacheado morre
	// antes da resposta.
	if in.Action == domain.ActionCancel || in.Action == domain.ActionNoShow {
		uc.months.Invalidate(ctx, ap.ProfessionalID, ap.StartTime)
	}

	if in.Action == domain.ActionComplete {
		uc.dispatchCommission(ctx, salon, ap)
	}

	actorID := in.Actor.ID
	uc.audit.Dispatch(audit.Event{
		SalonID:    in.SalonID,
		ActorID:    &actorID,
		ActorEmail: in.Actor.Email,
		EventType:  "appointment_" + string(in.Action),
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}

// dispatchCommission emite o gatilho de comissão. Fire-and-forget: erro
// aqui é do worker, nunca da conclusão do atendimento.
func (uc *TransitionAppointment) dispatchCommission(
	ctx context.Context,
	salon *models.Salon,
	ap *models.Appointment,
) {
	percent := salon.CommissionPercent
	if pro, err := uc.repo.GetProfessional(ctx, salon.ID, ap.ProfessionalID); err == nil && pro.CommissionPercent > 0 {
		percent = pro.CommissionPercent
	}

	uc.commissions.Dispatch(commission.Event{
		SalonID:        salon.ID,
		AppointmentID:  ap.ID,
		ProfessionalID: ap.ProfessionalID,
		ServicePrice:   ap.PriceAtBooking,
		Percent:        percent,
	})
}

// assertOwnership: profissional só age no próprio atendimento; cliente só
// no próprio. Staff (manager/attendant) passa direto.
func assertOwnership(actor domain.Actor, ap *models.Appointment) error {
	switch actor.Role {
	case domain.RoleProfessional:
		if ap.ProfessionalID != actor.ID {
			return httperr.ErrForbidden("not_own_appointment", "Atendimento de outro profissional.")
		}
	case domain.RoleClient:
		if ap.ClientID != actor.ID {
			return httperr.ErrForbidden("not_own_appointment", "Atendimento de outro cliente.")
		}
	}
	return nil
}

// syncGroupStatus rederiva o status agregado do grupo após qualquer
// mudança num filho.
func syncGroupStatus(
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

	derived := domain.DeriveGroupStatus(children, domain.Status(group.Status))
	if string(derived) == group.Status {
		return nil
	}

	group.Status = string(derived)
	return tx.UpdateAppointmentGroup(ctx, group)
}
