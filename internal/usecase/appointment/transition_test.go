package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func seedAppointmentFixture(status domain.Status) (*fakeRepo, *models.Appointment) {
	f := newFakeRepo()
	f.professionals[1] = &models.User{ID: 1, SalonID: 1, Name: "Bia", Role: "professional"}

	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	f.groups[20] = &models.AppointmentGroup{
		ID: 20, SalonID: 1, ClientID: 50,
		StartTime: start, EndTime: start.Add(45 * time.Minute),
		Status: string(domain.StatusScheduled),
	}
	ap := &models.Appointment{
		ID: 300, SalonID: 1, GroupID: 20,
		ServiceID: 10, ProfessionalID: 1, ClientID: 50,
		StartTime: start, EndTime: start.Add(45 * time.Minute),
		DurationMin: 45, PriceAtBooking: 100,
		Status: string(status),
	}
	f.appointments[300] = ap
	return f, ap
}

func newTransitionUC(f *fakeRepo) (*TransitionAppointment, *fakeAuditSink, *fakeCommissionSink) {
	auditSink := &fakeAuditSink{}
	commissionSink := &fakeCommissionSink{}
	uc := NewTransitionAppointment(f, auditSink, commissionSink, newTestMonthCache())
	return uc, auditSink, commissionSink
}

func TestCompleteEmitsExactlyOneCommission(t *testing.T) {
	f, _ := seedAppointmentFixture(domain.StatusReadyToPay)
	uc, _, commissions := newTransitionUC(f)

	in := TransitionInput{
		SalonID:       1,
		Actor:         staffActor,
		AppointmentID: 300,
		Action:        domain.ActionComplete,
	}

	ap, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected completed, got %s", ap.Status)
	}
	if ap.CompletedAt == nil {
		t.Fatal("expected completed_at stamped")
	}

	if len(commissions.events) != 1 {
		t.Fatalf("expected one commission event, got %d", len(commissions.events))
	}
	ev := commissions.events[0]
	if ev.AppointmentID != 300 || ev.ServicePrice != 100 || ev.Percent != 40 {
		t.Fatalf("unexpected commission event: %+v", ev)
	}

	// Re-completar é no-op: sem erro e sem nova comissão.
	again, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("expected idempotent complete, got %v", err)
	}
	if again.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected completed, got %s", again.Status)
	}
	if len(commissions.events) != 1 {
		t.Fatalf("expected still one commission event, got %d", len(commissions.events))
	}

	// Grupo com todos os filhos concluídos deriva completed.
	group, _ := f.GetAppointmentGroup(context.Background(), 1, 20)
	if group.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected group completed, got %s", group.Status)
	}
}

func TestCompleteUsesProfessionalCommissionOverride(t *testing.T) {
	f, _ := seedAppointmentFixture(domain.StatusReadyToPay)
	f.professionals[1].CommissionPercent = 55
	uc, _, commissions := newTransitionUC(f)

	if _, err := uc.Execute(context.Background(), TransitionInput{
		SalonID:       1,
		Actor:         staffActor,
		AppointmentID: 300,
		Action:        domain.ActionComplete,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(commissions.events) != 1 || commissions.events[0].Percent != 55 {
		t.Fatalf("expected override percent 55, got %+v", commissions.events)
	}
}

func TestCancelAfterCompleteIsStateError(t *testing.T) {
	f, _ := seedAppointmentFixture(domain.StatusCompleted)
	uc, _, _ := newTransitionUC(f)

	_, err := uc.Execute(context.Background(), TransitionInput{
		SalonID:       1,
		Actor:         staffActor,
		AppointmentID: 300,
		Action:        domain.ActionCancel,
	})
	if !httperr.IsKind(err, httperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestClientCannotComplete(t *testing.T) {
	f, _ := seedAppointmentFixture(domain.StatusReadyToPay)
	uc, _, commissions := newTransitionUC(f)

	_, err := uc.Execute(context.Background(), TransitionInput{
		SalonID:       1,
		Actor:         domain.Actor{ID: 50, SalonID: 1, Role: domain.RoleClient},
		AppointmentID: 300,
		Action:        domain.ActionComplete,
	})
	if !httperr.IsKind(err, httperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if len(commissions.events) != 0 {
		t.Fatalf("expected no commission, got %d", len(commissions.events))
	}
}

func TestProfessionalCannotActOnForeignAppointment(t *testing.T) {
	f, _ := seedAppointmentFixture(domain.StatusConfirmed)
	uc, _, _ := newTransitionUC(f)

	_, err := uc.Execute(context.Background(), TransitionInput{
		SalonID:       1,
		Actor:         domain.Actor{ID: 2, SalonID: 1, Role: domain.RoleProfessional},
		AppointmentID: 300,
		Action:        domain.ActionStartService,
	})
	if !httperr.IsBusiness(err, "not_own_appointment") {
		t.Fatalf("expected not_own_appointment, got %v", err)
	}
}

func TestNoShowFreesSlotForCounting(t *testing.T) {
	f, ap := seedAppointmentFixture(domain.StatusConfirmed)
	uc, _, _ := newTransitionUC(f)

	if _, err := uc.Execute(context.Background(), TransitionInput{
		SalonID:       1,
		Actor:         staffActor,
		AppointmentID: 300,
		Action:        domain.ActionNoShow,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := f.CountOverlapping(context.Background(), 1, ap.StartTime, ap.EndTime, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no_show to free the slot, got %d overlapping", count)
	}
}

func TestTransitionAuditsAction(t *testing.T) {
	f, _ := seedAppointmentFixture(domain.StatusScheduled)
	uc, auditSink, _ := newTransitionUC(f)

	if _, err := uc.Execute(context.Background(), TransitionInput{
		SalonID:       1,
		Actor:         staffActor,
		AppointmentID: 300,
		Action:        domain.ActionConfirm,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(auditSink.events) != 1 || auditSink.events[0].EventType != "appointment_confirm" {
		t.Fatalf("expected appointment_confirm audit event, got %+v", auditSink.events)
	}
}
