package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

func seedBookingFixture() *fakeRepo {
	f := newFakeRepo()

	f.professionals[1] = &models.User{ID: 1, SalonID: 1, Name: "Bia", Role: "professional"}
	f.professionals[2] = &models.User{ID: 2, SalonID: 1, Name: "Davi", Role: "professional"}

	f.services[10] = models.Service{
		ID: 10, SalonID: 1, Name: "Corte",
		Price: 120, DurationMin: 45,
		ExecutionOrder: 1, Active: true,
	}
	f.services[11] = models.Service{
		ID: 11, SalonID: 1, Name: "Coloração",
		Price: 200, DurationMin: 60, ProcessingMin: 30, FinishingMin: 15,
		ExecutionOrder: 2, Active: true,
	}

	f.variationGroups[4] = models.ServiceVariationGroup{ID: 4, ServiceID: 11, Name: "Comprimento"}
	f.variations[5] = models.ServiceVariation{ID: 5, GroupID: 4, Name: "Cabelo longo", PriceDelta: 80, DurationDeltaMin: 20}

	f.clients[50] = &models.Client{ID: 50, SalonID: 1, Name: "Lia"}

	f.fullWeekWindow(1, "09:00", "18:00")
	f.fullWeekWindow(2, "09:00", "18:00")

	return f
}

func newCreateGroupUC(f *fakeRepo) (*CreateAppointmentGroup, *fakeAuditSink) {
	sink := &fakeAuditSink{}
	uc := NewCreateAppointmentGroup(f, NewClientResolver(f), sink, newTestMonthCache())
	return uc, sink
}

func clientRef(id uint) ClientInput {
	return ClientInput{ID: &id}
}

var staffActor = domain.Actor{ID: 7, SalonID: 1, Email: "gerente@studio.com", Role: domain.RoleManager}

func TestCreateGroupHappyPathTotalsAndLayout(t *testing.T) {
	f := seedBookingFixture()
	uc, sink := newCreateGroupUC(f)

	variationID := uint(5)
	group, err := uc.Execute(context.Background(), CreateGroupInput{
		SalonID: 1,
		Actor:   staffActor,
		Client:  clientRef(50),
		Services: []ServiceEntry{
			{ServiceID: 11, VariationID: &variationID, ProfessionalID: 1},
			{ServiceID: 10, ProfessionalID: 2},
		},
		Date: "2027-03-01",
		Time: "09:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Coloração: 200+80 = 280 e 60+30+15+20 = 125min. Corte: 120 e 45min.
	if group.TotalPrice != 400 {
		t.Fatalf("expected total price 400, got %v", group.TotalPrice)
	}
	if group.TotalDurationMin != 170 {
		t.Fatalf("expected total duration 170, got %d", group.TotalDurationMin)
	}
	if group.Status != string(domain.StatusScheduled) {
		t.Fatalf("expected scheduled, got %s", group.Status)
	}
	if group.PublicCode == "" {
		t.Fatal("expected a public code")
	}
	if len(group.Appointments) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(group.Appointments))
	}

	start, _ := timezone.ParseDateTime("America/Sao_Paulo", "2027-03-01", "09:00")

	// Sequencial por execution_order: Corte (ordem 1) antes da Coloração.
	first, second := group.Appointments[0], group.Appointments[1]
	if first.ServiceID != 10 || second.ServiceID != 11 {
		t.Fatalf("expected legs ordered by execution_order, got %d then %d", first.ServiceID, second.ServiceID)
	}
	if !first.StartTime.Equal(start) {
		t.Fatalf("expected first leg at %v, got %v", start, first.StartTime)
	}
	if !second.StartTime.Equal(first.EndTime) {
		t.Fatalf("expected back-to-back legs, gap between %v and %v", first.EndTime, second.StartTime)
	}
	if !group.EndTime.Equal(start.Add(170 * time.Minute)) {
		t.Fatalf("expected group end %v, got %v", start.Add(170*time.Minute), group.EndTime)
	}

	// Preço congelado por perna.
	if first.PriceAtBooking != 120 || second.PriceAtBooking != 280 {
		t.Fatalf("expected frozen prices 120/280, got %v/%v", first.PriceAtBooking, second.PriceAtBooking)
	}

	if len(sink.events) != 1 || sink.events[0].EventType != "appointment_group_created" {
		t.Fatalf("expected one creation audit event, got %+v", sink.events)
	}
}

func TestCreateGroupRejectsEmptyServices(t *testing.T) {
	f := seedBookingFixture()
	uc, _ := newCreateGroupUC(f)

	_, err := uc.Execute(context.Background(), CreateGroupInput{
		SalonID: 1,
		Actor:   staffActor,
		Client:  clientRef(50),
		Date:    "2027-03-01",
		Time:    "09:00",
	})
	if !httperr.IsBusiness(err, "services_required") {
		t.Fatalf("expected services_required, got %v", err)
	}
}

func TestCreateGroupUnknownServiceIsNotFound(t *testing.T) {
	f := seedBookingFixture()
	uc, _ := newCreateGroupUC(f)

	_, err := uc.Execute(context.Background(), CreateGroupInput{
		SalonID:  1,
		Actor:    staffActor,
		Client:   clientRef(50),
		Services: []ServiceEntry{{ServiceID: 999, ProfessionalID: 1}},
		Date:     "2027-03-01",
		Time:     "09:00",
	})
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestCreateGroupRejectsVariationOfAnotherService(t *testing.T) {
	f := seedBookingFixture()
	uc, _ := newCreateGroupUC(f)

	// Variação 5 pertence ao grupo da Coloração (11); usada com o Corte (10)
	// tem que cair em validação, não em preço errado.
	variationID := uint(5)
	_, err := uc.Execute(context.Background(), CreateGroupInput{
		SalonID:  1,
		Actor:    staffActor,
		Client:   clientRef(50),
		Services: []ServiceEntry{{ServiceID: 10, VariationID: &variationID, ProfessionalID: 1}},
		Date:     "2027-03-01",
		Time:     "09:00",
	})
	if !httperr.IsBusiness(err, "variation_not_for_service") {
		t.Fatalf("expected variation_not_for_service, got %v", err)
	}

	if len(f.groups) != 0 {
		t.Fatalf("expected no group persisted, got %d", len(f.groups))
	}
}

func TestCreateGroupBusySlotConflicts(t *testing.T) {
	f := seedBookingFixture()
	uc, _ := newCreateGroupUC(f)

	start, _ := timezone.ParseDateTime("America/Sao_Paulo", "2027-03-01", "09:00")
	f.appointments[900] = &models.Appointment{
		ID: 900, SalonID: 1, ProfessionalID: 1,
		StartTime: start, EndTime: start.Add(60 * time.Minute),
		Status: string(domain.StatusConfirmed),
	}

	_, err := uc.Execute(context.Background(), CreateGroupInput{
		SalonID:  1,
		Actor:    staffActor,
		Client:   clientRef(50),
		Services: []ServiceEntry{{ServiceID: 10, ProfessionalID: 1}},
		Date:     "2027-03-01",
		Time:     "09:30",
	})
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if len(f.groups) != 0 {
		t.Fatalf("expected no group persisted, got %d", len(f.groups))
	}
}

func TestCreateGroupCancelledLegDoesNotBlock(t *testing.T) {
	f := seedBookingFixture()
	uc, _ := newCreateGroupUC(f)

	start, _ := timezone.ParseDateTime("America/Sao_Paulo", "2027-03-01", "09:00")
	f.appointments[900] = &models.Appointment{
		ID: 900, SalonID: 1, ProfessionalID: 1,
		StartTime: start, EndTime: start.Add(60 * time.Minute),
		Status: string(domain.StatusCancelled),
	}

	if _, err := uc.Execute(context.Background(), CreateGroupInput{
		SalonID:  1,
		Actor:    staffActor,
		Client:   clientRef(50),
		Services: []ServiceEntry{{ServiceID: 10, ProfessionalID: 1}},
		Date:     "2027-03-01",
		Time:     "09:30",
	}); err != nil {
		t.Fatalf("expected cancelled leg to free the slot, got %v", err)
	}
}

func TestCreateGroupIsAtomicOnChildFailure(t *testing.T) {
	f := seedBookingFixture()
	uc, _ := newCreateGroupUC(f)

	// Segunda perna falha na escrita: nada do grupo pode sobrar.
	f.failOnAppointmentCreate = 2

	_, err := uc.Execute(context.Background(), CreateGroupInput{
		SalonID: 1,
		Actor:   staffActor,
		Client:  clientRef(50),
		Services: []ServiceEntry{
			{ServiceID: 10, ProfessionalID: 1},
			{ServiceID: 11, ProfessionalID: 2},
		},
		Date: "2027-03-01",
		Time: "09:00",
	})
	if err == nil {
		t.Fatal("expected error from forced child failure")
	}

	if len(f.groups) != 0 {
		t.Fatalf("expected no group after rollback, got %d", len(f.groups))
	}
	if len(f.appointments) != 0 {
		t.Fatalf("expected no appointments after rollback, got %d", len(f.appointments))
	}
}

func TestCreateGroupWalkInSkipsMinAdvance(t *testing.T) {
	f := seedBookingFixture()
	// Antecedência impossível de cumprir: só walk-in passa.
	f.salon.MinAdvanceMinutes = 10_000_000
	uc, _ := newCreateGroupUC(f)

	in := CreateGroupInput{
		SalonID:  1,
		Actor:    staffActor,
		Client:   clientRef(50),
		Services: []ServiceEntry{{ServiceID: 10, ProfessionalID: 1}},
		Date:     "2027-03-01",
		Time:     "09:00",
	}

	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("expected too_soon for scheduled booking, got %v", err)
	}

	in.WalkIn = true
	group, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("expected walk-in to skip min advance, got %v", err)
	}
	if group.Status != string(domain.StatusWalkIn) {
		t.Fatalf("expected walk_in status, got %s", group.Status)
	}
	for _, ap := range group.Appointments {
		if ap.Status != string(domain.StatusWalkIn) {
			t.Fatalf("expected walk_in legs, got %s", ap.Status)
		}
	}
}

func TestResolveStartWalkInDefaultsToNowTruncated(t *testing.T) {
	salon := &models.Salon{Timezone: "America/Sao_Paulo"}

	start, err := resolveStart(salon, CreateGroupInput{WalkIn: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Second() != 0 || start.Nanosecond() != 0 {
		t.Fatalf("expected minute-truncated start, got %v", start)
	}
	if d := time.Since(start); d < 0 || d > 2*time.Minute {
		t.Fatalf("expected start near now, got %v", start)
	}
}

func TestResolveStartRequiresExplicitTimeWhenNotWalkIn(t *testing.T) {
	salon := &models.Salon{Timezone: "America/Sao_Paulo"}

	_, err := resolveStart(salon, CreateGroupInput{})
	if !httperr.IsBusiness(err, "start_required") {
		t.Fatalf("expected start_required, got %v", err)
	}
}

func TestLayoutLegsFlexibleOverlapsAtGroupStart(t *testing.T) {
	start, _ := timezone.ParseDateTime("America/Sao_Paulo", "2027-03-01", "09:00")

	data := &appointmentData{
		start: start,
		calculations: []domain.ServiceCalculation{
			{ServiceID: 10, ProfessionalID: 1, ExecutionOrder: 1, Duration: domain.ServiceDuration{Total: 45}},
			{ServiceID: 20, ProfessionalID: 2, ExecutionFlexible: true, Duration: domain.ServiceDuration{Total: 30}},
		},
	}

	legs := layoutLegs(data)
	if len(legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(legs))
	}

	// Perna flexível em profissional distinto corre em paralelo desde o início.
	if !legs[1].start.Equal(start) {
		t.Fatalf("expected flexible leg at group start, got %v", legs[1].start)
	}
}

func TestLayoutLegsFlexibleSameProfessionalSerializes(t *testing.T) {
	start, _ := timezone.ParseDateTime("America/Sao_Paulo", "2027-03-01", "09:00")

	data := &appointmentData{
		start: start,
		calculations: []domain.ServiceCalculation{
			{ServiceID: 10, ProfessionalID: 1, ExecutionOrder: 1, Duration: domain.ServiceDuration{Total: 45}},
			{ServiceID: 20, ProfessionalID: 1, ExecutionFlexible: true, Duration: domain.ServiceDuration{Total: 30}},
		},
	}

	legs := layoutLegs(data)

	// Mesmo profissional não se sobrepõe: flexível entra depois da fila.
	if !legs[1].start.Equal(legs[0].end) {
		t.Fatalf("expected serialized flexible leg at %v, got %v", legs[0].end, legs[1].start)
	}
}
