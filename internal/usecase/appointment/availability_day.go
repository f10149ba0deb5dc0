package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type DayAvailabilityInput struct {
	SalonID        uint
	ProfessionalID uint
	ServiceID      uint
	VariationID    *uint
	Date           string
}

type GetDayAvailability struct {
	repo domain.Repository
}

func NewGetDayAvailability(repo domain.Repository) *GetDayAvailability {
	return &GetDayAvailability{repo: repo}
}

// Execute lista os inícios bookáveis do profissional na data, já com a
// duração do serviço (e variação) aplicada e a granularidade do salão.
func (uc *GetDayAvailability) Execute(
	ctx context.Context,
	in DayAvailabilityInput,
) ([]domain.TimeSlot, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, httperr.ErrNotFound("salon_not_found", "Salão não encontrado.")
	}

	duration, err := uc.serviceDuration(ctx, in)
	if err != nil {
		return nil, err
	}

	date, err := timezone.ParseDate(salon.Timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "Data inválida.")
	}

	loc := timezone.Location(salon.Timezone)
	sched, err := buildDaySchedule(ctx, uc.repo, in.ProfessionalID, date, loc, 0)
	if err != nil {
		return nil, err
	}

	free := domain.FreeIntervals(sched)

	step := salon.SlotGranularityMin
	if step <= 0 {
		step = 15
	}

	starts := domain.EnumerateSlotStarts(free, duration, step)

	// Hoje: corta inícios já passados.
	now := timezone.NowIn(salon.Timezone)
	sameDay := now.Year() == date.Year() && now.YearDay() == date.YearDay()
	nowMin := domain.MinutesOfDay(now)

	slots := make([]domain.TimeSlot, 0, len(starts))
	for _, s := range starts {
		if sameDay && s < nowMin {
			continue
		}
		slots = append(slots, domain.TimeSlot{
			Start: domain.MinutesToClock(s),
			End:   domain.MinutesToClock(s + duration),
		})
	}

	return slots, nil
}

func (uc *GetDayAvailability) serviceDuration(
	ctx context.Context,
	in DayAvailabilityInput,
) (int, error) {

	services, err := uc.repo.GetServicesByIDs(ctx, in.SalonID, []uint{in.ServiceID})
	if err != nil {
		return 0, err
	}
	svc, ok := services[in.ServiceID]
	if !ok {
		return 0, httperr.ErrNotFound("service_not_found", "Serviço não encontrado.")
	}

	var variation *models.ServiceVariation
	if in.VariationID != nil {
		variations, err := uc.repo.GetVariationsByIDs(ctx, []uint{*in.VariationID})
		if err != nil {
			return 0, err
		}
		v, ok := variations[*in.VariationID]
		if !ok {
			return 0, httperr.ErrNotFound("variation_not_found", "Variação não encontrada.")
		}
		groups, err := uc.repo.GetVariationGroupsByIDs(ctx, []uint{v.GroupID})
		if err != nil {
			return 0, err
		}
		if g, ok := groups[v.GroupID]; !ok || g.ServiceID != in.ServiceID {
			return 0, httperr.ErrValidation("variation_not_for_service", "Variação não pertence ao serviço.")
		}
		variation = &v
	}

	return domain.DurationFor(&svc, variation).Total, nil
}
