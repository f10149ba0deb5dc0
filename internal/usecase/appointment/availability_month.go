package appointment

import (
	"context"
	"encoding/json"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type MonthAvailabilityInput struct {
	SalonID        uint
	ProfessionalID uint
	ServiceID      uint
	VariationID    *uint
	Year           int
	Month          int
}

// MonthDay é um dia do calendário: tem ou não ao menos um slot válido.
type MonthDay struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

type GetMonthAvailability struct {
	repo   domain.Repository
	months *MonthAvailabilityCache
}

func NewGetMonthAvailability(
	repo domain.Repository,
	months *MonthAvailabilityCache,
) *GetMonthAvailability {
	return &GetMonthAvailability{repo: repo, months: months}
}

// Execute monta o calendário mensal do profissional para o serviço.
// As regras do mês saem em quatro queries (janelas, pausas, bloqueios,
// atendimentos) e o resto é aritmética em memória; o resultado fica no
// cache até a próxima escrita de agenda do profissional.
func (uc *GetMonthAvailability) Execute(
	ctx context.Context,
	in MonthAvailabilityInput,
) ([]MonthDay, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, httperr.ErrNotFound("salon_not_found", "Salão não encontrado.")
	}

	if in.Year < 2000 || in.Year > 2100 || in.Month < 1 || in.Month > 12 {
		return nil, httperr.ErrValidation("invalid_year_or_month", "Ano ou mês inválido.")
	}

	day := GetDayAvailability{repo: uc.repo}
	duration, err := day.serviceDuration(ctx, DayAvailabilityInput{
		SalonID:     in.SalonID,
		ServiceID:   in.ServiceID,
		VariationID: in.VariationID,
	})
	if err != nil {
		return nil, err
	}

	month := time.Month(in.Month)

	if raw, ok := uc.months.Get(ctx, in.ProfessionalID, in.Year, month, duration); ok {
		var cached []MonthDay
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	loc := timezone.Location(salon.Timezone)
	monthStart := time.Date(in.Year, month, 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	windowsByWeekday, breaksByWeekday, err := uc.weeklyRules(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.ListBlockedTimesInRange(ctx, in.ProfessionalID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	blocksByDate := make(map[string][]models.ProfessionalBlockedTime)
	for _, b := range blocks {
		key := b.BlockDate.Format("2006-01-02")
		blocksByDate[key] = append(blocksByDate[key], b)
	}

	aps, err := uc.repo.ListAppointmentsForDay(ctx, in.ProfessionalID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	busyByDate := make(map[string][]domain.Interval)
	for _, ap := range aps {
		key := ap.StartTime.In(loc).Format("2006-01-02")
		busyByDate[key] = append(busyByDate[key], domain.Interval{
			Start: domain.MinutesOfDay(ap.StartTime.In(loc)),
			End:   domain.MinutesOfDay(ap.EndTime.In(loc)),
		})
	}

	step := salon.SlotGranularityMin
	if step <= 0 {
		step = 15
	}

	var out []MonthDay
	for cur := monthStart; cur.Before(monthEnd); cur = cur.AddDate(0, 0, 1) {
		key := cur.Format("2006-01-02")

		sched := domain.DaySchedule{
			Windows: windowsByWeekday[int(cur.Weekday())],
			Breaks:  breaksByWeekday[int(cur.Weekday())],
			Busy:    busyByDate[key],
		}
		for _, blk := range blocksByDate[key] {
			if blk.BlockType == models.BlockTypeDayOff {
				sched.DayOff = true
				continue
			}
			if iv, err := clockInterval(blk.StartTime, blk.EndTime); err == nil {
				sched.Blocked = append(sched.Blocked, iv)
			}
		}

		free := domain.FreeIntervals(sched)
		starts := domain.EnumerateSlotStarts(free, duration, step)

		out = append(out, MonthDay{
			Date:      key,
			Available: len(starts) > 0,
		})
	}

	if payload, err := json.Marshal(out); err == nil {
		uc.months.Put(ctx, in.ProfessionalID, in.Year, month, duration, payload)
	}

	return out, nil
}

func (uc *GetMonthAvailability) weeklyRules(
	ctx context.Context,
	professionalID uint,
) (map[int][]domain.Interval, map[int][]domain.Interval, error) {

	windows, err := uc.repo.ListAllAvailability(ctx, professionalID)
	if err != nil {
		return nil, nil, err
	}
	windowsByWeekday := make(map[int][]domain.Interval)
	for _, w := range windows {
		if iv, err := clockInterval(w.StartTime, w.EndTime); err == nil {
			windowsByWeekday[w.Weekday] = append(windowsByWeekday[w.Weekday], iv)
		}
	}

	breaks, err := uc.repo.ListAllBreaks(ctx, professionalID)
	if err != nil {
		return nil, nil, err
	}
	breaksByWeekday := make(map[int][]domain.Interval)
	for _, b := range breaks {
		if iv, err := clockInterval(b.StartTime, b.EndTime); err == nil {
			breaksByWeekday[b.Weekday] = append(breaksByWeekday[b.Weekday], iv)
		}
	}

	return windowsByWeekday, breaksByWeekday, nil
}
