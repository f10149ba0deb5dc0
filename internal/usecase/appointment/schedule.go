package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// buildDaySchedule materializa a agenda de um profissional numa data:
// janelas recorrentes do dia da semana, pausas, bloqueios pontuais e
// atendimentos que ocupam horário. Instantes persistidos são convertidos
// para loc antes de virar minutos — o driver pode devolvê-los em UTC.
// excludeID ignora um atendimento (o que está sendo remarcado).
func buildDaySchedule(
	ctx context.Context,
	repo domain.Repository,
	professionalID uint,
	dayStart time.Time,
	loc *time.Location,
	excludeID uint,
) (domain.DaySchedule, error) {

	var sched domain.DaySchedule
	weekday := int(dayStart.Weekday())

	windows, err := repo.ListAvailability(ctx, professionalID, weekday)
	if err != nil {
		return sched, err
	}
	for _, w := range windows {
		iv, err := clockInterval(w.StartTime, w.EndTime)
		if err != nil {
			continue
		}
		sched.Windows = append(sched.Windows, iv)
	}

	breaks, err := repo.ListBreaks(ctx, professionalID, weekday)
	if err != nil {
		return sched, err
	}
	for _, b := range breaks {
		iv, err := clockInterval(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		sched.Breaks = append(sched.Breaks, iv)
	}

	blocks, err := repo.ListBlockedTimes(ctx, professionalID, dayStart)
	if err != nil {
		return sched, err
	}
	for _, blk := range blocks {
		if blk.BlockType == models.BlockTypeDayOff {
			sched.DayOff = true
			continue
		}
		iv, err := clockInterval(blk.StartTime, blk.EndTime)
		if err != nil {
			continue
		}
		sched.Blocked = append(sched.Blocked, iv)
	}

	dayEnd := dayStart.Add(24 * time.Hour)
	busy, err := repo.ListAppointmentsForDay(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		return sched, err
	}
	for _, ap := range busy {
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		sched.Busy = append(sched.Busy, domain.Interval{
			Start: domain.MinutesOfDay(ap.StartTime.In(loc)),
			End:   domain.MinutesOfDay(ap.EndTime.In(loc)),
		})
	}

	return sched, nil
}

func clockInterval(startClock, endClock string) (domain.Interval, error) {
	start, err := domain.ClockToMinutes(startClock)
	if err != nil {
		return domain.Interval{}, err
	}
	end, err := domain.ClockToMinutes(endClock)
	if err != nil {
		return domain.Interval{}, err
	}
	return domain.Interval{Start: start, End: end}, nil
}

func dayStartIn(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
