package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type StationAllocator struct {
	repo domain.Repository
}

func NewStationAllocator(repo domain.Repository) *StationAllocator {
	return &StationAllocator{repo: repo}
}

// Allocate escolhe, para cada requisito do serviço, qty estações livres no
// intervalo. First-fit determinístico: estações vêm ordenadas por label.
// Deve rodar dentro da mesma transação da criação do atendimento.
func (a *StationAllocator) Allocate(
	ctx context.Context,
	salonID uint,
	serviceID uint,
	start time.Time,
	end time.Time,
) ([]models.Station, error) {

	reqs, err := a.repo.ListStationRequirements(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}

	var picked []models.Station
	for _, req := range reqs {
		stations, err := a.repo.ListStationsByType(ctx, salonID, req.StationTypeID)
		if err != nil {
			return nil, err
		}

		busyIDs, err := a.repo.ListBusyStationIDs(ctx, req.StationTypeID, start, end)
		if err != nil {
			return nil, err
		}
		busy := make(map[uint]bool, len(busyIDs))
		for _, id := range busyIDs {
			busy[id] = true
		}

		taken := 0
		for _, st := range stations {
			if taken == req.Qty {
				break
			}
			if busy[st.ID] {
				continue
			}
			picked = append(picked, st)
			taken++
		}

		if taken < req.Qty {
			return nil, httperr.ErrConflict(
				"station_unavailable",
				"Sem estação livre para o serviço no horário.",
			)
		}
	}

	return picked, nil
}
