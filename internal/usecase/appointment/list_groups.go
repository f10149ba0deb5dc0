package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ListGroupsByDate struct {
	repo domain.Repository
}

func NewListGroupsByDate(repo domain.Repository) *ListGroupsByDate {
	return &ListGroupsByDate{repo: repo}
}

func (uc *ListGroupsByDate) Execute(
	ctx context.Context,
	salonID uint,
	actor domain.Actor,
	dateStr string,
) ([]dto.AppointmentGroupDTO, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, httperr.ErrNotFound("salon_not_found", "Salão não encontrado.")
	}

	start, err := timezone.ParseDate(salon.Timezone, dateStr)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "Data inválida.")
	}
	end := start.Add(24 * time.Hour)

	groups, err := uc.repo.ListGroupsForPeriod(ctx, salonID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentGroupDTO, 0, len(groups))
	for _, g := range groups {
		if !visibleTo(actor, &g) {
			continue
		}
		out = append(out, toGroupDTO(&g))
	}

	return out, nil
}

type GetGroup struct {
	repo domain.Repository
}

func NewGetGroup(repo domain.Repository) *GetGroup {
	return &GetGroup{repo: repo}
}

func (uc *GetGroup) Execute(
	ctx context.Context,
	salonID uint,
	actor domain.Actor,
	groupID uint,
) (*dto.AppointmentGroupDTO, error) {

	group, err := uc.repo.GetAppointmentGroup(ctx, salonID, groupID)
	if err != nil {
		return nil, httperr.ErrNotFound("group_not_found", "Agendamento não encontrado.")
	}

	if !visibleTo(actor, group) {
		return nil, httperr.ErrForbidden("not_own_group", "Agendamento de outro cliente.")
	}

	out := toGroupDTO(group)
	return &out, nil
}

// visibleTo: staff enxerga tudo; profissional só grupos em que atende;
// cliente só os próprios.
func visibleTo(actor domain.Actor, g *models.AppointmentGroup) bool {
	switch actor.Role {
	case domain.RoleProfessional:
		for _, ap := range g.Appointments {
			if ap.ProfessionalID == actor.ID {
				return true
			}
		}
		return false
	case domain.RoleClient:
		return g.ClientID == actor.ID
	default:
		return true
	}
}

func toGroupDTO(g *models.AppointmentGroup) dto.AppointmentGroupDTO {
	out := dto.AppointmentGroupDTO{
		ID:               g.ID,
		PublicCode:       g.PublicCode,
		StartTime:        g.StartTime,
		EndTime:          g.EndTime,
		TotalDurationMin: g.TotalDurationMin,
		TotalPrice:       g.TotalPrice,
		Status:           g.Status,
		ClientName:       g.Client.Name,
	}

	for _, ap := range g.Appointments {
		out.Appointments = append(out.Appointments, dto.AppointmentDTO{
			ID:               ap.ID,
			StartTime:        ap.StartTime,
			EndTime:          ap.EndTime,
			DurationMin:      ap.DurationMin,
			PriceAtBooking:   ap.PriceAtBooking,
			Status:           ap.Status,
			ServiceName:      ap.Service.Name,
			ProfessionalName: ap.Professional.Name,
		})
	}

	return out
}
