package scheduling

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ===============================
// Ciclo de vida do atendimento
// ===============================

type Status string

const (
	StatusScheduled          Status = "scheduled"
	StatusWalkIn             Status = "walk_in"
	StatusConfirmed          Status = "confirmed"
	StatusArrived            Status = "arrived"
	StatusInService          Status = "in_service"
	StatusPartiallyCompleted Status = "partially_completed"
	StatusReadyToPay         Status = "ready_to_pay"
	StatusCompleted          Status = "completed"
	StatusCancelled          Status = "cancelled"
	StatusNoShow             Status = "no_show"
)

type Action string

const (
	ActionConfirm      Action = "confirm"
	ActionArrive       Action = "arrive"
	ActionStartService Action = "start_service"
	ActionMarkReady    Action = "mark_ready"
	ActionComplete     Action = "complete"
	ActionCancel       Action = "cancel"
	ActionNoShow       Action = "no_show"
	ActionReschedule   Action = "reschedule"
)

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// transitionRule: de quais estados a ação sai, quem pode, onde chega.
type transitionRule struct {
	from  map[Status]bool
	roles map[Role]bool
	to    Status
}

func statuses(ss ...Status) map[Status]bool {
	m := make(map[Status]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

func roles(rs ...Role) map[Role]bool {
	m := make(map[Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

var allRoles = roles(RoleManager, RoleAttendant, RoleProfessional, RoleClient)

// Tabela explícita (estado, ação, papel) → permitido/negado.
// Checagens de posse (profissional só no próprio atendimento, cliente só
// no próprio grupo) ficam nos use cases; aqui é só estado × papel.
var transitions = map[Action]transitionRule{
	ActionConfirm: {
		from:  statuses(StatusScheduled, StatusWalkIn),
		roles: allRoles,
		to:    StatusConfirmed,
	},
	ActionArrive: {
		from:  statuses(StatusScheduled, StatusWalkIn, StatusConfirmed),
		roles: roles(RoleManager, RoleAttendant, RoleProfessional),
		to:    StatusArrived,
	},
	ActionStartService: {
		from:  statuses(StatusConfirmed, StatusArrived),
		roles: roles(RoleManager, RoleProfessional),
		to:    StatusInService,
	},
	ActionMarkReady: {
		from:  statuses(StatusInService, StatusPartiallyCompleted),
		roles: roles(RoleManager, RoleAttendant, RoleProfessional),
		to:    StatusReadyToPay,
	},
	ActionComplete: {
		// Qualquer estado não cancelado; completed repetido é tratado
		// como no-op em Authorize.
		from: statuses(
			StatusScheduled, StatusWalkIn, StatusConfirmed, StatusArrived,
			StatusInService, StatusPartiallyCompleted, StatusReadyToPay,
		),
		roles: roles(RoleManager, RoleProfessional),
		to:    StatusCompleted,
	},
	ActionCancel: {
		from: statuses(
			StatusScheduled, StatusWalkIn, StatusConfirmed, StatusArrived,
			StatusInService, StatusPartiallyCompleted, StatusReadyToPay,
			StatusNoShow,
		),
		roles: allRoles,
		to:    StatusCancelled,
	},
	ActionNoShow: {
		from:  statuses(StatusScheduled, StatusWalkIn, StatusConfirmed),
		roles: roles(RoleManager, RoleProfessional),
		to:    StatusNoShow,
	},
	ActionReschedule: {
		from: statuses(
			StatusScheduled, StatusWalkIn, StatusConfirmed, StatusArrived,
		),
		roles: roles(RoleManager, RoleAttendant, RoleClient),
		// reschedule não muda o status; o "to" é o próprio estado atual.
	},
}

// ErrAlreadyCompleted sinaliza o no-op idempotente do complete.
var errAlreadyCompleted = httperr.ErrState("already_completed", "Atendimento já concluído.")

func IsAlreadyCompleted(err error) bool {
	return httperr.IsBusiness(err, "already_completed")
}

// Authorize valida (estado, ação, papel). Retorna erro de estado ou de
// autorização; para complete sobre completed retorna errAlreadyCompleted,
// que o chamador trata como sucesso sem efeito.
func Authorize(current Status, action Action, role Role) error {
	rule, ok := transitions[action]
	if !ok {
		return httperr.ErrValidation("unknown_action", "Ação desconhecida.")
	}

	if action == ActionComplete && current == StatusCompleted {
		return errAlreadyCompleted
	}

	if !rule.from[current] {
		return httperr.ErrState("invalid_state", "Transição não permitida no estado atual.")
	}

	if !rule.roles[role] {
		return httperr.ErrForbidden("role_not_allowed", "Papel sem permissão para esta ação.")
	}

	return nil
}

// Next devolve o estado de destino da ação. Reschedule preserva o atual.
func Next(current Status, action Action) Status {
	if action == ActionReschedule {
		return current
	}
	return transitions[action].to
}

// Apply muda o status do atendimento e carimba o timestamp da transição.
// Pressupõe Authorize já aprovado.
func Apply(ap *models.Appointment, action Action, now time.Time) {
	next := Next(Status(ap.Status), action)
	ap.Status = string(next)

	switch next {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusArrived:
		ap.ArrivedAt = &now
	case StatusInService:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusNoShow:
		ap.NoShowAt = &now
	}
}

// DeriveGroupStatus agrega o status do grupo a partir dos filhos:
// completed só quando todos os não-cancelados concluíram;
// partially_completed quando parte concluiu; cancelled quando todos
// cancelaram.
func DeriveGroupStatus(children []models.Appointment, fallback Status) Status {
	if len(children) == 0 {
		return fallback
	}

	var active, completed, cancelled int
	for _, ap := range children {
		switch Status(ap.Status) {
		case StatusCancelled:
			cancelled++
		case StatusCompleted:
			completed++
			active++
		default:
			active++
		}
	}

	switch {
	case cancelled == len(children):
		return StatusCancelled
	case active > 0 && completed == active:
		return StatusCompleted
	case completed > 0:
		return StatusPartiallyCompleted
	default:
		return fallback
	}
}
