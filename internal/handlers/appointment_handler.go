package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	transitionUC *ucAppointment.TransitionAppointment
	rescheduleUC *ucAppointment.RescheduleAppointment
}

func NewAppointmentHandler(
	transitionUC *ucAppointment.TransitionAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		transitionUC: transitionUC,
		rescheduleUC: rescheduleUC,
	}
}

// ======================================================
// TRANSITIONS
// ======================================================

// transition é o caminho comum das ações de ciclo de vida. Estado × papel
// é decidido no domínio; aqui só se extrai actor e id.
func (h *AppointmentHandler) transition(c *gin.Context, action domain.Action) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	ap, err := h.transitionUC.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		SalonID:       actor.SalonID,
		Actor:         actor,
		AppointmentID: uint(id),
		Action:        action,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "transition_failed")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context)      { h.transition(c, domain.ActionConfirm) }
func (h *AppointmentHandler) Arrive(c *gin.Context)       { h.transition(c, domain.ActionArrive) }
func (h *AppointmentHandler) StartService(c *gin.Context) { h.transition(c, domain.ActionStartService) }
func (h *AppointmentHandler) MarkReady(c *gin.Context)    { h.transition(c, domain.ActionMarkReady) }
func (h *AppointmentHandler) Complete(c *gin.Context)     { h.transition(c, domain.ActionComplete) }
func (h *AppointmentHandler) Cancel(c *gin.Context)       { h.transition(c, domain.ActionCancel) }
func (h *AppointmentHandler) NoShow(c *gin.Context)       { h.transition(c, domain.ActionNoShow) }

// ======================================================
// RESCHEDULE
// ======================================================

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe date e time.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		SalonID:       actor.SalonID,
		Actor:         actor,
		AppointmentID: uint(id),
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "reschedule_failed")
		return
	}

	httpresp.OK(c, ap)
}
