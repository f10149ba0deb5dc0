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

type AppointmentGroupHandler struct {
	createUC *ucAppointment.CreateAppointmentGroup
	listUC   *ucAppointment.ListGroupsByDate
	getUC    *ucAppointment.GetGroup
	cancelUC *ucAppointment.CancelGroup
}

func NewAppointmentGroupHandler(
	createUC *ucAppointment.CreateAppointmentGroup,
	listUC *ucAppointment.ListGroupsByDate,
	getUC *ucAppointment.GetGroup,
	cancelUC *ucAppointment.CancelGroup,
) *AppointmentGroupHandler {
	return &AppointmentGroupHandler{
		createUC: createUC,
		listUC:   listUC,
		getUC:    getUC,
		cancelUC: cancelUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateGroupRequest struct {
	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`

	Services []ucAppointment.ServiceEntry `json:"services" binding:"required"`

	Date   string `json:"date"`
	Time   string `json:"time"`
	WalkIn bool   `json:"walk_in"`
	Notes  string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentGroupHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	client := ucAppointment.ClientInput{
		Name:  req.ClientName,
		Phone: req.ClientPhone,
		Email: req.ClientEmail,
	}
	if req.ClientID != 0 {
		client.ID = &req.ClientID
	}

	// Cliente logado agenda só para si; o corpo não escolhe outro cliente.
	if actor.Role == domain.RoleClient {
		selfID := actor.ID
		client = ucAppointment.ClientInput{ID: &selfID}
	}

	group, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateGroupInput{
		SalonID:  actor.SalonID,
		Actor:    actor,
		Client:   client,
		Services: req.Services,
		Date:     req.Date,
		Time:     req.Time,
		WalkIn:   req.WalkIn,
		Notes:    req.Notes,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "create_group_failed")
		return
	}

	httpresp.Created(c, group)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentGroupHandler) ListByDate(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "date_required", "Informe a data (YYYY-MM-DD).")
		return
	}

	groups, err := h.listUC.Execute(c.Request.Context(), actor.SalonID, actor, date)
	if err != nil {
		httperr.WriteBusiness(c, err, "list_groups_failed")
		return
	}

	httpresp.List(c, groups)
}

func (h *AppointmentGroupHandler) Get(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	group, err := h.getUC.Execute(c.Request.Context(), actor.SalonID, actor, uint(id))
	if err != nil {
		httperr.WriteBusiness(c, err, "get_group_failed")
		return
	}

	httpresp.OK(c, group)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentGroupHandler) Cancel(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	group, err := h.cancelUC.Execute(c.Request.Context(), actor.SalonID, actor, uint(id))
	if err != nil {
		httperr.WriteBusiness(c, err, "cancel_group_failed")
		return
	}

	httpresp.OK(c, group)
}
