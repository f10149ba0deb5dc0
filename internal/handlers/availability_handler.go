package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	dayUC   *ucAppointment.GetDayAvailability
	monthUC *ucAppointment.GetMonthAvailability
}

func NewAvailabilityHandler(
	dayUC *ucAppointment.GetDayAvailability,
	monthUC *ucAppointment.GetMonthAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{dayUC: dayUC, monthUC: monthUC}
}

func queryUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

func queryUintPtr(c *gin.Context, name string) *uint {
	if v, ok := queryUint(c, name); ok {
		return &v
	}
	return nil
}

func (h *AvailabilityHandler) Day(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	professionalID, ok := queryUint(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "professional_id_required", "Informe professional_id.")
		return
	}
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		httperr.BadRequest(c, "service_id_required", "Informe service_id.")
		return
	}
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "date_required", "Informe a data (YYYY-MM-DD).")
		return
	}

	slots, err := h.dayUC.Execute(c.Request.Context(), ucAppointment.DayAvailabilityInput{
		SalonID:        actor.SalonID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		VariationID:    queryUintPtr(c, "variation_id"),
		Date:           date,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "availability_failed")
		return
	}

	httpresp.List(c, slots)
}

func (h *AvailabilityHandler) Month(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	professionalID, ok := queryUint(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "professional_id_required", "Informe professional_id.")
		return
	}
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		httperr.BadRequest(c, "service_id_required", "Informe service_id.")
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "year_required", "Informe o ano.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "month_required", "Informe o mês.")
		return
	}

	days, err := h.monthUC.Execute(c.Request.Context(), ucAppointment.MonthAvailabilityInput{
		SalonID:        actor.SalonID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		VariationID:    queryUintPtr(c, "variation_id"),
		Year:           year,
		Month:          month,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "availability_month_failed")
		return
	}

	httpresp.List(c, days)
}
