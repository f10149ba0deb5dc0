package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// List devolve o catálogo ativo do salão com grupos de variação e
// requisitos de estação, pronto para a tela de agendamento.
func (h *ServiceHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var services []models.Service
	if err := h.db.
		Preload("VariationGroups.Variations").
		Preload("Requirements").
		Where("salon_id = ? AND active = true", actor.SalonID).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "list_services_failed", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, services)
}
