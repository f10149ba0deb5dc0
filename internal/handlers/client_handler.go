package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

func (h *ClientHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	q := h.db.
		Where("salon_id = ?", actor.SalonID).
		Order("name ASC")

	// Busca simples por nome/telefone/email.
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone LIKE ? OR email ILIKE ?", like, like, like)
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		httperr.Internal(c, "list_clients_failed", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}
