package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// ScheduleRulesHandler administra a agenda recorrente e as exceções do
// profissional. Toda escrita derruba o cache de calendário mensal.
type ScheduleRulesHandler struct {
	db     *gorm.DB
	months *ucAppointment.MonthAvailabilityCache
}

func NewScheduleRulesHandler(
	db *gorm.DB,
	months *ucAppointment.MonthAvailabilityCache,
) *ScheduleRulesHandler {
	return &ScheduleRulesHandler{db: db, months: months}
}

// ======================================================
// REQUESTS
// ======================================================

type WeeklyRuleEntry struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Name      string `json:"name"`
}

type WeeklyRulesUpdateRequest struct {
	Entries []WeeklyRuleEntry `json:"entries" binding:"required"`
}

type BlockedTimeRequest struct {
	BlockDate string `json:"block_date" binding:"required"`
	BlockType string `json:"block_type" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

// ======================================================
// HELPERS
// ======================================================

// professionalFromPath valida o :id e o direito de mexer na agenda:
// manager administra qualquer profissional; o profissional só a própria.
func (h *ScheduleRulesHandler) professionalFromPath(c *gin.Context) (uint, bool) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	professionalID := uint(id)

	if actor.Role == domain.RoleProfessional && professionalID != actor.ID {
		httperr.Forbidden(c, "not_own_schedule", "Agenda de outro profissional.")
		return 0, false
	}
	if actor.Role == domain.RoleClient || actor.Role == domain.RoleAttendant {
		httperr.Forbidden(c, "role_not_allowed", "Papel sem permissão para gerir agenda.")
		return 0, false
	}

	var count int64
	if err := h.db.Model(&models.User{}).
		Where("id = ? AND salon_id = ? AND role = ?", professionalID, actor.SalonID, string(domain.RoleProfessional)).
		Count(&count).Error; err != nil || count == 0 {

		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return 0, false
	}

	return professionalID, true
}

// validClockRange rejeita "15:04" malformado, intervalo invertido e
// intervalo de comprimento zero.
func validClockRange(start, end string) bool {
	s, err := domain.ClockToMinutes(start)
	if err != nil {
		return false
	}
	e, err := domain.ClockToMinutes(end)
	if err != nil {
		return false
	}
	return s < e
}

// invalidateUpcoming derruba o calendário cacheado dos próximos meses;
// meses mais distantes expiram pelo TTL.
func (h *ScheduleRulesHandler) invalidateUpcoming(c *gin.Context, professionalID uint) {
	now := time.Now()
	for i := 0; i < 3; i++ {
		h.months.Invalidate(c.Request.Context(), professionalID, now.AddDate(0, i, 0))
	}
}

// ======================================================
// AVAILABILITY (janelas recorrentes)
// ======================================================

func (h *ScheduleRulesHandler) GetAvailability(c *gin.Context) {
	professionalID, ok := h.professionalFromPath(c)
	if !ok {
		return
	}

	var windows []models.ProfessionalAvailability
	if err := h.db.
		Where("professional_id = ?", professionalID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error; err != nil {

		httperr.Internal(c, "get_availability_failed", "Erro ao buscar janelas.")
		return
	}

	httpresp.List(c, windows)
}

// UpdateAvailability troca o conjunto inteiro de janelas do profissional
// (PUT com semântica de replace, dentro de uma transação).
func (h *ScheduleRulesHandler) UpdateAvailability(c *gin.Context) {
	professionalID, ok := h.professionalFromPath(c)
	if !ok {
		return
	}

	var req WeeklyRulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	toCreate := make([]models.ProfessionalAvailability, 0, len(req.Entries))
	for _, e := range req.Entries {
		if e.Weekday < 0 || e.Weekday > 6 {
			httperr.BadRequest(c, "invalid_weekday", "Dia da semana fora de 0..6.")
			return
		}
		if !validClockRange(e.StartTime, e.EndTime) {
			httperr.BadRequest(c, "invalid_time_range", "Intervalo invertido, vazio ou malformado.")
			return
		}
		toCreate = append(toCreate, models.ProfessionalAvailability{
			ProfessionalID: professionalID,
			Weekday:        e.Weekday,
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ?", professionalID).
			Delete(&models.ProfessionalAvailability{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "update_availability_failed", "Erro ao salvar janelas.")
		return
	}

	h.invalidateUpcoming(c, professionalID)
	httpresp.List(c, toCreate)
}

// ======================================================
// BREAKS (pausas recorrentes)
// ======================================================

func (h *ScheduleRulesHandler) GetBreaks(c *gin.Context) {
	professionalID, ok := h.professionalFromPath(c)
	if !ok {
		return
	}

	var breaks []models.ProfessionalBreak
	if err := h.db.
		Where("professional_id = ?", professionalID).
		Order("weekday ASC, start_time ASC").
		Find(&breaks).Error; err != nil {

		httperr.Internal(c, "get_breaks_failed", "Erro ao buscar pausas.")
		return
	}

	httpresp.List(c, breaks)
}

func (h *ScheduleRulesHandler) UpdateBreaks(c *gin.Context) {
	professionalID, ok := h.professionalFromPath(c)
	if !ok {
		return
	}

	var req WeeklyRulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	toCreate := make([]models.ProfessionalBreak, 0, len(req.Entries))
	for _, e := range req.Entries {
		if e.Weekday < 0 || e.Weekday > 6 {
			httperr.BadRequest(c, "invalid_weekday", "Dia da semana fora de 0..6.")
			return
		}
		if !validClockRange(e.StartTime, e.EndTime) {
			httperr.BadRequest(c, "invalid_time_range", "Intervalo invertido, vazio ou malformado.")
			return
		}
		toCreate = append(toCreate, models.ProfessionalBreak{
			ProfessionalID: professionalID,
			Weekday:        e.Weekday,
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
			Name:           e.Name,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ?", professionalID).
			Delete(&models.ProfessionalBreak{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "update_breaks_failed", "Erro ao salvar pausas.")
		return
	}

	h.invalidateUpcoming(c, professionalID)
	httpresp.List(c, toCreate)
}

// ======================================================
// BLOCKED TIMES (exceções pontuais)
// ======================================================

func (h *ScheduleRulesHandler) ListBlockedTimes(c *gin.Context) {
	professionalID, ok := h.professionalFromPath(c)
	if !ok {
		return
	}

	q := h.db.Where("professional_id = ?", professionalID)

	if from := c.Query("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			q = q.Where("block_date >= ?", d.Format("2006-01-02"))
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			q = q.Where("block_date <= ?", d.Format("2006-01-02"))
		}
	}

	var blocks []models.ProfessionalBlockedTime
	if err := q.Order("block_date ASC, start_time ASC").Find(&blocks).Error; err != nil {
		httperr.Internal(c, "list_blocked_times_failed", "Erro ao listar bloqueios.")
		return
	}

	httpresp.List(c, blocks)
}

func (h *ScheduleRulesHandler) CreateBlockedTime(c *gin.Context) {
	professionalID, ok := h.professionalFromPath(c)
	if !ok {
		return
	}

	var req BlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	blockDate, err := time.Parse("2006-01-02", req.BlockDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	// day_off não carrega horários; blocked_slot exige intervalo válido.
	switch req.BlockType {
	case models.BlockTypeDayOff:
		if req.StartTime != "" || req.EndTime != "" {
			httperr.BadRequest(c, "day_off_has_times", "day_off não leva horários.")
			return
		}
	case models.BlockTypeBlockedSlot:
		if !validClockRange(req.StartTime, req.EndTime) {
			httperr.BadRequest(c, "invalid_time_range", "Intervalo invertido, vazio ou malformado.")
			return
		}
	default:
		httperr.BadRequest(c, "invalid_block_type", "Tipo deve ser day_off ou blocked_slot.")
		return
	}

	block := models.ProfessionalBlockedTime{
		ProfessionalID: professionalID,
		BlockDate:      blockDate,
		BlockType:      req.BlockType,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Reason:         req.Reason,
	}

	if err := h.db.Create(&block).Error; err != nil {
		httperr.Internal(c, "create_blocked_time_failed", "Erro ao criar bloqueio.")
		return
	}

	h.months.Invalidate(c.Request.Context(), professionalID, blockDate)
	httpresp.Created(c, block)
}

func (h *ScheduleRulesHandler) DeleteBlockedTime(c *gin.Context) {
	professionalID, ok := h.professionalFromPath(c)
	if !ok {
		return
	}

	blockID, err := strconv.ParseUint(c.Param("blockId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var block models.ProfessionalBlockedTime
	if err := h.db.
		Where("id = ? AND professional_id = ?", blockID, professionalID).
		First(&block).Error; err != nil {

		httperr.NotFound(c, "blocked_time_not_found", "Bloqueio não encontrado.")
		return
	}

	if err := h.db.Delete(&block).Error; err != nil {
		httperr.Internal(c, "delete_blocked_time_failed", "Erro ao remover bloqueio.")
		return
	}

	h.months.Invalidate(c.Request.Context(), professionalID, block.BlockDate)
	httpresp.OK(c, gin.H{"status": "ok"})
}
