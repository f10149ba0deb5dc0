package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	cachepkg "github.com/BruksfildServices01/salon-scheduler/internal/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/commission"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	commissionNotifier := commission.NewGormNotifier(db)
	commissionDispatcher := commission.NewDispatcher(commissionNotifier)

	// Sem Redis configurado o calendário mensal roda sem cache.
	var monthStore cachepkg.Cache = cachepkg.NewNoop()
	if cfg.RedisAddr != "" {
		monthStore = cachepkg.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	monthCache := ucAppointment.NewMonthAvailabilityCache(
		monthStore,
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
	)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	clientResolver := ucAppointment.NewClientResolver(schedulingRepo)

	createGroupUC := ucAppointment.NewCreateAppointmentGroup(
		schedulingRepo,
		clientResolver,
		auditDispatcher,
		monthCache,
	)

	transitionUC := ucAppointment.NewTransitionAppointment(
		schedulingRepo,
		auditDispatcher,
		commissionDispatcher,
		monthCache,
	)

	rescheduleUC := ucAppointment.NewRescheduleAppointment(
		schedulingRepo,
		auditDispatcher,
		monthCache,
	)

	cancelGroupUC := ucAppointment.NewCancelGroup(
		schedulingRepo,
		auditDispatcher,
		monthCache,
	)

	listGroupsUC := ucAppointment.NewListGroupsByDate(schedulingRepo)
	getGroupUC := ucAppointment.NewGetGroup(schedulingRepo)

	dayAvailabilityUC := ucAppointment.NewGetDayAvailability(schedulingRepo)
	monthAvailabilityUC := ucAppointment.NewGetMonthAvailability(schedulingRepo, monthCache)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	groupHandler := handlers.NewAppointmentGroupHandler(
		createGroupUC,
		listGroupsUC,
		getGroupUC,
		cancelGroupUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		transitionUC,
		rescheduleUC,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(
		dayAvailabilityUC,
		monthAvailabilityUC,
	)

	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	scheduleRulesHandler := handlers.NewScheduleRulesHandler(db, monthCache)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// APPOINTMENT GROUPS
			// ------------------------------
			bookers := middleware.RequireRoles(
				domain.RoleManager, domain.RoleAttendant, domain.RoleClient,
			)
			secured.POST("/appointment-groups", bookers, groupHandler.Create)
			secured.GET("/appointment-groups", groupHandler.ListByDate)
			secured.GET("/appointment-groups/:id", groupHandler.Get)
			secured.PATCH("/appointment-groups/:id/cancel", bookers, groupHandler.Cancel)

			// ------------------------------
			// APPOINTMENT LIFECYCLE
			// ------------------------------
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/arrive", appointmentHandler.Arrive)
			secured.PATCH("/appointments/:id/start", appointmentHandler.StartService)
			secured.PATCH("/appointments/:id/ready", appointmentHandler.MarkReady)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/availability", availabilityHandler.Day)
			secured.GET("/availability/month", availabilityHandler.Month)

			// ------------------------------
			// CATALOG / CLIENTS
			// ------------------------------
			secured.GET("/services", serviceHandler.List)
			secured.GET("/clients", clientHandler.List)

			// ------------------------------
			// SCHEDULE RULES
			// ------------------------------
			secured.GET("/professionals/:id/availability", scheduleRulesHandler.GetAvailability)
			secured.PUT("/professionals/:id/availability", scheduleRulesHandler.UpdateAvailability)
			secured.GET("/professionals/:id/breaks", scheduleRulesHandler.GetBreaks)
			secured.PUT("/professionals/:id/breaks", scheduleRulesHandler.UpdateBreaks)
			secured.GET("/professionals/:id/blocked-times", scheduleRulesHandler.ListBlockedTimes)
			secured.POST("/professionals/:id/blocked-times", scheduleRulesHandler.CreateBlockedTime)
			secured.DELETE("/professionals/:id/blocked-times/:blockId", scheduleRulesHandler.DeleteBlockedTime)

			// ------------------------------
			// AUDIT
			// ------------------------------
			secured.GET(
				"/audit-logs",
				middleware.RequireRoles(domain.RoleManager),
				auditLogsHandler.List,
			)
		}
	}
}
