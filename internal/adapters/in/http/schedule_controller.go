package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/hospital-schedule-viewer/internal/config"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/in"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
	"github.com/suchimauz/hospital-schedule-viewer/internal/utils"
)

type ScheduleController struct {
	useCase   in.ScheduleUseCase
	exporters []out.ScheduleExporterPort
	cfg       *config.Config
	logger    out.LoggerPort
	now       func() time.Time
}

func NewScheduleController(
	useCase in.ScheduleUseCase,
	exporters []out.ScheduleExporterPort,
	cfg *config.Config,
	logger out.LoggerPort,
) *ScheduleController {
	return &ScheduleController{
		useCase:   useCase,
		exporters: exporters,
		cfg:       cfg,
		logger:    logger.WithModule("ScheduleController"),
		now:       time.Now,
	}
}

func (c *ScheduleController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(basicAuth(c.cfg))
	{
		api.GET("/doctors", c.listDoctors)
		api.GET("/doctors/:doctorId", c.getDoctor)
		api.GET("/doctors/:doctorId/schedule/day", c.daySchedule)
		api.GET("/doctors/:doctorId/schedule/week", c.weekSchedule)
		for _, exporter := range c.exporters {
			api.GET("/doctors/:doctorId/schedule/week."+exporter.FileExtension(), c.exportWeek(exporter))
		}
		api.GET("/schedule/day", c.multiDoctorDay)
		api.GET("/appointments", c.searchAppointments)
		api.GET("/appointments/:appointmentId", c.getAppointment)
	}
}

func (c *ScheduleController) listDoctors(ctx *gin.Context) {
	doctors, err := c.useCase.ListDoctors(ctx.Request.Context())
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

func (c *ScheduleController) getDoctor(ctx *gin.Context) {
	doctor, err := c.useCase.GetDoctor(ctx.Request.Context(), ctx.Param("doctorId"))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, doctor)
}

// Сбой загрузки не превращается в HTTP-ошибку: расписание отдается с полем error
func (c *ScheduleController) daySchedule(ctx *gin.Context) {
	date, err := c.dateQuery(ctx, "date")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	now := c.now().In(date.Location())
	if raw := ctx.Query("now"); raw != "" {
		now, err = utils.ParseDate(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid now format"})
			return
		}
	}

	doctorID := ctx.Param("doctorId")
	schedule := c.useCase.AssembleDay(ctx.Request.Context(), doctorID, date)

	ctx.JSON(http.StatusOK, gin.H{
		"schedule":  schedule,
		"indicator": c.useCase.CurrentTimeIndicator(ctx.Request.Context(), doctorID, now, date),
	})
}

func (c *ScheduleController) weekSchedule(ctx *gin.Context) {
	date, err := c.dateQuery(ctx, "date")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	schedule := c.useCase.AssembleWeek(ctx.Request.Context(), ctx.Param("doctorId"), date)

	ctx.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func (c *ScheduleController) exportWeek(exporter out.ScheduleExporterPort) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		date, err := c.dateQuery(ctx, "date")
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}

		doctor, err := c.useCase.GetDoctor(ctx.Request.Context(), ctx.Param("doctorId"))
		if err != nil {
			c.writeError(ctx, err)
			return
		}

		week := c.useCase.AssembleWeek(ctx.Request.Context(), doctor.ID, date)
		if week.Error != "" {
			ctx.JSON(http.StatusBadGateway, gin.H{"error": week.Error})
			return
		}

		data, err := exporter.ExportWeek(week, *doctor)
		if err != nil {
			c.logger.Error("http.export.failed", out.LogFields{
				"doctorId": doctor.ID,
				"format":   exporter.FileExtension(),
				"error":    err.Error(),
			})
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		filename := fmt.Sprintf("schedule-%s-%s.%s", doctor.ID, week.Range.Start.Format("2006-01-02"), exporter.FileExtension())
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Data(http.StatusOK, exporter.ContentType(), data)
	}
}

func (c *ScheduleController) multiDoctorDay(ctx *gin.Context) {
	doctorIDs := splitList(ctx.Query("doctors"))
	if len(doctorIDs) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "At least one doctor is required"})
		return
	}

	date, err := c.dateQuery(ctx, "date")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	schedules := c.useCase.AssembleMultiDoctorDay(ctx.Request.Context(), doctorIDs, date)

	ctx.JSON(http.StatusOK, gin.H{
		"date":      utils.StartCurrentDay(date).Format("2006-01-02"),
		"schedules": schedules,
	})
}

type SearchAppointmentsQuery struct {
	PatientName string `form:"q"`
	Category    string `form:"category"`
	DoctorID    string `form:"doctorId"`
	From        string `form:"from"`
	To          string `form:"to"`
}

func (c *ScheduleController) searchAppointments(ctx *gin.Context) {
	var query SearchAppointmentsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := domain.AppointmentFilter{
		DoctorID:    query.DoctorID,
		PatientName: query.PatientName,
	}

	if query.Category != "" {
		category, ok := parseCategory(query.Category)
		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		filter.Category = category
	}

	var err error
	if query.From != "" {
		if filter.From, err = utils.ParseDate(query.From); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date format"})
			return
		}
	}
	if query.To != "" {
		if filter.To, err = utils.ParseDate(query.To); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date format"})
			return
		}
	}

	appointments, err := c.useCase.SearchAppointments(ctx.Request.Context(), filter)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

func (c *ScheduleController) getAppointment(ctx *gin.Context) {
	details, err := c.useCase.GetAppointmentDetails(ctx.Request.Context(), ctx.Param("appointmentId"))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, details)
}

// dateQuery читает дату из query, по умолчанию — сегодня в таймзоне клиники
func (c *ScheduleController) dateQuery(ctx *gin.Context, key string) (time.Time, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return c.now().In(config.TimeZone), nil
	}
	return utils.ParseDate(raw)
}

func (c *ScheduleController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAppointment),
		errors.Is(err, domain.ErrInvalidResource),
		errors.Is(err, domain.ErrInvalidTimeSlot):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.logger.Error("http.request.failed", out.LogFields{
			"path":  ctx.FullPath(),
			"error": err.Error(),
		})
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseCategory(raw string) (domain.AppointmentCategory, bool) {
	category := domain.AppointmentCategory(strings.ToLower(raw))
	switch category {
	case domain.AppointmentCategoryFollowUp,
		domain.AppointmentCategoryCheckup,
		domain.AppointmentCategoryConsultation,
		domain.AppointmentCategoryProcedure,
		domain.AppointmentCategoryDefault:
		return category, true
	}
	return "", false
}

func splitList(raw string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
