package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
	"github.com/jakechorley/staff-rota/pkg/core/services"
	"github.com/jakechorley/staff-rota/pkg/db"
)

// Pinger is implemented by stores that can report their connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// ScheduleHandler handles HTTP requests for schedule operations
type ScheduleHandler struct {
	store  db.Database
	cfg    *config.Config
	logger *zap.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(store db.Database, cfg *config.Config, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Generate handles POST /api/v1/schedules/generate
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	req := services.GenerateScheduleRequest{
		Mode:        model.Mode(body.Mode),
		DryRun:      body.DryRun,
		ForceCommit: body.ForceCommit,
	}

	if body.Month != "" {
		if body.Start != "" || body.End != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": "give either month or start and end"})
			return
		}
		month, err := caldate.ParseMonth(body.Month)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month", "details": err.Error()})
			return
		}
		req.Start, req.End = month.First(), month.Last()
	} else {
		start, end, err := parseRange(body.Start, body.End)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range", "details": err.Error()})
			return
		}
		req.Start, req.End = start, end
	}

	result, err := services.GenerateSchedule(c.Request.Context(), h.store, h.cfg, h.logger, req)
	if err != nil {
		h.respondError(c, "Failed to generate schedule", err)
		return
	}

	c.JSON(http.StatusOK, newGenerateResponse(result))
}

// ListSchedule handles GET /api/v1/schedules?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ScheduleHandler) ListSchedule(c *gin.Context) {
	start, end, err := parseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range", "details": err.Error()})
		return
	}

	view, err := services.ListSchedule(c.Request.Context(), h.store, h.logger, start, end)
	if err != nil {
		h.respondError(c, "Failed to list schedule", err)
		return
	}

	c.JSON(http.StatusOK, newScheduleResponse(view))
}

// Health handles GET /healthz
func (h *ScheduleHandler) Health(c *gin.Context) {
	status := http.StatusOK
	response := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}

	if pinger, ok := h.store.(Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			response["status"] = "unhealthy"
			response["database"] = "error: " + err.Error()
		} else {
			response["database"] = "healthy"
		}
	}

	c.JSON(status, response)
}

// respondError maps bad input to 400 and everything else to 500
func (h *ScheduleHandler) respondError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	if errors.Is(err, services.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}

func parseRange(startStr, endStr string) (caldate.Date, caldate.Date, error) {
	if startStr == "" || endStr == "" {
		return caldate.Date{}, caldate.Date{}, errors.New("start and end are required")
	}
	start, err := caldate.Parse(startStr)
	if err != nil {
		return caldate.Date{}, caldate.Date{}, err
	}
	end, err := caldate.Parse(endStr)
	if err != nil {
		return caldate.Date{}, caldate.Date{}, err
	}
	return start, end, nil
}
