package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
	log *zap.Logger
}

func NewAnalyticsHandler(svc *service.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// Aggregate handles GET /analytics?period=<token>&start=<date>&end=<date>&groupBy=hcpcs.
//
// period defaults to daily. start and end are required inclusive calendar
// dates. Without groupBy the response is one summary row per period; with
// groupBy=hcpcs it is one row per (period, code).
func (h *AnalyticsHandler) Aggregate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	period := c.DefaultQuery("period", "daily")

	startRaw := c.Query("start")
	endRaw := c.Query("end")
	if startRaw == "" || endRaw == "" {
		respondError(c, http.StatusBadRequest, "Missing required query parameters: start and end")
		return
	}

	start, ok := parseDate(startRaw)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid start: must be YYYY-MM-DD")
		return
	}
	end, ok := parseDate(endRaw)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid end: must be YYYY-MM-DD")
		return
	}

	ctx := c.Request.Context()

	if c.Query("groupBy") == "hcpcs" {
		rows, err := h.svc.Breakdown(ctx, userID, period, start, end)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, rows)
		return
	}

	rows, err := h.svc.Summary(ctx, userID, period, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}
