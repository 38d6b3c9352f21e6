package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/visit"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/service"
)

type VisitHandler struct {
	svc *service.VisitService
	log *zap.Logger
}

func NewVisitHandler(svc *service.VisitService, log *zap.Logger) *VisitHandler {
	return &VisitHandler{svc: svc, log: log}
}

type procedureRequest struct {
	Hcpcs       string          `json:"hcpcs"`
	Description string          `json:"description"`
	StatusCode  string          `json:"status_code"`
	WorkRvu     decimal.Decimal `json:"work_rvu"`
	Quantity    int             `json:"quantity"`
}

type visitRequest struct {
	Date       string             `json:"date"`
	Time       *string            `json:"time"`
	Notes      string             `json:"notes"`
	IsNoShow   bool               `json:"is_no_show"`
	Procedures []procedureRequest `json:"procedures"`
}

func (r visitRequest) toProcedureInputs() []visit.ProcedureInput {
	inputs := make([]visit.ProcedureInput, 0, len(r.Procedures))
	for _, p := range r.Procedures {
		inputs = append(inputs, visit.ProcedureInput{
			Hcpcs:       p.Hcpcs,
			Description: p.Description,
			StatusCode:  p.StatusCode,
			WorkRvu:     p.WorkRvu,
			Quantity:    p.Quantity,
		})
	}
	return inputs
}

// Create handles POST /visits.
func (h *VisitHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req visitRequest
	if !bindJSON(c, &req) {
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		if req.Date == "" {
			respondServiceError(c, visit.ErrDateRequired)
		} else {
			respondError(c, http.StatusBadRequest, "invalid date: must be YYYY-MM-DD")
		}
		return
	}

	v, err := h.svc.Create(c.Request.Context(), visit.CreateVisitCommand{
		UserID:     userID,
		Date:       date,
		Time:       req.Time,
		Notes:      req.Notes,
		IsNoShow:   req.IsNoShow,
		Procedures: req.toProcedureInputs(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, v)
}

// List handles GET /visits.
func (h *VisitHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	visits, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, visits)
}

// Update handles PUT /visits/:id.
func (h *VisitHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req visitRequest
	if !bindJSON(c, &req) {
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		if req.Date == "" {
			respondServiceError(c, visit.ErrDateRequired)
		} else {
			respondError(c, http.StatusBadRequest, "invalid date: must be YYYY-MM-DD")
		}
		return
	}

	v, err := h.svc.Update(c.Request.Context(), visit.UpdateVisitCommand{
		ID:         id,
		UserID:     userID,
		Date:       date,
		Time:       req.Time,
		Notes:      req.Notes,
		IsNoShow:   req.IsNoShow,
		Procedures: req.toProcedureInputs(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, v)
}

// Delete handles DELETE /visits/:id.
func (h *VisitHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
