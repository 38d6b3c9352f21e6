package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/favorite"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/service"
)

type FavoriteHandler struct {
	svc *service.FavoriteService
	log *zap.Logger
}

func NewFavoriteHandler(svc *service.FavoriteService, log *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{svc: svc, log: log}
}

// List handles GET /favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, favorites)
}

// Add handles POST /favorites.
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Hcpcs     string `json:"hcpcs"`
		SortOrder int    `json:"sort_order"`
	}
	if !bindJSON(c, &req) {
		return
	}

	f, err := h.svc.Add(c.Request.Context(), userID, req.Hcpcs, req.SortOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, f)
}

// Remove handles DELETE /favorites/:hcpcs.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), userID, c.Param("hcpcs")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reorder handles PATCH /favorites/reorder.
func (h *FavoriteHandler) Reorder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Items []favorite.ReorderItem `json:"items"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.Reorder(c.Request.Context(), userID, req.Items); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"reordered": len(req.Items)})
}
