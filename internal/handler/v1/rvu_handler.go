package v1

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/cache"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/rvucode"
)

// ReferenceCache is the slice of the RVU cache the HTTP layer needs.
type ReferenceCache interface {
	GetAll(ctx context.Context) ([]rvucode.ReferenceCode, error)
	Search(ctx context.Context, query string, limit int) ([]rvucode.ReferenceCode, error)
	Lookup(hcpcs string) (rvucode.ReferenceCode, bool)
	ForceRefresh(ctx context.Context) error
	Stats() cache.Stats
}

type RVUHandler struct {
	cache       ReferenceCache
	searchLimit int
	log         *zap.Logger
}

func NewRVUHandler(cache ReferenceCache, searchLimit int, log *zap.Logger) *RVUHandler {
	return &RVUHandler{cache: cache, searchLimit: searchLimit, log: log}
}

// Search handles GET /rvu/search?q=<term>&limit=<n>.
func (h *RVUHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, http.StatusBadRequest, "Missing required query parameter: q")
		return
	}

	limit := parseQueryInt(c, "limit", h.searchLimit)

	codes, err := h.cache.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.log.Error("rvu search failed", zap.Error(err), zap.String("query", query))
		respondError(c, http.StatusInternalServerError, "reference data is unavailable")
		return
	}

	h.setCacheHeaders(c)
	respondOK(c, codes)
}

// Lookup handles GET /rvu/codes/:hcpcs.
func (h *RVUHandler) Lookup(c *gin.Context) {
	hcpcs := strings.ToUpper(strings.TrimSpace(c.Param("hcpcs")))

	code, ok := h.cache.Lookup(hcpcs)
	if !ok {
		respondServiceError(c, rvucode.ErrCodeNotFound)
		return
	}

	h.setCacheHeaders(c)
	respondOK(c, code)
}

// Warmup handles GET /rvu/warmup. It pulls the snapshot through GetAll so a
// cold or expired cache loads now instead of on the first user search, and
// reports how long that took.
func (h *RVUHandler) Warmup(c *gin.Context) {
	start := time.Now()
	if _, err := h.cache.GetAll(c.Request.Context()); err != nil {
		h.log.Error("rvu cache warmup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cache warmup failed")
		return
	}

	st := h.cache.Stats()
	respondOK(c, gin.H{
		"total_codes":  st.TotalCodes,
		"load_time_ms": time.Since(start).Milliseconds(),
		"cache_age_ms": st.CacheAge.Milliseconds(),
	})
}

// Refresh handles POST /rvu/refresh. Unlike warmup it discards a fresh
// snapshot too, for pushing a new reference release without waiting out the
// TTL.
func (h *RVUHandler) Refresh(c *gin.Context) {
	if err := h.cache.ForceRefresh(c.Request.Context()); err != nil {
		h.log.Error("rvu cache refresh failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "cache refresh failed")
		return
	}

	respondOK(c, h.cache.Stats())
}

// Stats handles GET /rvu/stats.
func (h *RVUHandler) Stats(c *gin.Context) {
	st := h.cache.Stats()
	respondOK(c, gin.H{
		"total_codes":  st.TotalCodes,
		"cache_age_ms": st.CacheAge.Milliseconds(),
		"is_loading":   st.IsLoading,
	})
}

func (h *RVUHandler) setCacheHeaders(c *gin.Context) {
	st := h.cache.Stats()
	c.Header("X-Cache-Total", strconv.Itoa(st.TotalCodes))
	c.Header("X-Cache-Age", strconv.FormatInt(st.CacheAge.Milliseconds(), 10))
}
