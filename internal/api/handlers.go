package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"walsets/internal/engine"
)

// Handler serves the pipeline's computed artifacts to plotting frontends.
// Until SetData is called every endpoint answers 503.
type Handler struct {
	mu   sync.RWMutex
	data *engine.Result
}

func NewHandler(data *engine.Result) *Handler {
	return &Handler{data: data}
}

// SetData swaps in a freshly computed result. Safe to call while serving.
func (h *Handler) SetData(data *engine.Result) {
	h.mu.Lock()
	h.data = data
	h.mu.Unlock()
}

func (h *Handler) result() *engine.Result {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/summary", h.GetSummary)
	api.GET("/indicator", h.GetIndicator)
	api.GET("/intersections", h.GetIntersections)
}

// --- HANDLERS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) GetSummary(c echo.Context) error {
	res := h.result()
	if res == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "data loading")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entities":      res.Table.Rows(),
		"columns":       res.Table.Labels,
		"sets":          res.Sets,
		"intersections": len(res.Intersections),
	})
}

// GetIndicator returns entity rows with joined language metadata, paginated
// via limit/offset query params.
func (h *Handler) GetIndicator(c echo.Context) error {
	res := h.result()
	if res == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "data loading")
	}

	total := res.Table.Rows()
	limit, offset := getPaginationParams(c, total)
	rows := engine.IndicatorRows(res.Table, res.Languages, offset, limit)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   rows,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetIntersections returns the precomputed intersection counts, or recomputes
// them for a comma-separated ?sets= override.
func (h *Handler) GetIntersections(c echo.Context) error {
	res := h.result()
	if res == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "data loading")
	}

	if raw := c.QueryParam("sets"); raw != "" {
		sets := strings.Split(raw, ",")
		for i := range sets {
			sets[i] = strings.TrimSpace(sets[i])
		}
		counts, err := engine.Aggregate(res.Table, sets)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, counts)
	}

	return c.JSON(http.StatusOK, res.Intersections)
}
