package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutorlane/tutor-dash-api/internal/dto"
	"github.com/tutorlane/tutor-dash-api/internal/models"
	"github.com/tutorlane/tutor-dash-api/internal/schedule"
	"github.com/tutorlane/tutor-dash-api/internal/service"
	appErrors "github.com/tutorlane/tutor-dash-api/pkg/errors"
	"github.com/tutorlane/tutor-dash-api/pkg/response"
)

type dashboardStore interface {
	Buckets(ctx context.Context) (*service.LessonBuckets, bool, error)
	MonthSlots() []schedule.Slot
	SelectMonth(ctx context.Context, index int) error
	SelectRange(ctx context.Context, start, end time.Time) error
	ClearFilter(ctx context.Context)
	Selection() models.FilterSelection
}

// DashboardHandler exposes the bucket view and the filter selection.
type DashboardHandler struct {
	store dashboardStore
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(store dashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// Buckets godoc
// @Summary Dashboard buckets honoring the active filter selection
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Buckets(c *gin.Context) {
	buckets, cacheHit, err := h.store.Buckets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := dto.DashboardResponse{
		Today:     buckets.Today,
		Available: buckets.Available,
		Upcoming:  buckets.Upcoming,
		Historic:  buckets.Historic,
		Filter:    h.store.Selection(),
	}
	response.JSON(c, http.StatusOK, payload, map[string]interface{}{"cache_hit": cacheHit})
}

// Months godoc
// @Summary The 12-slot month picker window with availability flags
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/months [get]
func (h *DashboardHandler) Months(c *gin.Context) {
	slots := h.store.MonthSlots()

	payload := dto.MonthWindowResponse{Slots: make([]dto.MonthSlot, 0, len(slots))}
	for _, slot := range slots {
		payload.Slots = append(payload.Slots, dto.MonthSlot{
			Index:   slot.Index,
			Key:     slot.Key,
			Start:   slot.Range.Start,
			End:     slot.Range.End,
			HasData: slot.HasData,
			Current: slot.Current,
		})
	}
	response.JSON(c, http.StatusOK, payload)
}

// SetFilter godoc
// @Summary Select the month slot or an explicit date range (mutually exclusive)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param payload body dto.FilterUpdateRequest true "Filter payload"
// @Success 200 {object} response.Envelope
// @Router /dashboard/filter [put]
func (h *DashboardHandler) SetFilter(c *gin.Context) {
	var req dto.FilterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	hasMonth := req.MonthIndex != nil
	hasRange := req.Start != nil || req.End != nil

	switch {
	case hasMonth && hasRange:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month index and date range are mutually exclusive"))
		return
	case hasMonth:
		if err := h.store.SelectMonth(c.Request.Context(), *req.MonthIndex); err != nil {
			response.Error(c, err)
			return
		}
	case hasRange:
		if req.Start == nil || req.End == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start and end must be supplied together"))
			return
		}
		if err := h.store.SelectRange(c.Request.Context(), *req.Start, *req.End); err != nil {
			response.Error(c, err)
			return
		}
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "either monthIndex or a date range is required"))
		return
	}

	response.JSON(c, http.StatusOK, h.store.Selection())
}

// ClearFilter godoc
// @Summary Clear the filter selection
// @Tags Dashboard
// @Produce json
// @Success 204
// @Router /dashboard/filter [delete]
func (h *DashboardHandler) ClearFilter(c *gin.Context) {
	h.store.ClearFilter(c.Request.Context())
	response.NoContent(c)
}
