package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutorlane/tutor-dash-api/internal/dto"
	"github.com/tutorlane/tutor-dash-api/internal/models"
	"github.com/tutorlane/tutor-dash-api/internal/schedule"
	"github.com/tutorlane/tutor-dash-api/internal/service"
	appErrors "github.com/tutorlane/tutor-dash-api/pkg/errors"
	"github.com/tutorlane/tutor-dash-api/pkg/response"
)

type lessonStore interface {
	FetchAll(ctx context.Context) error
	Claim(ctx context.Context, lessonID, tutorName string) (models.Lesson, error)
	Derive(sel schedule.Selector, rng *models.DateRange) []models.Lesson
	Snapshot() service.StoreSnapshot
}

type lessonExporter interface {
	Render(lessons []models.Lesson, format string) ([]byte, string, error)
}

// LessonHandler exposes the lesson collection: listing, refresh, claim and
// export.
type LessonHandler struct {
	store    lessonStore
	exporter lessonExporter
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(store lessonStore, exporter lessonExporter) *LessonHandler {
	return &LessonHandler{store: store, exporter: exporter}
}

// List godoc
// @Summary List lessons filtered by type, today, or date range
// @Tags Lessons
// @Produce json
// @Param filter query string false "Today, Historic, Upcoming or Available"
// @Param start query string false "Range start (RFC3339)"
// @Param end query string false "Range end (RFC3339)"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	sel, rng, err := parseListQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	lessons := h.store.Derive(sel, rng)
	response.JSON(c, http.StatusOK, dto.LessonListResponse{Lessons: lessons, Count: len(lessons)})
}

// Refresh godoc
// @Summary Replace the lesson collection from the lesson service
// @Tags Lessons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lessons/refresh [post]
func (h *LessonHandler) Refresh(c *gin.Context) {
	if err := h.store.FetchAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	snap := h.store.Snapshot()
	state := dto.StoreStateResponse{
		Count:     len(snap.Lessons),
		Loading:   string(snap.Loading),
		LastError: snap.LastError,
	}
	if !snap.FetchedAt.IsZero() {
		fetchedAt := snap.FetchedAt
		state.FetchedAt = &fetchedAt
	}
	response.JSON(c, http.StatusOK, state)
}

// Claim godoc
// @Summary Claim an available lesson for the authenticated tutor
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id}/claim [post]
func (h *LessonHandler) Claim(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	lessonID := strings.TrimSpace(c.Param("id"))
	if lessonID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "lesson id is required"))
		return
	}

	lesson, err := h.store.Claim(c.Request.Context(), lessonID, tutorDisplayName(claims))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}

// Export godoc
// @Summary Export the filtered lesson list as CSV or PDF
// @Tags Lessons
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param filter query string false "Today, Historic, Upcoming or Available"
// @Param start query string false "Range start (RFC3339)"
// @Param end query string false "Range end (RFC3339)"
// @Success 200
// @Router /lessons/export [get]
func (h *LessonHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export is disabled"))
		return
	}

	sel, rng, err := parseListQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", service.ExportFormatCSV)
	payload, contentType, err := h.exporter.Render(h.store.Derive(sel, rng), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("lessons-%s.%s", time.Now().Format("2006-01-02"), strings.ToLower(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func parseListQuery(c *gin.Context) (schedule.Selector, *models.DateRange, error) {
	sel, ok := schedule.ParseSelector(c.Query("filter"))
	if !ok {
		return schedule.SelectorNone, nil, appErrors.Clone(appErrors.ErrValidation, "unknown filter value")
	}

	rawStart := c.Query("start")
	rawEnd := c.Query("end")
	if rawStart == "" && rawEnd == "" {
		return sel, nil, nil
	}
	if rawStart == "" || rawEnd == "" {
		return schedule.SelectorNone, nil, appErrors.Clone(appErrors.ErrValidation, "start and end must be supplied together")
	}

	start, err := time.Parse(time.RFC3339, rawStart)
	if err != nil {
		return schedule.SelectorNone, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start")
	}
	end, err := time.Parse(time.RFC3339, rawEnd)
	if err != nil {
		return schedule.SelectorNone, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end")
	}
	if start.After(end) {
		return schedule.SelectorNone, nil, appErrors.Clone(appErrors.ErrValidation, "start must not be after end")
	}

	return sel, &models.DateRange{Start: start, End: end}, nil
}
