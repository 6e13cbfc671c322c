package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

// ImportCalendarRequest is the request body for POST /events/calendar/import.
// Exactly one of ics_data and url must be set.
type ImportCalendarRequest struct {
	ICSData string `json:"ics_data"`
	URL     string `json:"url" validate:"omitempty,http_url"`
}

// Validate implements Validator.
func (i ImportCalendarRequest) Validate() []string {
	hasData := strings.TrimSpace(i.ICSData) != ""
	hasURL := strings.TrimSpace(i.URL) != ""
	switch {
	case !hasData && !hasURL:
		return []string{"one of ics_data or url is required"}
	case hasData && hasURL:
		return []string{"only one of ics_data or url may be set"}
	}
	return nil
}

// ImportCalendarSuccessResponse is the success response envelope for POST /events/calendar/import (201).
type ImportCalendarSuccessResponse struct {
	Data  *domain.ImportResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CalendarController exports and imports iCalendar documents.
type CalendarController struct {
	Logger  *slog.Logger
	Service domain.CalendarService
}

// NewCalendarController creates a CalendarController with the given logger and service.
func NewCalendarController(logger *slog.Logger, svc domain.CalendarService) *CalendarController {
	return &CalendarController{
		Logger:  logger,
		Service: svc,
	}
}

// ExportEvent godoc
// @Summary Export an event to iCalendar
// @Description Download a single-event .ics file.
// @Tags calendar
// @Produce text/calendar
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {file} file "text/calendar attachment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/calendar/export [get]
func (c *CalendarController) ExportEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	filename, data, err := c.Service.ExportEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportCalendar godoc
// @Summary Import events from iCalendar
// @Description Create one event per VEVENT, from inline ics_data or a calendar url.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ImportCalendarRequest true "Calendar source"
// @Success 201 {object} controllers.ImportCalendarSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/calendar/import [post]
func (c *CalendarController) ImportCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req ImportCalendarRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	var (
		result *domain.ImportResult
		err    error
	)
	if req.URL != "" {
		result, err = c.Service.ImportFromURL(r.Context(), userID, strings.TrimSpace(req.URL))
	} else {
		result, err = c.Service.Import(r.Context(), userID, []byte(req.ICSData))
	}
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}
