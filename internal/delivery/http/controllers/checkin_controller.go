package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

// CheckinRequest is the request body for POST /events/{eventID}/checkin.
type CheckinRequest struct {
	QRData string `json:"qr_data" validate:"required"`
}

// CheckinPassSuccessResponse is the success response envelope for GET /events/{eventID}/qr (200).
type CheckinPassSuccessResponse struct {
	Data  *domain.CheckinPass `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CheckinSuccessResponse is the success response envelope for POST /events/{eventID}/checkin (200).
type CheckinSuccessResponse struct {
	Data  *domain.Attendee  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CheckinController issues check-in QR codes and redeems them.
type CheckinController struct {
	Logger  *slog.Logger
	Service domain.CheckinService
}

// NewCheckinController creates a CheckinController with the given logger and service.
func NewCheckinController(logger *slog.Logger, svc domain.CheckinService) *CheckinController {
	return &CheckinController{
		Logger:  logger,
		Service: svc,
	}
}

// GetQRCode godoc
// @Summary Get check-in QR code
// @Description Issue the caller's check-in token for a confirmed RSVP. The QR code is returned as a PNG data URL, or as a raw image with format=png.
// @Tags checkin
// @Produce json
// @Produce png
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param format query string false "png to receive the image itself"
// @Success 200 {object} controllers.CheckinPassSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/qr [get]
func (c *CheckinController) GetQRCode(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	pass, err := c.Service.IssueCheckinToken(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if r.URL.Query().Get("format") == "png" {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(pass.PNG)))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pass.PNG)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pass)
}

// Checkin godoc
// @Summary Check in
// @Description Redeem a check-in token scanned from a QR code. Each user checks in at most once per event.
// @Tags checkin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CheckinRequest true "Scanned token"
// @Success 200 {object} controllers.CheckinSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, invalid_token or already_checked_in"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/checkin [post]
func (c *CheckinController) Checkin(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req CheckinRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	attendee, err := c.Service.Checkin(r.Context(), eventID, req.QRData)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, attendee)
}
