package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

// SubmitFeedbackRequest is the request body for POST /events/{eventID}/feedback.
type SubmitFeedbackRequest struct {
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	Comment     string `json:"comment" validate:"max=500"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// FeedbackSuccessResponse is the success response envelope for POST /events/{eventID}/feedback (201).
type FeedbackSuccessResponse struct {
	Data  *domain.Feedback  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListFeedbackSuccessResponse is the success response envelope for GET /events/{eventID}/feedback (200).
type ListFeedbackSuccessResponse struct {
	Data  []*domain.Feedback `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// FeedbackController handles event ratings.
type FeedbackController struct {
	Logger  *slog.Logger
	Service domain.FeedbackService
}

// NewFeedbackController creates a FeedbackController with the given logger and service.
func NewFeedbackController(logger *slog.Logger, svc domain.FeedbackService) *FeedbackController {
	return &FeedbackController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitFeedback godoc
// @Summary Rate an event
// @Description Submit or replace the caller's rating (1-5) and comment for an event. The event's average rating is recomputed.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} controllers.FeedbackSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/feedback [post]
func (c *FeedbackController) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req SubmitFeedbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	feedback, err := c.Service.SubmitFeedback(r.Context(), &domain.Feedback{
		UserID:      userID,
		EventID:     eventID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, feedback)
}

// ListFeedback godoc
// @Summary List event feedback
// @Description List an event's feedback, newest first. Anonymous entries omit the author.
// @Tags feedback
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListFeedbackSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/feedback [get]
func (c *FeedbackController) ListFeedback(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	feedback, err := c.Service.ListFeedback(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if feedback == nil {
		feedback = []*domain.Feedback{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, feedback)
}
