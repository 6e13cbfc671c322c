package controllers

import (
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

// NotificationList is the data of GET /notifications.
type NotificationList struct {
	Items      []*domain.Notification `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// NotificationListSuccessResponse is the success response envelope for GET /notifications (200).
type NotificationListSuccessResponse struct {
	Data  NotificationList  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// NotificationSuccessResponse is the success response envelope for PATCH /notifications/{notificationID}/read (200).
type NotificationSuccessResponse struct {
	Data  *domain.Notification `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// NotificationController serves the caller's notification inbox.
type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

// NewNotificationController creates a NotificationController with the given logger and service.
func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Description List the caller's notifications, newest first.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.NotificationListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	items, total, err := c.Service.List(r.Context(), userID, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NotificationList{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationID path string true "Notification ID"
// @Success 200 {object} controllers.NotificationSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/{notificationID}/read [patch]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("notificationID")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "notificationID is required")
		return
	}
	n, err := c.Service.MarkRead(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, n)
}
