package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Event        *controllers.EventController
	RSVP         *controllers.RSVPController
	Checkin      *controllers.CheckinController
	Feedback     *controllers.FeedbackController
	Calendar     *controllers.CalendarController
	Notification *controllers.NotificationController
	WS           *controllers.WSController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAdmin(next))
	}

	// Users
	mux.HandleFunc("POST /users/register", c.Auth.Register)
	mux.HandleFunc("POST /users/login", c.Auth.Login)
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PUT /users/profile", auth(c.User.UpdateProfile))

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEvent)
	mux.HandleFunc("POST /events", admin(c.Event.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", admin(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", admin(c.Event.DeleteEvent))

	// RSVP
	mux.HandleFunc("POST /events/{eventID}/rsvp", auth(c.RSVP.ToggleRSVP))
	mux.HandleFunc("POST /events/{eventID}/rsvp/{userID}/approve", admin(c.RSVP.ApproveOrReject))
	mux.HandleFunc("GET /events/{eventID}/pending-rsvps", admin(c.RSVP.ListPending))

	// Check-in
	mux.HandleFunc("GET /events/{eventID}/qr", auth(c.Checkin.GetQRCode))
	mux.HandleFunc("POST /events/{eventID}/checkin", auth(c.Checkin.Checkin))

	// Feedback
	mux.HandleFunc("POST /events/{eventID}/feedback", auth(c.Feedback.SubmitFeedback))
	mux.HandleFunc("GET /events/{eventID}/feedback", c.Feedback.ListFeedback)

	// Calendar
	mux.HandleFunc("GET /events/{eventID}/calendar/export", auth(c.Calendar.ExportEvent))
	mux.HandleFunc("POST /events/calendar/import", admin(c.Calendar.ImportCalendar))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notification.ListNotifications))
	mux.HandleFunc("PATCH /notifications/{notificationID}/read", auth(c.Notification.MarkRead))
	mux.HandleFunc("GET /ws", auth(c.WS.Connect))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
