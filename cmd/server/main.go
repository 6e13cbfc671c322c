package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"campusevents/config"
	_ "campusevents/docs"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/email"
	"campusevents/internal/adapters/ical"
	"campusevents/internal/adapters/icsfetch"
	"campusevents/internal/adapters/push"
	"campusevents/internal/adapters/qr"
	httpdelivery "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
	mongorepo "campusevents/internal/repository/mongo"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title Campus Events API
// @version 1.0
// @description Campus events with RSVP approval, QR check-in, feedback, calendar import/export, and live notifications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	notificationRepo, closeStore, err := notificationStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer)

	hub := push.NewHub(cfg.AllowedOrigins, logger)
	defer hub.Close()

	timeout := cfg.ContextTimeout
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	notifier := services.NewNotificationService(
		notificationRepo,
		services.NewFanoutDispatcher(hub, services.NewEmailDispatcher(emailService, userRepo)),
		logger, timeout,
	)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(auth.DefaultBcryptCost), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry, emailService, logger, timeout)
	userService := services.NewUserService(userRepo, timeout)
	eventService := services.NewEventService(eventRepo, notifier, logger, timeout)
	rsvpService := services.NewRSVPService(eventRepo, rsvpRepo, userRepo, notifier, logger, timeout)
	checkinService := services.NewCheckinService(eventRepo, attendeeRepo, auth.NewCheckinTokenCodec(cfg.CheckinSecret), qr.NewRenderer(), timeout)
	feedbackService := services.NewFeedbackService(eventRepo, feedbackRepo, timeout)
	calendarService := services.NewCalendarService(eventRepo, ical.NewCodec(), icsfetch.NewHTTPFetcher(nil), timeout)

	if cfg.AdminEmail != "" {
		admin, created, err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("admin account created", "email", admin.Email)
		}
	}

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		User:         controllers.NewUserController(logger, userService),
		Event:        controllers.NewEventController(logger, eventService),
		RSVP:         controllers.NewRSVPController(logger, rsvpService),
		Checkin:      controllers.NewCheckinController(logger, checkinService),
		Feedback:     controllers.NewFeedbackController(logger, feedbackService),
		Calendar:     controllers.NewCalendarController(logger, calendarService),
		Notification: controllers.NewNotificationController(logger, notifier),
		WS:           controllers.NewWSController(logger, hub),
	}, verifier, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "notification_store", cfg.NotificationStore)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	// Hijacked WebSocket connections are not closed by Shutdown.
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// notificationStore returns the configured notification repository and a
// function releasing its resources.
func notificationStore(ctx context.Context, cfg *config.Config, db *sql.DB) (domain.NotificationRepository, func(), error) {
	if cfg.NotificationStore != "mongo" {
		return postgres.NewNotificationRepository(db), func() {}, nil
	}
	mdb, err := mongorepo.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mdb.Client().Disconnect(ctx)
	}
	if err := mongorepo.EnsureIndexes(ctx, mdb); err != nil {
		closeFn()
		return nil, nil, err
	}
	return mongorepo.NewNotificationRepository(mdb), closeFn, nil
}
