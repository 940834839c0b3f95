package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/incidentia/helpdesk/internal/api/http"
	"github.com/incidentia/helpdesk/internal/api/http/handlers"
	"github.com/incidentia/helpdesk/internal/auth"
	"github.com/incidentia/helpdesk/internal/config"
	"github.com/incidentia/helpdesk/internal/events"
	"github.com/incidentia/helpdesk/internal/observability"
	"github.com/incidentia/helpdesk/internal/persistence"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/internal/service"
	"github.com/incidentia/helpdesk/internal/verify"
	"github.com/incidentia/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewStatusHistoryRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	deviceTypeRepo := repository.NewDeviceTypeRepository(pool)
	deviceRepo := repository.NewDeviceRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	codeStore := verify.NewRedisCodeStore(redis.Client, "password-reset",
		time.Duration(cfg.Auth.ResetCodeTTLMinutes)*time.Minute)
	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewEventNotifier(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notifier)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  userRepo,
		CodeStore: codeStore,
		Deliverer: notifier,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	historyService := service.NewStatusHistoryService(historyRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		DB:         pool,
		TicketRepo: ticketRepo,
		History:    historyService,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(pool, notificationRepo)
	commentService := service.NewCommentService(service.CommentDependencies{
		TicketRepo:    ticketRepo,
		CommentRepo:   commentRepo,
		Notifications: notificationService,
		Dispatcher:    dispatcher,
	})
	departmentService := service.NewDepartmentService(departmentRepo)
	deviceService := service.NewDeviceService(deviceRepo, deviceTypeRepo)
	userService := service.NewUserService(userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, historyService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		Devices:        handlers.NewDevicesHandler(deviceService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
