package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"foodshare/internal/donation/adapter/in/transport"
	"foodshare/internal/donation/adapter/out/notify"
	"foodshare/internal/donation/adapter/out/out_amqp"
	"foodshare/internal/donation/adapter/out/repo"
	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/application/usecase"
	"foodshare/internal/shared/auth"
	"foodshare/internal/shared/config"
	db_conn "foodshare/internal/shared/db"
	"foodshare/internal/shared/logger"
	"foodshare/internal/shared/mq"
	"foodshare/internal/shared/user"
	"foodshare/internal/shared/ws"
)

// Run собирает и запускает Donation Service: PostgreSQL, RabbitMQ,
// WebSocket hub для уведомлений, REST API и фоновый sweeper истечения
// донаций. Блокируется до отмены ctx.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "donation_service_starting", Message: "initializing donation service"})

	// Инфраструктура: PostgreSQL
	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	if err := db_conn.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// Инфраструктура: RabbitMQ
	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(mqConn); err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// WebSocket hub: push уведомлений донорам и получателям
	wsHub := ws.NewHub(jwtService.ExtractUserID, log)
	go wsHub.Run(ctx)

	// Репозитории
	userRepo := user.NewPgRepository(dbPool, log)
	donationRepo := repo.NewDonationPgRepository(dbPool, log)
	requestRepo := repo.NewRequestPgRepository(dbPool, log)
	statsRepo := repo.NewStatsPgRepository(dbPool, log)
	notificationStore := notify.NewNotificationPgStore(dbPool, log)

	// Исходящие адаптеры
	eventPublisher := out_amqp.NewDonationEventPublisher(mqConn, log)
	notifier := notify.NewPgWsNotificationRelay(dbPool, wsHub, log)

	// Use cases
	uc := transport.UseCases{
		CreateDonation:       usecase.NewCreateDonationService(donationRepo, eventPublisher, log),
		RequestFood:          usecase.NewRequestFoodService(donationRepo, requestRepo, eventPublisher, notifier, log),
		AcceptRequest:        usecase.NewAcceptRequestService(donationRepo, requestRepo, eventPublisher, notifier, log),
		RejectRequest:        usecase.NewRejectRequestService(donationRepo, requestRepo, eventPublisher, notifier, log),
		CompleteRequest:      usecase.NewCompleteRequestService(donationRepo, requestRepo, eventPublisher, notifier, log),
		CancelRequest:        usecase.NewCancelRequestService(donationRepo, requestRepo, eventPublisher, notifier, log),
		GetDonations:         usecase.NewGetDonationsService(donationRepo, log),
		GetDonation:          usecase.NewGetDonationService(donationRepo, requestRepo, log),
		GetMyDonations:       usecase.NewGetMyDonationsService(donationRepo, log),
		GetMyRequests:        usecase.NewGetMyRequestsService(requestRepo, log),
		GetNotifications:     usecase.NewGetNotificationsService(notificationStore, log),
		MarkNotificationRead: usecase.NewMarkNotificationReadService(notificationStore, log),
		GetOverview:          usecase.NewGetOverviewService(statsRepo, log),
	}

	expireUC := usecase.NewExpireDonationsService(donationRepo, eventPublisher, notifier, log)

	// Фоновый sweeper: переводит просроченные донации в expired
	go runExpirySweeper(ctx, expireUC, cfg.Sweep.DonationExpiryInterval, log)

	// HTTP сервер
	httpHandler := transport.NewHTTPHandler(uc, log)

	mux := http.NewServeMux()
	authMiddleware := transport.JWTMiddleware(jwtService, userRepo, log)
	httpHandler.RegisterRoutes(mux, authMiddleware)

	// WebSocket endpoint для real-time уведомлений
	mux.HandleFunc("/ws", wsHub.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Services.DonationServicePort)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{
			Action:  "http_server_starting",
			Message: fmt.Sprintf("listening on %s", addr),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(logger.Entry{
				Action:  "http_server_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "donation_service_stopping", Message: "shutting down donation service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	} else {
		log.Info(logger.Entry{Action: "http_server_stopped", Message: "http server stopped gracefully"})
	}

	log.Info(logger.Entry{Action: "donation_service_stopped", Message: "donation service stopped"})
}

// runExpirySweeper периодически запускает use case истечения донаций
func runExpirySweeper(ctx context.Context, expireUC in.ExpireDonationsUseCase, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(logger.Entry{
		Action:  "expiry_sweeper_started",
		Message: fmt.Sprintf("interval %s", interval),
	})

	for {
		select {
		case <-ctx.Done():
			log.Info(logger.Entry{Action: "expiry_sweeper_stopped", Message: "expiry sweeper stopped"})
			return
		case now := <-ticker.C:
			if _, err := expireUC.Execute(ctx, in.ExpireDonationsInput{Now: now.UTC()}); err != nil {
				log.Error(logger.Entry{
					Action:  "expiry_sweep_failed",
					Message: err.Error(),
					Error:   &logger.ErrObj{Msg: err.Error()},
				})
			}
		}
	}
}
