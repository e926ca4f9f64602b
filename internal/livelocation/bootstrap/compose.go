package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"foodshare/internal/livelocation/adapter/in/in_ws"
	"foodshare/internal/livelocation/adapter/out/out_amqp"
	"foodshare/internal/livelocation/adapter/out/repo"
	"foodshare/internal/livelocation/hub"
	"foodshare/internal/shared/config"
	db_conn "foodshare/internal/shared/db"
	"foodshare/internal/shared/logger"
	"foodshare/internal/shared/mq"
)

// Run собирает и запускает Location Service: hub live-локаций с TTL
// sweeper-ом, WebSocket endpoint и зеркалирование потока в RabbitMQ.
// Блокируется до отмены ctx.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "location_service_starting", Message: "initializing location service"})

	// PostgreSQL нужен только для чтения донаций и пользователей
	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

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

	lookup := repo.NewDonationLookupPg(dbPool, log)
	locationPublisher := out_amqp.NewAmqpLocationPublisher(mqConn, log)

	locationHub := hub.NewLiveLocationHub(lookup, locationPublisher, cfg.Sweep.LocationTTL, log)
	go locationHub.RunSweeper(ctx, cfg.Sweep.LocationSweepInterval)

	wsHandler := in_ws.NewLocationWSHandler(locationHub, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/ws/location", wsHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Services.LocationServicePort)
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
	log.Info(logger.Entry{Action: "location_service_stopping", Message: "shutting down location service"})

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

	log.Info(logger.Entry{Action: "location_service_stopped", Message: "location service stopped"})
}
