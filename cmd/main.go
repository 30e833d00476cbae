package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "garage_monitor/docs"
	"garage_monitor/internal/config"
	"garage_monitor/internal/handlers"
	"garage_monitor/internal/logger"
	"garage_monitor/internal/notify"
	"garage_monitor/internal/repository"
	"garage_monitor/internal/repository/db"
	"garage_monitor/internal/server"
	"garage_monitor/internal/service"
	"garage_monitor/internal/shelly"
)

const shutdownTimeout = 10 * time.Second

// @title                       Garage Monitor API
// @version                     1.0
// @description                 Door state and notification journal of the garage door monitor.
// @BasePath                    /
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	// load configs/config.yml + environment
	s, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(s.LogLevel)

	// open DB
	conn, err := openDB(s.DBPath, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", s.DBPath)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	notifier, err := notify.New(s.Notifier)
	if err != nil {
		log.Fatalw("failed to init notifier", "err", err, "provider", s.Notifier.Provider)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(s, repos, shelly.NewClient(s.Device), notifier, log)

	// cancelled on SIGINT/SIGTERM; only interrupts the sleep between cycles
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &server.Server{}
	if s.HTTP.Port != "" {
		if s.HTTP.APIKey == "" {
			log.Warnw("http_api_key not set; status API is open", "port", s.HTTP.Port)
		}
		apiHandler := handlers.NewHandler(services, s.HTTP.APIKey, log)
		runHTTPServer(srv, s.HTTP.Port, apiHandler, log)
	}

	services.Watcher.Run(ctx)

	shutdown(srv, log)
}

// openDB initializes the SQLite journal.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening journal", "path", path)
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("status api listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// shutdown lets in-flight requests complete.
func shutdown(srv *server.Server, log *logger.Logger) {
	log.Infow("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
