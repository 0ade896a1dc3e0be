package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoapi "github.com/trezcool/akademi/apps/api/echo"
	"github.com/trezcool/akademi/apps/shared"
	"github.com/trezcool/akademi/core"
	appfs "github.com/trezcool/akademi/fs"
	certsvc "github.com/trezcool/akademi/services/certificate"
	emailsvc "github.com/trezcool/akademi/services/email"
	logsvc "github.com/trezcool/akademi/services/logger"
	schedulersvc "github.com/trezcool/akademi/services/scheduler"
	"github.com/trezcool/akademi/storage/database"
	kvstore "github.com/trezcool/akademi/storage/kv"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// set up loggers
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	defer logger.Close()
	dbLogger := logger.Named("DB : ")
	jobLogger := logger.Named("JOBS : ")

	// set up DB
	var db *sqlx.DB
	if !conf.Database.InMemory() {
		var err error
		if db, err = setUpDB(ctx, conf); err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
	}

	// set up key-value store
	var kv core.KVStore = kvstore.NewMemoryStore()
	if conf.Redis.Address != "" {
		redis, err := kvstore.OpenRedis(ctx, conf.Redis)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up redis: %v", err), err)
		}
		defer func() { _ = redis.Close() }()
		kv = redis
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	certificates, err := certsvc.NewRenderer()
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading certificate fonts: %v", err), err)
	}

	hub := echoapi.NewHub(logger)
	go hub.Run(ctx)

	svcs, err := shared.NewServices(ctx, conf, shared.Backends{
		DB:           db,
		KV:           kv,
		Mailer:       mailSvc,
		Certificates: certificates,
		Publisher:    hub,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(appfs.FS, conf, logger)

	if db == nil {
		counts, err := svcs.Seed(ctx)
		if err != nil {
			logger.Fatal(fmt.Sprintf("seeding in-memory data: %v", err), err)
		}
		logger.Info("seeded in-memory data", counts)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics of the default registry.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Jobs

	jobs := schedulersvc.New(jobLogger)
	if _, err = jobs.AddPurge("notifications", conf.Notifications.PurgeSchedule, svcs.Notifications, conf.Notifications.Retention); err != nil {
		logger.Fatal(fmt.Sprintf("scheduling jobs: %v", err), err)
	}
	jobs.Start()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:     conf,
		Logger:   logger,
		Services: svcs,
		Hub:      hub,
		Registry: prometheus.DefaultRegisterer,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	}

	// give outstanding requests and jobs a deadline for completion
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err = jobs.Stop(shutdownCtx); err != nil {
		jobLogger.Error("could not stop jobs gracefully", err)
	}

	// asking listener to shutdown and shed load
	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

		if err = server.Close(); err != nil {
			logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
		}
	}
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
