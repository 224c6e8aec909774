// Command server runs the patient management service: a REST API over the
// patient record store with synchronous billing provisioning, asynchronous
// creation events on Kafka, and JWT-protected endpoints.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	authhandler "github.com/shrivathsaJoisa/patient-repository/internal/auth/handler"
	authservice "github.com/shrivathsaJoisa/patient-repository/internal/auth/service"
	authstore "github.com/shrivathsaJoisa/patient-repository/internal/auth/store"
	"github.com/shrivathsaJoisa/patient-repository/internal/billing"
	"github.com/shrivathsaJoisa/patient-repository/internal/events"
	"github.com/shrivathsaJoisa/patient-repository/internal/jwttoken"
	patienthandler "github.com/shrivathsaJoisa/patient-repository/internal/patient/handler"
	patientmetrics "github.com/shrivathsaJoisa/patient-repository/internal/patient/metrics"
	patientservice "github.com/shrivathsaJoisa/patient-repository/internal/patient/service"
	patientstore "github.com/shrivathsaJoisa/patient-repository/internal/patient/store"
	"github.com/shrivathsaJoisa/patient-repository/internal/platform/config"
	"github.com/shrivathsaJoisa/patient-repository/internal/platform/httpserver"
	"github.com/shrivathsaJoisa/patient-repository/internal/platform/kafka"
	"github.com/shrivathsaJoisa/patient-repository/internal/platform/logger"
	platformmetrics "github.com/shrivathsaJoisa/patient-repository/internal/platform/metrics"
	httptransport "github.com/shrivathsaJoisa/patient-repository/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := platformmetrics.New()
	svcMetrics := patientmetrics.New()

	// Stores: PostgreSQL when DATABASE_URL is set, in-memory otherwise.
	var (
		patients patientservice.PatientStore
		users    authservice.UserStore
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to reach database", "error", err)
			os.Exit(1)
		}
		patients = patientstore.NewPostgres(db)
		users = authstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		patients = patientstore.NewInMemory()
		users = authstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	// Billing: real client when configured, accepting stub otherwise.
	var billingClient patientservice.BillingClient
	if cfg.BillingServiceURL != "" {
		billingClient = billing.NewHTTPClient(cfg.BillingServiceURL, cfg.BillingTimeout)
		log.Info("using billing service", "url", cfg.BillingServiceURL)
	} else {
		billingClient = billing.MockClient{Logger: log}
		log.Info("using mock billing client")
	}

	// Events: Kafka when brokers are configured, log-only otherwise.
	var publisher patientservice.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := producer.Flush(flushCtx); err != nil {
				log.Warn("failed to flush kafka producer", "error", err)
			}
			producer.Close()
		}()
		publisher = events.NewKafkaPublisher(producer, cfg.KafkaTopic,
			events.WithLogger(log),
			events.WithMetrics(svcMetrics),
		)
		log.Info("publishing events to kafka", "topic", cfg.KafkaTopic)
	} else {
		publisher = events.LogPublisher{Logger: log}
		log.Info("kafka not configured, logging events only")
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "patient-service")
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	patientSvc := patientservice.New(patients, billingClient, publisher,
		patientservice.WithLogger(log),
		patientservice.WithMetrics(svcMetrics),
	)
	authSvc := authservice.New(users, jwtService, authservice.WithLogger(log))

	if err := authSvc.SeedAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		log.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(
		patienthandler.New(patientSvc, log, httpMetrics, jwtValidator),
		authhandler.New(authSvc, log, httpMetrics, jwtValidator),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting patient service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
