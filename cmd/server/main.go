package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inquiry_service/internal/ai"
	"inquiry_service/internal/auth"
	"inquiry_service/internal/cache"
	"inquiry_service/internal/config"
	"inquiry_service/internal/handlers"
	"inquiry_service/internal/identity"
	"inquiry_service/internal/kafka"
	"inquiry_service/internal/mail"
	"inquiry_service/internal/metrics"
	"inquiry_service/internal/repository"
	"inquiry_service/internal/service"
	"inquiry_service/internal/voice"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------- config / logging ----------
	cfg := config.Load()
	logger := config.NewLogger(cfg)

	metrics.Register()

	// ---------- db ----------
	pool, err := repository.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.WithError(err).Fatal("db connect failed")
	}
	defer pool.Close()

	// ---------- repositories ----------
	inquiryRepo := repository.NewInquiryRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool, 10)
	responseRepo := repository.NewResponseRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	meetingRepo := repository.NewMeetingRepository(pool)

	// ---------- redis cache ----------
	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisCache.Close()
	cache.StartRedisSizeCollector(ctx, redisCache.RawClient(), 30*time.Second, logger)

	// ---------- kafka ----------
	producer, err := kafka.NewSyncProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.WithError(err).Fatal("kafka producer failed")
	}
	defer producer.Close()

	// ---------- classifier ----------
	var classifier ai.Classifier
	if cfg.SimulationMode {
		classifier = ai.NewSimulatedClassifier()
		logger.Info("categorization running in simulation mode")
	} else {
		classifier = ai.NewHTTPClassifier(cfg.AIServiceURL, cfg.AITimeout)
	}

	// ---------- services ----------
	inquiryService := service.NewInquiryService(
		pool, inquiryRepo, outboxRepo,
		redisCache, cfg.CacheTTL,
		cfg.KafkaTopic, cfg.WebhookURL,
		logger,
	)

	processor := service.NewProcessor(pool, inquiryRepo, outboxRepo, classifier, cfg, logger)
	processor.Start(ctx, cfg.ProcessInterval, cfg.ProcessLimit)

	mailer, err := mail.NewFromConfig(cfg)
	if err != nil {
		logger.WithError(err).Warn("mail transport not configured, response sending disabled")
		mailer = nil
	}
	responseService := service.NewResponseService(
		pool, responseRepo, inquiryRepo, profileRepo, outboxRepo,
		mailer, cfg.KafkaTopic, logger,
	)

	idClient := identity.NewClient(cfg.IdentityURL, cfg.IdentityAdminKey)
	employeeService := service.NewEmployeeService(idClient, profileRepo, logger)

	voiceService := voice.NewService(meetingRepo, logger)

	// ---------- outbox sender ----------
	sender := service.NewOutboxSender(
		outboxRepo, producer,
		500*time.Millisecond, 100,
		7,  // retention days
		10, // max retries
		logger,
	)
	sender.Start(ctx)

	// ---------- kafka consumer ----------
	consumer, err := kafka.NewConsumer(
		cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic,
		processor, cfg.ProcessLimit, logger,
	)
	if err != nil {
		logger.WithError(err).Fatal("kafka consumer failed")
	}
	defer consumer.Close()
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.WithError(err).Error("kafka consumer stopped")
		}
	}()

	// ---------- db gauges ----------
	metrics.StartDBCollectors(ctx, pool, 15*time.Second, logger)

	// ---------- http ----------
	verifier := auth.NewVerifier(cfg.JWTSecret)

	router := handlers.NewRouter(handlers.Handlers{
		Inquiries: handlers.NewInquiryHandler(inquiryService, responseRepo),
		Process:   handlers.NewProcessHandler(processor, cfg.SimulationMode),
		Responses: handlers.NewResponseHandler(responseService),
		Employees: handlers.NewEmployeeHandler(employeeService),
		Voice:     handlers.NewVoiceHandler(voiceService),
		Profile:   handlers.NewProfileHandler(profileRepo, redisCache, cfg.CacheTTL),
	}, verifier)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("http server failed")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown failed")
	}
	logger.Info("server stopped")
}
