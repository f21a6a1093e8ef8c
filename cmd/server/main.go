package main

import (
	availabilityhandler "slotsmith/internal/availability/handler"
	availabilityservice "slotsmith/internal/availability/service"
	"slotsmith/internal/bookings/events"
	bookinghandler "slotsmith/internal/bookings/handler"
	bookingrepository "slotsmith/internal/bookings/repository"
	bookingservice "slotsmith/internal/bookings/service"
	bookingvalidator "slotsmith/internal/bookings/validator"
	overridehandler "slotsmith/internal/overrides/handler"
	overriderepository "slotsmith/internal/overrides/repository"
	overrideservice "slotsmith/internal/overrides/service"
	overridevalidator "slotsmith/internal/overrides/validator"
	rulehandler "slotsmith/internal/rules/handler"
	rulerepository "slotsmith/internal/rules/repository"
	ruleservice "slotsmith/internal/rules/service"
	rulevalidator "slotsmith/internal/rules/validator"
	"slotsmith/pkg/app"
	"slotsmith/pkg/config"
	"slotsmith/pkg/contracts"
	"slotsmith/pkg/kafka"
	kafka_config "slotsmith/pkg/kafka/config"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting booking server")

	publisher := initPublisher(cfg)
	defer publisher.Close()

	handlers := initHandlers(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.EventPublisher) []contracts.Handler {
	ruleRepo := rulerepository.NewMongoRuleRepository(cfg)
	ruleSvc := ruleservice.NewRuleService(ruleRepo, rulevalidator.NewRuleValidator(cfg.Log), cfg)

	overrideRepo := overriderepository.NewMongoOverrideRepository(cfg)
	overrideSvc := overrideservice.NewOverrideService(overrideRepo, overridevalidator.NewOverrideValidator(cfg.Log), cfg)

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)

	availabilitySvc := availabilityservice.NewAvailabilityService(
		ruleSvc,
		overrideSvc,
		bookingRepo,
		cfg,
	)

	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		availabilitySvc,
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		rulehandler.NewRuleHandler(ruleSvc, cfg.Log),
		overridehandler.NewOverrideHandler(overrideSvc, cfg.Log),
	}
}

func initPublisher(cfg *config.Config) events.EventPublisher {
	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, booking events disabled", "error", err)
		return events.NoopPublisher{}
	}
	return events.NewKafkaPublisher(producer, cfg.Log)
}
