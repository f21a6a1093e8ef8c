package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"slotsmith/internal/notifier"
	"slotsmith/pkg/config"
	"slotsmith/pkg/kafka"
	kafka_config "slotsmith/pkg/kafka/config"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "slotsmith-notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting notifier", "topic", cfg.BookingEventsTopic, "group", consumerGroup)

	n := notifier.New(notifier.LogSink{Log: cfg.Log}, cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		cfg.BookingEventsTopic,
		consumerGroup,
		cfg.BookingEventsDLQTopic,
		n.HandleMessage,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
