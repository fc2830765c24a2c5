package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MichalMitros/printful-source/cmd/source/config"
	"github.com/MichalMitros/printful-source/internal/handler"
	"github.com/MichalMitros/printful-source/internal/images"
	"github.com/MichalMitros/printful-source/internal/platform/rabbitmq"
	"github.com/MichalMitros/printful-source/internal/platform/sink"
	"github.com/MichalMitros/printful-source/internal/printful"
	"github.com/MichalMitros/printful-source/internal/source"
	"github.com/caarlos0/env/v6"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	conn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	src := source.NewSource(
		printful.NewClient(httpClient, cfg.APIKey, &logger),
		images.NewDownloader(httpClient, cfg.Source.ImageDirectory, &logger),
		sink.NewPostgres(pgDB),
		source.Options{
			TypeName:                 cfg.Source.TypeName,
			ObjectTypes:              cfg.Source.ObjectTypes,
			PaginationLimit:          cfg.Source.PaginationLimit,
			DownloadFiles:            cfg.Source.DownloadFiles,
			DownloadProductThumbnail: cfg.Source.DownloadProductThumbnail,
			DownloadProductImages:    cfg.Source.DownloadProductImages,
		},
		&logger,
	)

	han := handler.NewHandler(conn, src, &logger)

	// start consuming and handling sync commands
	err = han.Start(ctx, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming")
	}

	logger.Info().Msg("printful source up and running")

	if cfg.RunOnStart {
		if err := src.Fetch(ctx); err != nil {
			logger.Error().
				Err(err).
				Msg("initial sync failed")
		}
	}

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	// wait for consumer to finish
	<-conn.Done()

	// close connections
	wg := sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := pgDB.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := amqpConnection.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}
