package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/platform/rabbitmq"
	"github.com/MichalMitros/printful-source/pkg/v1/commander"
	"github.com/rs/zerolog"
)

// Syncer ingests Printful resources into the node sink.
type Syncer interface {
	// Fetch ingests all configured resource kinds.
	Fetch(ctx context.Context) error
	// FetchTypes ingests the requested resource kinds.
	FetchTypes(ctx context.Context, objectTypes []string) error
}

// RMQHandler handles RMQ sync commands.
type RMQHandler struct {
	rmq    *rabbitmq.RabbitMQ
	syncer Syncer
	logger *zerolog.Logger
}

// NewHandler returns new RMQHandler.
func NewHandler(rmq *rabbitmq.RabbitMQ, syncer Syncer, logger *zerolog.Logger) *RMQHandler {
	return &RMQHandler{
		rmq:    rmq,
		syncer: syncer,
		logger: logger,
	}
}

// Start starts consuming and handling sync commands from RMQ.
// A command without object types syncs the configured kinds.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.rmq.Consume(ctx, queue, func(ctx context.Context, message []byte) error {
		cmd, err := decodeMessage(message)
		if err != nil {
			return err
		}

		h.logger.Debug().
			Strs("objectTypes", cmd.ObjectTypes).
			Msg("sync started")

		if len(cmd.ObjectTypes) > 0 {
			err = h.syncer.FetchTypes(ctx, cmd.ObjectTypes)
		} else {
			err = h.syncer.Fetch(ctx)
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		h.logger.Debug().
			Strs("objectTypes", cmd.ObjectTypes).
			Msg("sync finished")

		return nil
	})
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

func decodeMessage(msg []byte) (*commander.SyncCommand, error) {
	var cmd commander.SyncCommand
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return nil, fmt.Errorf("can't decode sync command: %w", err)
	}

	return &cmd, nil
}
