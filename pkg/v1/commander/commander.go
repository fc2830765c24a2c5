package commander

import (
	"context"
	"encoding/json"
	"fmt"
)

//go:generate mockery --name Publisher --filename publisher.go

// Publisher publishes messages to a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message []byte) error
}

// SyncCommand triggers catalog synchronization.
// Empty ObjectTypes means "sync all configured kinds".
type SyncCommand struct {
	ObjectTypes []string `json:"objectTypes,omitempty"`
}

// SyncCommander sends sync commands to a routing key.
type SyncCommander struct {
	publisher     Publisher
	cmdRoutingKey string
}

// NewSyncCommander returns new SyncCommander publishing commands to cmdRoutingKey.
func NewSyncCommander(publisher Publisher, cmdRoutingKey string) SyncCommander {
	return SyncCommander{
		publisher:     publisher,
		cmdRoutingKey: cmdRoutingKey,
	}
}

// SendSyncCommand sends sync command for provided object types.
func (c SyncCommander) SendSyncCommand(ctx context.Context, objectTypes []string) error {
	cmd := SyncCommand{
		ObjectTypes: objectTypes,
	}

	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal sync command: %w", err)
	}

	return c.publisher.Publish(ctx, c.cmdRoutingKey, cmdMsg)
}
