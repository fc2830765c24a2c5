package sink

import (
	"context"

	"github.com/MichalMitros/printful-source/internal/platform/models"
)

// Collection receives normalized records of one node type.
// Implementations own the records after AddNode returns.
type Collection interface {
	// AddNode stores a single normalized record.
	AddNode(ctx context.Context, node models.Record) error
}

// Sink hands out named collections for emitted nodes.
type Sink interface {
	// AddCollection returns the collection registered under typeName.
	AddCollection(ctx context.Context, typeName string) (Collection, error)
}
