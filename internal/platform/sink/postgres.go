package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/printful-source/internal/platform/models"
)

const insertNodeQuery = `INSERT INTO node (collection, node_id, node) VALUES ($1, $2, $3);`

// Postgres is node sink storing records as JSONB rows in the node table:
//
//	CREATE TABLE node (
//	    id         SERIAL PRIMARY KEY,
//	    collection TEXT  NOT NULL,
//	    node_id    TEXT  NOT NULL,
//	    node       JSONB NOT NULL,
//	    synced_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
// The sink is append-only, records of previous runs are kept.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns new Postgres sink.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db: db,
	}
}

// AddCollection returns collection storing nodes under typeName.
func (p Postgres) AddCollection(_ context.Context, typeName string) (Collection, error) {
	return postgresCollection{
		db:       p.db,
		typeName: typeName,
	}, nil
}

type postgresCollection struct {
	db       *sql.DB
	typeName string
}

// AddNode inserts one node row.
func (c postgresCollection) AddNode(ctx context.Context, node models.Record) error {
	body, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("can't marshal node: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, insertNodeQuery, c.typeName, models.OwnerID(node["id"]), body); err != nil {
		return fmt.Errorf("can't insert node into database: %w", err)
	}

	return nil
}
