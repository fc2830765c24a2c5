package sinktest

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/MichalMitros/printful-source/internal/platform/models"
	"github.com/MichalMitros/printful-source/internal/platform/sink"

	_ "github.com/lib/pq"
)

const nodeSchema = `
CREATE TABLE IF NOT EXISTS node (
    id         SERIAL PRIMARY KEY,
    collection TEXT  NOT NULL,
    node_id    TEXT  NOT NULL,
    node       JSONB NOT NULL,
    synced_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Open opens connection to test DB or skips the test when DATABASE_URL is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("can't close connection: %s", err)
		}
	})

	return db
}

// EnsureSchema creates the node table and truncates it.
func EnsureSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec(nodeSchema); err != nil {
		t.Fatalf("can't create node table: %s", err)
	}

	if _, err := db.Exec(`TRUNCATE node;`); err != nil {
		t.Fatalf("can't truncate node table: %s", err)
	}
}

// Memory is in-memory node sink for tests.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]models.Record
}

// NewMemory returns new empty Memory sink.
func NewMemory() *Memory {
	return &Memory{
		collections: map[string][]models.Record{},
	}
}

// AddCollection registers typeName and returns its collection.
func (m *Memory) AddCollection(_ context.Context, typeName string) (sink.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[typeName]; !ok {
		m.collections[typeName] = nil
	}

	return memoryCollection{
		memory:   m,
		typeName: typeName,
	}, nil
}

// Nodes returns all records added to typeName in emission order.
func (m *Memory) Nodes(typeName string) []models.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collections[typeName]
}

// Collections returns names of all registered collections.
func (m *Memory) Collections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}

	return names
}

type memoryCollection struct {
	memory   *Memory
	typeName string
}

// AddNode appends node to the collection.
func (c memoryCollection) AddNode(_ context.Context, node models.Record) error {
	c.memory.mu.Lock()
	defer c.memory.mu.Unlock()

	c.memory.collections[c.typeName] = append(c.memory.collections[c.typeName], node)

	return nil
}
