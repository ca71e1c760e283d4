package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const snapshotNamespace = "naija_connect:v1"

// PostgresStore keeps the snapshot as one jsonb row per namespace. It carries
// the same single-writer contract as the file store; Save calls are
// serialized in call order.
type PostgresStore struct {
	mu sync.Mutex
	db *pgxpool.Pool
}

// NewPostgresStore prepares the snapshots table and returns the store.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS snapshots (
        namespace TEXT PRIMARY KEY,
        document JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return nil, fmt.Errorf("ensure snapshots table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Load fetches the namespace document; an absent row is an empty snapshot.
func (p *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var raw []byte
	err := p.db.QueryRow(ctx, `SELECT document FROM snapshots WHERE namespace = $1`, snapshotNamespace).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Save upserts the namespace document.
func (p *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = p.db.Exec(ctx, `INSERT INTO snapshots (namespace, document, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (namespace) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		snapshotNamespace, raw)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
