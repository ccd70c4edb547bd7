package clickhouse

import (
	"context"
	"fmt"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse. PRIMARY
// engines write many snapshots per day; SHADOW stock writers overwrite a
// single latest row upstream, so their curve often has one point.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert appends one snapshot for an identity.
func (s *SnapshotStore) Insert(ctx context.Context, id domain.EngineIdentity, snap *domain.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshots (
			engine_key, engine_version, run_mode, asset_class, ts, equity
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		id.EngineKey, id.EngineVersion, string(id.RunMode), string(id.AssetClass),
		snap.Timestamp, snap.Equity,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// InsertBulk appends snapshots for an identity in one batch.
func (s *SnapshotStore) InsertBulk(ctx context.Context, id domain.EngineIdentity, snaps []*domain.PortfolioSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO portfolio_snapshots (
			engine_key, engine_version, run_mode, asset_class, ts, equity
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot batch: %w", err)
	}

	for _, snap := range snaps {
		err := batch.Append(
			id.EngineKey, id.EngineVersion, string(id.RunMode), string(id.AssetClass),
			snap.Timestamp, snap.Equity,
		)
		if err != nil {
			return fmt.Errorf("append snapshot to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send snapshot batch: %w", err)
	}
	return nil
}

// ListByEngine retrieves snapshots for an identity, ordered by timestamp ASC.
func (s *SnapshotStore) ListByEngine(ctx context.Context, id domain.EngineIdentity) ([]*domain.PortfolioSnapshot, error) {
	query := `
		SELECT ts, equity
		FROM portfolio_snapshots
		WHERE engine_key = ? AND engine_version = ? AND run_mode = ? AND asset_class = ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query,
		id.EngineKey, id.EngineVersion, string(id.RunMode), string(id.AssetClass),
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.PortfolioSnapshot
	for rows.Next() {
		snap := &domain.PortfolioSnapshot{}
		if err := rows.Scan(&snap.Timestamp, &snap.Equity); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}
