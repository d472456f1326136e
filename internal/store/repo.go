package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fullstackacademy/academy/internal/achievements"
	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/streak"
)

// ProgressRepo persists the per-module progress map.
type ProgressRepo interface {
	// Save upserts every record in the snapshot. Existing rows for slugs
	// absent from the snapshot are left alone; records are never deleted
	// outside an explicit reset or import.
	Save(ctx context.Context, snap progress.Snapshot) error

	// Load returns the full persisted snapshot. An empty database yields
	// an empty, non-nil snapshot.
	Load(ctx context.Context) (progress.Snapshot, error)
}

// StreakRepo persists the singleton streak record.
type StreakRepo interface {
	Save(ctx context.Context, rec *streak.Record) error

	// Load returns the persisted streak record, or a fresh one with the
	// default milestones if none has been saved yet.
	Load(ctx context.Context) (*streak.Record, error)
}

// AchievementRepo persists earned achievements. Earned rows are never
// updated or deleted outside an explicit reset or import.
type AchievementRepo interface {
	Add(ctx context.Context, earned []achievements.Earned) error
	All(ctx context.Context) ([]achievements.Earned, error)
}

type progressRepo struct {
	store *Store
}

func (r *progressRepo) Save(ctx context.Context, snap progress.Snapshot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save progress: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for slug, rec := range snap {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal progress for %s: %w", slug, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO progress_records (module_slug, data, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(module_slug) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			slug, string(data), now)
		if err != nil {
			return fmt.Errorf("save progress for %s: %w", slug, err)
		}
	}
	return tx.Commit()
}

func (r *progressRepo) Load(ctx context.Context) (progress.Snapshot, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT module_slug, data FROM progress_records`)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	snap := progress.Snapshot{}
	for rows.Next() {
		var slug, data string
		if err := rows.Scan(&slug, &data); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		var rec progress.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decode progress for %s: %w", slug, err)
		}
		snap[slug] = &rec
	}
	return snap, rows.Err()
}

type streakRepo struct {
	store *Store
}

func (r *streakRepo) Save(ctx context.Context, rec *streak.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal streak: %w", err)
	}
	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO streak_state (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

func (r *streakRepo) Load(ctx context.Context) (*streak.Record, error) {
	var data string
	err := r.store.db.QueryRowContext(ctx, `SELECT data FROM streak_state WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return streak.NewRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	var rec streak.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decode streak: %w", err)
	}
	return &rec, nil
}

type achievementRepo struct {
	store *Store
}

func (r *achievementRepo) Add(ctx context.Context, earned []achievements.Earned) error {
	if len(earned) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save achievements: %w", err)
	}
	defer tx.Rollback()

	for _, e := range earned {
		// OR IGNORE keeps the original earned date on replays.
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO earned_achievements (achievement_id, earned_at) VALUES (?, ?)`,
			e.AchievementID, e.EarnedAt.UTC())
		if err != nil {
			return fmt.Errorf("save achievement %s: %w", e.AchievementID, err)
		}
	}
	return tx.Commit()
}

func (r *achievementRepo) All(ctx context.Context) ([]achievements.Earned, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT achievement_id, earned_at FROM earned_achievements ORDER BY earned_at, achievement_id`)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	defer rows.Close()

	var out []achievements.Earned
	for rows.Next() {
		var e achievements.Earned
		if err := rows.Scan(&e.AchievementID, &e.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan achievement row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
