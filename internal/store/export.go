package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/fullstackacademy/academy/internal/achievements"
	"github.com/fullstackacademy/academy/internal/progress"
	"github.com/fullstackacademy/academy/internal/streak"
)

// ExportVersion is the current export blob format version.
const ExportVersion = 1

// ExportBlob is the single-document form of all learner state, used for
// backup and transfer between installs.
type ExportBlob struct {
	Version      int                   `json:"version"`
	ExportedAt   time.Time             `json:"exportedAt"`
	Progress     progress.Snapshot     `json:"progress"`
	Streak       *streak.Record        `json:"streak"`
	Achievements []achievements.Earned `json:"achievements"`
}

// ImportResult reports the outcome of an import attempt.
type ImportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// exportBlobSchema gates import blobs before any state is overwritten.
var exportBlobSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version":    map[string]any{"type": "integer", "minimum": 1, "maximum": ExportVersion},
		"exportedAt": map[string]any{"type": "string"},
		"progress":   map[string]any{"type": "object"},
		"streak": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"currentStreak": map[string]any{"type": "integer", "minimum": 0},
				"longestStreak": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"currentStreak", "longestStreak"},
		},
		"achievements": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"achievementId": map[string]any{"type": "string", "minLength": 1},
					"earnedDate":    map[string]any{"type": "string"},
				},
				"required": []any{"achievementId", "earnedDate"},
			},
		},
	},
	"required": []any{"version", "progress", "streak", "achievements"},
}

var (
	compiledBlobSchema     *jsonschema.Schema
	compiledBlobSchemaOnce sync.Once
	compiledBlobSchemaErr  error
)

func blobSchema() (*jsonschema.Schema, error) {
	compiledBlobSchemaOnce.Do(func() {
		defBytes, err := json.Marshal(exportBlobSchema)
		if err != nil {
			compiledBlobSchemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compiledBlobSchemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://export-blob.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compiledBlobSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledBlobSchema, compiledBlobSchemaErr = c.Compile(schemaURL)
	})
	return compiledBlobSchema, compiledBlobSchemaErr
}

// Export serializes all learner state into one JSON blob.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	snap, err := s.ProgressRepo().Load(ctx)
	if err != nil {
		return nil, err
	}
	streakRec, err := s.StreakRepo().Load(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := s.AchievementRepo().All(ctx)
	if err != nil {
		return nil, err
	}

	blob := ExportBlob{
		Version:      ExportVersion,
		ExportedAt:   time.Now().UTC(),
		Progress:     snap,
		Streak:       streakRec,
		Achievements: earned,
	}
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// Import validates a blob's shape and replaces all learner state with its
// contents. Nothing is overwritten until validation passes.
func (s *Store) Import(ctx context.Context, data []byte) ImportResult {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ImportResult{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	schema, err := blobSchema()
	if err != nil {
		return ImportResult{Message: fmt.Sprintf("compile import schema: %v", err)}
	}
	if err := schema.Validate(parsed); err != nil {
		return ImportResult{Message: fmt.Sprintf("blob failed validation: %v", err)}
	}

	var blob ExportBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return ImportResult{Message: fmt.Sprintf("decode blob: %v", err)}
	}

	if err := s.replaceAll(ctx, &blob); err != nil {
		return ImportResult{Message: fmt.Sprintf("import failed: %v", err)}
	}

	msg := fmt.Sprintf("imported %d progress records, %d achievements",
		len(blob.Progress), len(blob.Achievements))
	return ImportResult{Success: true, Message: msg}
}

// replaceAll swaps all persisted state for the blob's contents in one
// transaction.
func (s *Store) replaceAll(ctx context.Context, blob *ExportBlob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"progress_records", "streak_state", "earned_achievements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	now := time.Now().UTC()
	for slug, rec := range blob.Progress {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal progress for %s: %w", slug, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO progress_records (module_slug, data, updated_at) VALUES (?, ?, ?)`,
			slug, string(data), now)
		if err != nil {
			return fmt.Errorf("insert progress for %s: %w", slug, err)
		}
	}

	if blob.Streak != nil {
		data, err := json.Marshal(blob.Streak)
		if err != nil {
			return fmt.Errorf("marshal streak: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO streak_state (id, data, updated_at) VALUES (1, ?, ?)`, string(data), now)
		if err != nil {
			return fmt.Errorf("insert streak: %w", err)
		}
	}

	for _, e := range blob.Achievements {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO earned_achievements (achievement_id, earned_at) VALUES (?, ?)`,
			e.AchievementID, e.EarnedAt.UTC())
		if err != nil {
			return fmt.Errorf("insert achievement %s: %w", e.AchievementID, err)
		}
	}
	return tx.Commit()
}

// Reset deletes all learner state.
func (s *Store) Reset(ctx context.Context) error {
	blank := &ExportBlob{Progress: progress.Snapshot{}}
	return s.replaceAll(ctx, blank)
}
