package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skinsight/internal/diagnosis"
)

// SaveState upserts the single snapshot row. Routine image references are
// stripped before writing; generated data URLs are large and reproducible.
func (s *Store) SaveState(ctx context.Context, settings diagnosis.Settings, analysis *diagnosis.Analysis) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	var analysisValue any
	if analysis != nil {
		lean := stripImageRefs(*analysis)
		analysisJSON, err := json.Marshal(lean)
		if err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
		analysisValue = string(analysisJSON)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_state (id, settings, analysis, updated_at)
         VALUES (1, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             settings = excluded.settings,
             analysis = excluded.analysis,
             updated_at = excluded.updated_at`,
		string(settingsJSON), analysisValue, timestamp,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState reads the snapshot row. A missing row yields zero settings and
// a nil analysis without error.
func (s *Store) LoadState(ctx context.Context) (diagnosis.Settings, *diagnosis.Analysis, error) {
	var settings diagnosis.Settings
	var settingsJSON string
	var analysisJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT settings, analysis FROM app_state WHERE id = 1",
	).Scan(&settingsJSON, &analysisJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil, nil
	}
	if err != nil {
		return settings, nil, fmt.Errorf("load state: %w", err)
	}

	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return settings, nil, fmt.Errorf("decode settings: %w", err)
	}
	if !analysisJSON.Valid || analysisJSON.String == "" {
		return settings, nil, nil
	}

	var analysis diagnosis.Analysis
	if err := json.Unmarshal([]byte(analysisJSON.String), &analysis); err != nil {
		return settings, nil, fmt.Errorf("decode analysis: %w", err)
	}
	analysis.Normalize()
	return settings, &analysis, nil
}

// AppendProgress records one daily check-in row.
func (s *Store) AppendProgress(ctx context.Context, entry diagnosis.DailyProgress) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_progress (date, score, stress, skin_feeling, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		entry.Date, entry.Score, entry.Stress, entry.SkinFeeling, timestamp,
	)
	if err != nil {
		return fmt.Errorf("append progress: %w", err)
	}
	return nil
}

// ProgressHistory returns the most recent check-ins, newest first.
func (s *Store) ProgressHistory(ctx context.Context, limit int) ([]diagnosis.DailyProgress, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, score, stress, skin_feeling FROM daily_progress
         ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var history []diagnosis.DailyProgress
	for rows.Next() {
		var entry diagnosis.DailyProgress
		if err := rows.Scan(&entry.Date, &entry.Score, &entry.Stress, &entry.SkinFeeling); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return history, nil
}

// Reset clears all persisted state.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM app_state",
		"DELETE FROM daily_progress",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func stripImageRefs(analysis diagnosis.Analysis) diagnosis.Analysis {
	analysis.MorningRoutine = stripSteps(analysis.MorningRoutine)
	analysis.EveningRoutine = stripSteps(analysis.EveningRoutine)
	return analysis
}

func stripSteps(steps []diagnosis.RoutineStep) []diagnosis.RoutineStep {
	out := make([]diagnosis.RoutineStep, len(steps))
	copy(out, steps)
	for i := range out {
		out[i].ImageRef = ""
	}
	return out
}
