package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sadopc/warrior/internal/workout"
)

// HistoryCap is how many completed workouts are kept.
const HistoryCap = 50

// AppendHistory records a completed workout and evicts the oldest records
// beyond HistoryCap.
func (s *Store) AppendHistory(rec workout.HistoryRecord) error {
	settings, err := json.Marshal(rec.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO workout_history (id, completed_at, settings, completed_rounds, total_seconds) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Date.UTC().Format(time.RFC3339), string(settings),
		rec.CompletedRounds, int64(rec.TotalTime/time.Second),
	)
	if err != nil {
		return fmt.Errorf("insert history %s: %w", rec.ID, err)
	}

	_, err = tx.Exec(
		`DELETE FROM workout_history WHERE seq NOT IN (
			SELECT seq FROM workout_history ORDER BY seq DESC LIMIT ?
		)`, HistoryCap,
	)
	if err != nil {
		return fmt.Errorf("evict history: %w", err)
	}
	return tx.Commit()
}

// ListHistory returns completed workouts newest first. A limit <= 0 returns
// everything kept.
func (s *Store) ListHistory(limit int) ([]workout.HistoryRecord, error) {
	query := `SELECT id, completed_at, settings, completed_rounds, total_seconds
		FROM workout_history ORDER BY seq DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []workout.HistoryRecord
	for rows.Next() {
		var rec workout.HistoryRecord
		var completedAt, settings string
		var totalSeconds int64
		if err := rows.Scan(&rec.ID, &completedAt, &settings, &rec.CompletedRounds, &totalSeconds); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(settings), &rec.Settings); err != nil {
			return nil, fmt.Errorf("decode settings of %s: %w", rec.ID, err)
		}
		rec.Date, _ = time.Parse(time.RFC3339, completedAt)
		rec.TotalTime = time.Duration(totalSeconds) * time.Second
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetDailySummary aggregates workouts completed in [from, to) per UTC day.
func (s *Store) GetDailySummary(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT date(completed_at) AS day, COUNT(*),
		       COALESCE(SUM(completed_rounds), 0), COALESCE(SUM(total_seconds), 0)
		FROM workout_history
		WHERE completed_at >= ? AND completed_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		if err := rows.Scan(&ds.Date, &ds.Workouts, &ds.Rounds, &ds.TotalSeconds); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}
