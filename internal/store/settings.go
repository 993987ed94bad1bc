package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sadopc/warrior/internal/workout"
)

// Keys of the workout settings record in the settings table.
const (
	KeyActiveTime        = "active_time"
	KeyRestTime          = "rest_time"
	KeyCycles            = "cycles"
	KeyThirtySecondAlert = "thirty_second_alert"
	KeyJumpAlert         = "jump_alert"
	KeyJumpIntensity     = "jump_intensity"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadSettings reads the workout settings record. It reports false when no
// record was ever saved; missing keys fall back to the defaults.
func (s *Store) LoadSettings() (workout.Settings, bool, error) {
	all, err := s.GetAllSettings()
	if err != nil {
		return workout.Settings{}, false, err
	}

	values := make(map[string]string, len(all))
	for _, kv := range all {
		values[kv.Key] = kv.Value
	}
	if _, ok := values[KeyActiveTime]; !ok {
		return workout.Settings{}, false, nil
	}

	out := workout.DefaultSettings()
	ints := map[string]*int{
		KeyActiveTime: &out.ActiveTime,
		KeyRestTime:   &out.RestTime,
		KeyCycles:     &out.Cycles,
	}
	for key, dst := range ints {
		v, ok := values[key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return workout.Settings{}, false, fmt.Errorf("parse setting %q: %w", key, err)
		}
		*dst = n
	}
	bools := map[string]*bool{
		KeyThirtySecondAlert: &out.ThirtySecondAlert,
		KeyJumpAlert:         &out.JumpAlert,
	}
	for key, dst := range bools {
		v, ok := values[key]
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return workout.Settings{}, false, fmt.Errorf("parse setting %q: %w", key, err)
		}
		*dst = b
	}
	if v, ok := values[KeyJumpIntensity]; ok {
		in, err := workout.ParseIntensity(v)
		if err != nil {
			return workout.Settings{}, false, fmt.Errorf("parse setting %q: %w", KeyJumpIntensity, err)
		}
		out.JumpIntensity = in
	}
	return out.Normalize(), true, nil
}

// SaveSettings writes every field of the workout settings record in one
// transaction.
func (s *Store) SaveSettings(ws workout.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	pairs := [][2]string{
		{KeyActiveTime, strconv.Itoa(ws.ActiveTime)},
		{KeyRestTime, strconv.Itoa(ws.RestTime)},
		{KeyCycles, strconv.Itoa(ws.Cycles)},
		{KeyThirtySecondAlert, strconv.FormatBool(ws.ThirtySecondAlert)},
		{KeyJumpAlert, strconv.FormatBool(ws.JumpAlert)},
		{KeyJumpIntensity, string(ws.JumpIntensity)},
	}
	for _, kv := range pairs {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			kv[0], kv[1],
		); err != nil {
			return fmt.Errorf("save setting %q: %w", kv[0], err)
		}
	}
	return tx.Commit()
}

// IsNotFound reports whether err means a row did not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrPresetNotFound)
}
