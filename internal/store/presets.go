package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/warrior/internal/workout"
)

var ErrPresetNotFound = errors.New("preset not found")

const presetColumns = `id, name, active_time, rest_time, cycles, thirty_second_alert, jump_alert, jump_intensity, created_at, updated_at`

// SavePreset inserts p, or updates the preset with the same id. A preset
// without an id gets a new one.
func (s *Store) SavePreset(p Preset) (*Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, errors.New("preset name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	ws := p.Settings.Normalize()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.Exec(
		`INSERT INTO presets (id, name, active_time, rest_time, cycles, thirty_second_alert, jump_alert, jump_intensity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			active_time = excluded.active_time,
			rest_time = excluded.rest_time,
			cycles = excluded.cycles,
			thirty_second_alert = excluded.thirty_second_alert,
			jump_alert = excluded.jump_alert,
			jump_intensity = excluded.jump_intensity,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, ws.ActiveTime, ws.RestTime, ws.Cycles,
		boolInt(ws.ThirtySecondAlert), boolInt(ws.JumpAlert), string(ws.JumpIntensity), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("save preset %q: %w", p.Name, err)
	}
	return s.GetPreset(p.ID)
}

func (s *Store) GetPreset(id string) (*Preset, error) {
	row := s.db.QueryRow(`SELECT `+presetColumns+` FROM presets WHERE id = ?`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get preset %s: %w", id, ErrPresetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get preset %s: %w", id, err)
	}
	return p, nil
}

// FindPreset looks a preset up by id, then by case-insensitive name.
func (s *Store) FindPreset(ref string) (*Preset, error) {
	row := s.db.QueryRow(
		`SELECT `+presetColumns+` FROM presets WHERE id = ? OR name = ? COLLATE NOCASE ORDER BY id = ? DESC LIMIT 1`,
		ref, ref, ref,
	)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find preset %q: %w", ref, ErrPresetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find preset %q: %w", ref, err)
	}
	return p, nil
}

func (s *Store) ListPresets() ([]Preset, error) {
	rows, err := s.db.Query(`SELECT ` + presetColumns + ` FROM presets ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

func (s *Store) DeletePreset(id string) error {
	res, err := s.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete preset %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preset %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete preset %s: %w", id, ErrPresetNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (*Preset, error) {
	p := &Preset{}
	var thirty, jump int
	var intensity, createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &p.Settings.ActiveTime, &p.Settings.RestTime, &p.Settings.Cycles,
		&thirty, &jump, &intensity, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Settings.ThirtySecondAlert = thirty == 1
	p.Settings.JumpAlert = jump == 1
	p.Settings.JumpIntensity = workout.Intensity(intensity)
	p.Settings = p.Settings.Normalize()
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}
