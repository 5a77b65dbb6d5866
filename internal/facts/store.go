package facts

import (
	"context"
	"database/sql"
	"strings"

	"krishisahay/internal/locale"

	_ "modernc.org/sqlite"
)

// Store wraps SQLite access for the crops, fertilizers, and rotation tables.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS crops (
			crop_id INTEGER PRIMARY KEY AUTOINCREMENT,
			crop_name TEXT UNIQUE NOT NULL,
			crop_name_hi TEXT,
			crop_type TEXT,
			description TEXT,
			description_hi TEXT,
			suitable_climate TEXT,
			suitable_soil TEXT,
			ideal_temperature_celsius TEXT,
			water_requirement TEXT,
			growing_season TEXT,
			price_per_kg_inr REAL
		);`,
		`CREATE TABLE IF NOT EXISTS fertilizers (
			fertilizer_id INTEGER PRIMARY KEY AUTOINCREMENT,
			fertilizer_name TEXT NOT NULL,
			type TEXT,
			nutrients TEXT,
			application_stage TEXT,
			price_per_kg_inr REAL,
			used_for_crops TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS crop_rotation_plan (
			rotation_id INTEGER PRIMARY KEY AUTOINCREMENT,
			current_crop_id INTEGER NOT NULL,
			next_crop_id INTEGER NOT NULL,
			recommended_season TEXT,
			rotation_reason TEXT,
			soil_nutrient_effect TEXT,
			pest_disease_benefit TEXT,
			recommended_gap_days INTEGER,
			special_precautions TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rotation_current ON crop_rotation_plan(current_crop_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CropByName looks up one crop with the column set bound to the locale.
// A missing row yields (nil, nil); zero rows are not an error.
func (s *Store) CropByName(ctx context.Context, name string, loc locale.Locale) (*CropFact, error) {
	nameCol, descCol := "crop_name", "description"
	if loc == locale.Hindi {
		nameCol, descCol = "crop_name_hi", "description_hi"
	}
	query := `SELECT ` + nameCol + `, crop_type, ` + descCol + `,
		suitable_climate, suitable_soil, ideal_temperature_celsius,
		water_requirement, growing_season, price_per_kg_inr
		FROM crops WHERE lower(crop_name) = ?`
	row := s.db.QueryRowContext(ctx, query, strings.ToLower(name))
	var f CropFact
	switch err := row.Scan(&f.Name, &f.Type, &f.Description, &f.Climate, &f.Soil,
		&f.Temperature, &f.Water, &f.Season, &f.PricePerKg); err {
	case nil:
		return &f, nil
	case sql.ErrNoRows:
		return nil, nil
	default:
		return nil, err
	}
}

type fertilizerRow struct {
	Name       string
	Type       string
	Nutrients  string
	Stage      string
	PricePerKg float64
}

// FertilizersForCrop returns every fertilizer row whose used_for_crops
// column mentions the crop.
func (s *Store) FertilizersForCrop(ctx context.Context, crop string) ([]fertilizerRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT fertilizer_name, type, nutrients,
		application_stage, price_per_kg_inr
		FROM fertilizers WHERE lower(used_for_crops) LIKE ?`,
		"%"+strings.ToLower(crop)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []fertilizerRow
	for rows.Next() {
		var r fertilizerRow
		if err := rows.Scan(&r.Name, &r.Type, &r.Nutrients, &r.Stage, &r.PricePerKg); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RotationsForCrop resolves the crop id and joins the rotation plan to the
// next crop's record. Both language projections of the next-crop name are
// selected so the result renders in either locale without a second fetch.
func (s *Store) RotationsForCrop(ctx context.Context, crop string) ([]RotationStep, error) {
	row := s.db.QueryRowContext(ctx, `SELECT crop_id FROM crops WHERE lower(crop_name) = ?`,
		strings.ToLower(crop))
	var cropID int64
	switch err := row.Scan(&cropID); err {
	case nil:
	case sql.ErrNoRows:
		return nil, nil
	default:
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
			c2.crop_name, c2.crop_name_hi,
			r.recommended_season, r.rotation_reason, r.soil_nutrient_effect,
			r.pest_disease_benefit, r.recommended_gap_days, r.special_precautions
		FROM crop_rotation_plan r
		JOIN crops c2 ON r.next_crop_id = c2.crop_id
		WHERE r.current_crop_id = ?
		ORDER BY r.rotation_id ASC`, cropID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var steps []RotationStep
	for rows.Next() {
		var st RotationStep
		var nameHi sql.NullString
		if err := rows.Scan(&st.NextCrop, &nameHi, &st.Season, &st.Reason,
			&st.SoilEffect, &st.PestBenefit, &st.GapDays, &st.Precautions); err != nil {
			return nil, err
		}
		st.NextCropHindi = nameHi.String
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// Health returns err if the DB is not reachable.
func (s *Store) Health(ctx context.Context) error {
	row := s.db.QueryRowContext(ctx, `SELECT 1`)
	var v int
	return row.Scan(&v)
}

// SeedDemoData loads the static fallback tables into an empty store so a
// fresh local database answers from the structured path. A store that
// already has crops is left untouched.
func (s *Store) SeedDemoData(ctx context.Context) error {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM crops`)
	var n int
	if err := row.Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	ids := make(map[string]int64, len(fallbackCrops))
	for key, c := range fallbackCrops {
		res, err := s.db.ExecContext(ctx, `INSERT INTO crops
			(crop_name, crop_name_hi, crop_type, description, description_hi,
			 suitable_climate, suitable_soil, ideal_temperature_celsius,
			 water_requirement, growing_season, price_per_kg_inr)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Name, c.NameHindi, c.Type, c.Description, c.DescriptionHindi,
			c.Climate, c.Soil, c.Temperature, c.Water, c.Season, c.PricePerKg)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		ids[key] = id
	}

	for key, steps := range fallbackRotations {
		currentID, ok := ids[key]
		if !ok {
			continue
		}
		for _, st := range steps {
			nextID, ok := ids[strings.ToLower(st.NextCrop)]
			if !ok {
				// Follow-on recommendations like "Pulses" have no crop row;
				// keep them reachable via the fallback tables only.
				continue
			}
			if _, err := s.db.ExecContext(ctx, `INSERT INTO crop_rotation_plan
				(current_crop_id, next_crop_id, recommended_season, rotation_reason,
				 soil_nutrient_effect, pest_disease_benefit, recommended_gap_days,
				 special_precautions)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				currentID, nextID, st.Season, st.Reason, st.SoilEffect,
				st.PestBenefit, st.GapDays, st.Precautions); err != nil {
				return err
			}
		}
	}
	return nil
}
