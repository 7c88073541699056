package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/autoreg/internal/models"
)

// GetNutritionProfile returns an athlete's profile, or nil when none exists.
func (db *DB) GetNutritionProfile(ctx context.Context, userID int) (*models.NutritionProfile, error) {
	var p models.NutritionProfile
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, bodyweight_kg, height_cm, age, biological_sex, activity_level, goal
		 FROM nutrition_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.BodyweightKg, &p.HeightCm, &p.Age, &p.BiologicalSex, &p.ActivityLevel, &p.Goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying nutrition profile: %w", err)
	}
	return &p, nil
}

// UpsertNutritionProfile writes an athlete's profile.
func (db *DB) UpsertNutritionProfile(ctx context.Context, p models.NutritionProfile) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO nutrition_profiles (user_id, bodyweight_kg, height_cm, age, biological_sex, activity_level, goal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE
		 SET bodyweight_kg = EXCLUDED.bodyweight_kg, height_cm = EXCLUDED.height_cm,
		     age = EXCLUDED.age, biological_sex = EXCLUDED.biological_sex,
		     activity_level = EXCLUDED.activity_level, goal = EXCLUDED.goal`,
		p.UserID, p.BodyweightKg, p.HeightCm, p.Age, p.BiologicalSex, p.ActivityLevel, p.Goal)
	if err != nil {
		return fmt.Errorf("upserting nutrition profile: %w", err)
	}
	return nil
}

// UpsertNutritionEntry writes one athlete-day of logged intake.
func (db *DB) UpsertNutritionEntry(ctx context.Context, e models.NutritionEntry) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO nutrition_entries (user_id, day, calories, protein_g, carbs_g, fats_g, bodyweight_kg)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, day) DO UPDATE
		 SET calories = EXCLUDED.calories, protein_g = EXCLUDED.protein_g,
		     carbs_g = EXCLUDED.carbs_g, fats_g = EXCLUDED.fats_g,
		     bodyweight_kg = EXCLUDED.bodyweight_kg`,
		e.UserID, e.Day, e.Calories, e.ProteinG, e.CarbsG, e.FatsG, e.BodyweightKg)
	if err != nil {
		return fmt.Errorf("upserting nutrition entry: %w", err)
	}
	return nil
}

// NutritionWindow returns an athlete's intake log in [start, end), oldest first.
func (db *DB) NutritionWindow(ctx context.Context, userID int, start, end time.Time) ([]models.NutritionEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, day, calories, protein_g, carbs_g, fats_g, bodyweight_kg
		 FROM nutrition_entries
		 WHERE user_id = $1 AND day >= $2 AND day < $3
		 ORDER BY day`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying nutrition entries: %w", err)
	}
	defer rows.Close()

	var result []models.NutritionEntry
	for rows.Next() {
		var e models.NutritionEntry
		if err := rows.Scan(&e.UserID, &e.Day, &e.Calories, &e.ProteinG, &e.CarbsG, &e.FatsG, &e.BodyweightKg); err != nil {
			return nil, fmt.Errorf("scanning nutrition entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
