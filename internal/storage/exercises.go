package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/autoreg/internal/models"
)

// ListExercises returns the full exercise catalog.
func (db *DB) ListExercises(ctx context.Context) ([]models.ExerciseRef, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, prime_muscle, is_compound FROM exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseRef
	for rows.Next() {
		var e models.ExerciseRef
		if err := rows.Scan(&e.ID, &e.Name, &e.PrimeMuscle, &e.IsCompound); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise returns one catalog entry, or nil when the ID is unknown.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (*models.ExerciseRef, error) {
	var e models.ExerciseRef
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, prime_muscle, is_compound FROM exercises WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.PrimeMuscle, &e.IsCompound)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise %s: %w", id, err)
	}
	return &e, nil
}

// PrimeMuscles maps each exercise ID to its prime muscle. IDs missing from
// the catalog are simply absent from the result.
func (db *DB) PrimeMuscles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, prime_muscle FROM exercises WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying prime muscles: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]string, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var muscle string
		if err := rows.Scan(&id, &muscle); err != nil {
			return nil, fmt.Errorf("scanning prime muscle: %w", err)
		}
		result[id] = muscle
	}
	return result, rows.Err()
}
