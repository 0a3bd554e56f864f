// Package history tracks which meals were actually eaten.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weekmenu/internal/apperr"
)

// Entry records one eaten meal. Entries are created when a suggestion is
// accepted, or through explicit logging.
type Entry struct {
	ID       int64     `json:"id"`
	RecipeID string    `json:"recipeId"`
	EatenAt  time.Time `json:"eatenAt"`
	Servings int       `json:"servings"`
	Notes    string    `json:"notes,omitempty"`
	Rating   *int      `json:"rating,omitempty"`
}

// Repository is a database-backed repository for meal history.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores an entry and assigns its id.
func (r *Repository) Insert(ctx context.Context, e *Entry) error {
	if e.RecipeID == "" {
		return apperr.InvalidInput("recipeId is required")
	}
	if e.Rating != nil && (*e.Rating < 1 || *e.Rating > 5) {
		return apperr.InvalidInput("rating must be between 1 and 5")
	}
	if e.Servings <= 0 {
		e.Servings = 2
	}
	if e.EatenAt.IsZero() {
		e.EatenAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_history (recipe_id, eaten_at, servings, notes, rating)
		 VALUES (?, ?, ?, ?, ?)`,
		e.RecipeID, e.EatenAt, e.Servings, e.Notes, e.Rating)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read history entry id: %w", err)
	}
	return nil
}

// Delete removes an entry by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meal_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("history entry %d not found", id)
	}
	return nil
}

// DeleteByRecipeAndRange removes all entries for a recipe whose eaten_at falls
// in [from, to). Used to compensate an accepted suggestion being rejected.
func (r *Repository) DeleteByRecipeAndRange(ctx context.Context, recipeID string, from, to time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM meal_history WHERE recipe_id = ? AND eaten_at >= ? AND eaten_at < ?`,
		recipeID, from, to)
	if err != nil {
		return fmt.Errorf("failed to delete history entries: %w", err)
	}
	return nil
}

// LastEatenAt returns the most recent eaten_at for a recipe, or nil if the
// recipe was never eaten.
func (r *Repository) LastEatenAt(ctx context.Context, recipeID string) (*time.Time, error) {
	var t time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT eaten_at FROM meal_history WHERE recipe_id = ? ORDER BY eaten_at DESC LIMIT 1`,
		recipeID).Scan(&t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last eaten entry: %w", err)
	}
	return &t, nil
}

// ListRecent returns the newest entries first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recipe_id, eaten_at, servings, notes, rating
		 FROM meal_history ORDER BY eaten_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RecipeID, &e.EatenAt, &e.Servings, &e.Notes, &e.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
