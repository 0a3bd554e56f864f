package weekplan

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository is a database-backed repository for week-plan entries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the entry for a date, or nil if none exists.
func (r *Repository) Get(ctx context.Context, date string) (*Entry, error) {
	var e Entry
	err := r.db.QueryRowContext(ctx,
		`SELECT date, recipe_id, cleared, temp, icon, description, updated_at
		 FROM week_plan WHERE date = ?`, date).
		Scan(&e.Date, &e.RecipeID, &e.Cleared, &e.Temp, &e.Icon, &e.Description, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week plan entry: %w", err)
	}
	return &e, nil
}

// Upsert writes the entry for its date, replacing any existing row.
func (r *Repository) Upsert(ctx context.Context, e *Entry) error {
	e.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO week_plan (date, recipe_id, cleared, temp, icon, description, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			recipe_id = excluded.recipe_id,
			cleared = excluded.cleared,
			temp = excluded.temp,
			icon = excluded.icon,
			description = excluded.description,
			updated_at = excluded.updated_at`,
		e.Date, e.RecipeID, e.Cleared, e.Temp, e.Icon, e.Description, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert week plan entry: %w", err)
	}
	return nil
}

// InsertIgnore writes the entry only when no row exists for its date yet.
// Two requests racing to materialize the same day both succeed; the first
// writer wins.
func (r *Repository) InsertIgnore(ctx context.Context, e *Entry) error {
	e.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO week_plan (date, recipe_id, cleared, temp, icon, description, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO NOTHING`,
		e.Date, e.RecipeID, e.Cleared, e.Temp, e.Icon, e.Description, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert week plan entry: %w", err)
	}
	return nil
}

// ListOthers returns every entry except the one for the given date.
func (r *Repository) ListOthers(ctx context.Context, date string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, recipe_id, cleared, temp, icon, description, updated_at
		 FROM week_plan WHERE date != ? ORDER BY date`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list week plan entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.RecipeID, &e.Cleared, &e.Temp, &e.Icon, &e.Description, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan week plan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteBefore removes entries older than the given date. Keeps the table
// from accumulating every day ever planned.
func (r *Repository) DeleteBefore(ctx context.Context, date string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM week_plan WHERE date < ?`, date)
	if err != nil {
		return fmt.Errorf("failed to prune week plan: %w", err)
	}
	return nil
}
