package suggestion

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weekmenu/internal/apperr"
	"weekmenu/internal/jsonx"
	"weekmenu/internal/weather"
)

// Repository is a database-backed repository for the suggestion log.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a suggestion row and assigns its id.
func (r *Repository) Insert(ctx context.Context, s *Suggestion) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO suggestions (recipe_id, suggested_for, status, reason, weather, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.RecipeID, s.SuggestedFor, string(s.Status),
		jsonx.MustMarshal(s.Reason, "{}"),
		jsonx.MustMarshal(s.Weather, "{}"),
		s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert suggestion: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read suggestion id: %w", err)
	}
	return nil
}

// Get retrieves a suggestion by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Suggestion, error) {
	s, err := scanSuggestion(r.db.QueryRowContext(ctx,
		`SELECT id, recipe_id, suggested_for, status, reason, weather, created_at
		 FROM suggestions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("suggestion %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	return s, nil
}

// ListForDate returns all suggestion rows for a date, newest first.
func (r *Repository) ListForDate(ctx context.Context, date string) ([]Suggestion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recipe_id, suggested_for, status, reason, weather, created_at
		 FROM suggestions WHERE suggested_for = ? ORDER BY created_at DESC, id DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status of a single row. Status is the only field a
// suggestion row ever changes.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE suggestions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update suggestion status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("suggestion %d not found", id)
	}
	return nil
}

// MarkAllForDate sets the status of every row for a date.
func (r *Repository) MarkAllForDate(ctx context.Context, date string, status Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE suggestions SET status = ? WHERE suggested_for = ?`, string(status), date)
	if err != nil {
		return fmt.Errorf("failed to mark suggestions for %s: %w", date, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSuggestion(row rowScanner) (*Suggestion, error) {
	var s Suggestion
	var status, reason, snapshot string
	err := row.Scan(&s.ID, &s.RecipeID, &s.SuggestedFor, &status, &reason, &snapshot, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = Status(status)
	s.Reason = jsonx.ParseOrDefault(reason, ScoreBreakdown{})
	s.Weather = jsonx.ParseOrDefault(snapshot, weather.Snapshot{})
	return &s, nil
}
