package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"weekmenu/internal/apperr"
	"weekmenu/internal/jsonx"
)

// Repository is a database-backed repository for recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recipeColumns = `id, slug, name, category, ingredients, instructions, servings,
	image_url, source_url, season_tags, weather_tags, created_at, updated_at`

// Create inserts a new recipe, assigning its id and a unique slug.
func (r *Repository) Create(ctx context.Context, rec *Recipe) error {
	if rec.Name == "" {
		return apperr.InvalidInput("recipe name is required")
	}
	if !rec.Category.Valid() {
		return apperr.InvalidInput("unknown category %q", rec.Category)
	}
	if rec.Servings <= 0 {
		rec.Servings = 2
	}

	rec.ID = uuid.NewString()
	slug, err := r.uniqueSlug(ctx, rec.Name, rec.ID)
	if err != nil {
		return err
	}
	rec.Slug = slug

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Slug, rec.Name, string(rec.Category),
		jsonx.MustMarshal(rec.Ingredients, "[]"),
		jsonx.MustMarshal(rec.Instructions, "[]"),
		rec.Servings, rec.ImageURL, rec.SourceURL,
		jsonx.MustMarshal(rec.SeasonTags, "[]"),
		jsonx.MustMarshal(rec.WeatherTags, "[]"),
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// Update rewrites a recipe's mutable fields. A changed name re-derives the slug.
func (r *Repository) Update(ctx context.Context, rec *Recipe) error {
	existing, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	if !rec.Category.Valid() {
		return apperr.InvalidInput("unknown category %q", rec.Category)
	}
	if rec.Servings <= 0 {
		return apperr.InvalidInput("servings must be positive")
	}

	rec.Slug = existing.Slug
	if rec.Name != existing.Name {
		slug, err := r.uniqueSlug(ctx, rec.Name, rec.ID)
		if err != nil {
			return err
		}
		rec.Slug = slug
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `UPDATE recipes SET slug = ?, name = ?, category = ?,
		ingredients = ?, instructions = ?, servings = ?, image_url = ?, source_url = ?,
		season_tags = ?, weather_tags = ?, updated_at = ? WHERE id = ?`,
		rec.Slug, rec.Name, string(rec.Category),
		jsonx.MustMarshal(rec.Ingredients, "[]"),
		jsonx.MustMarshal(rec.Instructions, "[]"),
		rec.Servings, rec.ImageURL, rec.SourceURL,
		jsonx.MustMarshal(rec.SeasonTags, "[]"),
		jsonx.MustMarshal(rec.WeatherTags, "[]"),
		rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return nil
}

// Delete removes a recipe. History, suggestions and week-plan rows cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("recipe %s not found", id)
	}
	return nil
}

// GetByID retrieves a recipe by its id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Recipe, error) {
	return r.one(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
}

// GetBySlug retrieves a recipe by its slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Recipe, error) {
	return r.one(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE slug = ?`, slug)
}

// List retrieves all recipes ordered by name.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	return r.many(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY name`)
}

// ListByCategory retrieves all recipes in a category ordered by name.
func (r *Repository) ListByCategory(ctx context.Context, category Category) ([]Recipe, error) {
	return r.many(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE category = ? ORDER BY name`,
		string(category))
}

// Search retrieves recipes whose name or ingredient list contains the query,
// case-insensitively.
func (r *Repository) Search(ctx context.Context, query string) ([]Recipe, error) {
	like := "%" + query + "%"
	return r.many(ctx, `SELECT `+recipeColumns+` FROM recipes
		WHERE name LIKE ? COLLATE NOCASE OR ingredients LIKE ? COLLATE NOCASE
		ORDER BY name`, like, like)
}

// Count returns the number of recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

func (r *Repository) one(ctx context.Context, query string, args ...any) (*Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("recipe not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return rec, nil
}

func (r *Repository) many(ctx context.Context, query string, args ...any) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	return recipes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var rec Recipe
	var category, ingredients, instructions, seasonTags, weatherTags string
	err := row.Scan(&rec.ID, &rec.Slug, &rec.Name, &category, &ingredients,
		&instructions, &rec.Servings, &rec.ImageURL, &rec.SourceURL,
		&seasonTags, &weatherTags, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Category = Category(category)
	rec.Ingredients = jsonx.ParseOrDefault(ingredients, []Ingredient{})
	rec.Instructions = jsonx.ParseOrDefault(instructions, []string{})
	rec.SeasonTags = jsonx.ParseOrDefault(seasonTags, []Season{})
	rec.WeatherTags = jsonx.ParseOrDefault(weatherTags, []WeatherTag{})
	return &rec, nil
}

// uniqueSlug derives a slug from name, appending -2, -3, ... until it is free.
// Single-user tool: the check-then-insert race is tolerated.
func (r *Repository) uniqueSlug(ctx context.Context, name, selfID string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "recept"
	}
	slug := base
	for i := 2; ; i++ {
		var owner string
		err := r.db.QueryRowContext(ctx,
			`SELECT id FROM recipes WHERE slug = ?`, slug).Scan(&owner)
		if err == sql.ErrNoRows || (err == nil && owner == selfID) {
			return slug, nil
		}
		if err != nil && err != sql.ErrNoRows {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
