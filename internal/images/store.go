// Package images provides file-based storage for generated dish images.
package images

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store writes generated images under a base directory, one file per recipe.
type Store struct {
	basePath string
}

// NewStore creates a new Store and ensures the base directory exists.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", basePath, err)
	}
	return &Store{basePath: basePath}, nil
}

// BasePath returns the directory images are stored in.
func (s *Store) BasePath() string {
	return s.basePath
}

func (s *Store) path(recipeID string) string {
	return filepath.Join(s.basePath, recipeID+".png")
}

// Save stores an image for a recipe, replacing any previous one, and returns
// the filename to serve it under.
func (s *Store) Save(recipeID string, data []byte) (string, error) {
	if err := os.WriteFile(s.path(recipeID), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return recipeID + ".png", nil
}

// Exists checks whether a recipe has a stored image.
func (s *Store) Exists(recipeID string) bool {
	_, err := os.Stat(s.path(recipeID))
	return !os.IsNotExist(err)
}

// Remove deletes a recipe's stored image, if any.
func (s *Store) Remove(recipeID string) error {
	err := os.Remove(s.path(recipeID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}
