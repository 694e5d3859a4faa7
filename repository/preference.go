package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// PreferenceRepository is an opaque per-user key-value store for UI state.
type PreferenceRepository interface {
	Get(ctx context.Context, userID, key string) (*domain.Preference, error)
	Put(ctx context.Context, pref *domain.Preference) error
	List(ctx context.Context, userID string) ([]domain.Preference, error)
}
