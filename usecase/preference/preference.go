// Package preference stores small per-user UI settings such as the last visit
// date or the preferred statistic sort. Values are opaque to the server.
package preference

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const maxValueBytes = 4 << 10

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_.-]{0,63}$`)

type UseCase struct {
	prefs  repository.PreferenceRepository
	clock  func() time.Time
	logger *zap.Logger
}

func New(prefs repository.PreferenceRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{prefs: prefs, clock: time.Now, logger: logger}
}

func (uc *UseCase) Get(ctx context.Context, userID, key string) (*domain.Preference, error) {
	if err := validate(userID, key); err != nil {
		return nil, err
	}
	return uc.prefs.Get(ctx, userID, key)
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.Preference, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return uc.prefs.List(ctx, userID)
}

func (uc *UseCase) Put(ctx context.Context, userID, key, value string) (*domain.Preference, error) {
	if err := validate(userID, key); err != nil {
		return nil, err
	}
	if len(value) > maxValueBytes {
		return nil, domain.NewError(domain.ErrCodeInvalid, "preference value is too large")
	}
	pref := &domain.Preference{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: uc.clock().UTC(),
	}
	if err := uc.prefs.Put(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

func validate(userID, key string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if !keyPattern.MatchString(key) {
		return domain.NewError(domain.ErrCodeInvalid, "invalid preference key")
	}
	return nil
}
