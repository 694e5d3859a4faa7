package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type preferenceRepository struct {
	client *redislib.Client
	prefix string
}

// NewPreferenceRepository keeps each user's preferences in one Redis hash.
func NewPreferenceRepository(client *redislib.Client) repository.PreferenceRepository {
	return &preferenceRepository{
		client: client,
		prefix: keyPrefix + "prefs:",
	}
}

func (r *preferenceRepository) Get(ctx context.Context, userID, key string) (*domain.Preference, error) {
	raw, err := r.client.HGet(ctx, r.key(userID), key).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return decodePreference(userID, raw)
}

func (r *preferenceRepository) Put(ctx context.Context, pref *domain.Preference) error {
	if pref == nil || pref.UserID == "" || pref.Key == "" {
		return domain.ErrInvalidPayload
	}
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.key(pref.UserID), pref.Key, payload).Err()
}

func (r *preferenceRepository) List(ctx context.Context, userID string) ([]domain.Preference, error) {
	all, err := r.client.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	prefs := make([]domain.Preference, 0, len(all))
	for _, raw := range all {
		pref, err := decodePreference(userID, []byte(raw))
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, *pref)
	}
	sort.Slice(prefs, func(i, j int) bool { return prefs[i].Key < prefs[j].Key })
	return prefs, nil
}

func (r *preferenceRepository) key(userID string) string {
	return r.prefix + userID
}

func decodePreference(userID string, raw []byte) (*domain.Preference, error) {
	var pref domain.Preference
	if err := json.Unmarshal(raw, &pref); err != nil {
		return nil, fmt.Errorf("decode preference: %w", err)
	}
	pref.UserID = userID
	return &pref, nil
}
