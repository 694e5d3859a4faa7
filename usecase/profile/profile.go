package profile

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
)

const maxNameLength = 120

type UseCase struct {
	users  repository.UserRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(users repository.UserRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		buffer: buffer,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return uc.users.GetByID(ctx, userID)
}

// ListUsers returns everyone a task can be assigned to.
func (uc *UseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

// UpdateProfile changes the display name and avatar. An empty avatar clears it.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, profile domain.Profile) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if utf8.RuneCountInString(profile.Name) > maxNameLength {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is too long")
	}
	if profile.Avatar != nil && strings.TrimSpace(*profile.Avatar) == "" {
		profile.Avatar = nil
	}

	user, err := uc.users.UpdateProfile(ctx, userID, profile)
	if err == nil {
		return user, nil
	}
	var dErr *domain.Error
	if uc.buffer == nil || errors.As(err, &dErr) {
		return nil, err
	}
	if bufErr := uc.buffer.BufferProfile(ctx, userID, profile); bufErr != nil {
		uc.logger.Error("failed to buffer profile update", zap.Error(bufErr))
		return nil, err
	}
	uc.logger.Warn("profile update buffered due to repository error", zap.Error(err))
	return &domain.User{ID: userID, Name: profile.Name, Avatar: profile.Avatar}, nil
}
