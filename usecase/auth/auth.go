package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims are carried by both token kinds; Kind tells them apart.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	Kind      string `json:"typ"`
	jwt.RegisteredClaims
}

// Tokens is the result of a login or refresh.
type Tokens struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *domain.User `json:"user,omitempty"`
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      Config
	clock    func() time.Time
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, cfg Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		clock:    time.Now,
		logger:   logger,
	}
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the credentials and opens a session.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*Tokens, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}

	now := uc.clock()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.RefreshTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	tokens, err := uc.issue(session, now)
	if err != nil {
		return nil, err
	}
	tokens.User = user
	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return tokens, nil
}

// Refresh exchanges a refresh token for a new pair and extends the session.
func (uc *UseCase) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	claims, err := uc.parse(refreshToken, tokenRefresh)
	if err != nil {
		return nil, err
	}
	session, err := uc.session(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, session.ID, uc.cfg.RefreshTTL); err != nil {
		return nil, err
	}
	now := uc.clock()
	session.ExpiresAt = now.Add(uc.cfg.RefreshTTL)
	return uc.issue(session, now)
}

// Logout ends the session the token belongs to. Either token kind is accepted.
func (uc *UseCase) Logout(ctx context.Context, token string) error {
	claims, err := uc.parse(token, "")
	if err != nil {
		return err
	}
	return uc.sessions.Delete(ctx, claims.SessionID)
}

// Verify resolves an access token to its live session.
func (uc *UseCase) Verify(ctx context.Context, accessToken string) (*domain.Session, error) {
	claims, err := uc.parse(accessToken, tokenAccess)
	if err != nil {
		return nil, err
	}
	session, err := uc.session(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

func (uc *UseCase) session(ctx context.Context, id string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.IsExpired(uc.clock()) {
		_ = uc.sessions.Delete(ctx, id)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

func (uc *UseCase) issue(session *domain.Session, now time.Time) (*Tokens, error) {
	access, err := uc.sign(session, tokenAccess, now, now.Add(uc.cfg.AccessTTL))
	if err != nil {
		return nil, err
	}
	refresh, err := uc.sign(session, tokenRefresh, now, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(uc.cfg.AccessTTL),
	}, nil
}

func (uc *UseCase) sign(session *domain.Session, kind string, now, expires time.Time) (string, error) {
	claims := Claims{
		UserID:    session.UserID,
		SessionID: session.ID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    uc.cfg.Issuer,
			Subject:   session.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (uc *UseCase) parse(token, kind string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(uc.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		uc.logger.Debug("rejected token", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if kind != "" && claims.Kind != kind {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "wrong token kind")
	}
	if claims.SessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &claims, nil
}
