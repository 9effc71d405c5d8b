package repositories

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nbd-crr/internal/entities"
	apperrors "nbd-crr/pkg/errors"
)

// SessionRepositoryInterface хранит сессию как два ключа: имя и роль.
type SessionRepositoryInterface interface {
	Save(ctx context.Context, session *entities.Session, ttl time.Duration) error
	Find(ctx context.Context, sessionID string) (*entities.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	cache  CacheRepositoryInterface
	logger *zap.Logger
}

func NewSessionRepository(cache CacheRepositoryInterface, logger *zap.Logger) SessionRepositoryInterface {
	return &sessionRepository{cache: cache, logger: logger}
}

func userNameKey(sessionID string) string { return fmt.Sprintf("session:%s:userName", sessionID) }
func userRoleKey(sessionID string) string { return fmt.Sprintf("session:%s:userRole", sessionID) }

func (r *sessionRepository) Save(ctx context.Context, session *entities.Session, ttl time.Duration) error {
	if err := r.cache.Set(ctx, userNameKey(session.ID), session.UserName, ttl); err != nil {
		return fmt.Errorf("не удалось сохранить имя пользователя сессии: %w", err)
	}
	if err := r.cache.Set(ctx, userRoleKey(session.ID), session.Role, ttl); err != nil {
		_ = r.cache.Del(ctx, userNameKey(session.ID))
		return fmt.Errorf("не удалось сохранить роль сессии: %w", err)
	}
	return nil
}

// Find восстанавливает сессию. Сессия есть, только если на месте оба ключа.
func (r *sessionRepository) Find(ctx context.Context, sessionID string) (*entities.Session, error) {
	name, err := r.cache.Get(ctx, userNameKey(sessionID))
	if err != nil {
		if IsCacheMiss(err) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	role, err := r.cache.Get(ctx, userRoleKey(sessionID))
	if err != nil {
		if IsCacheMiss(err) {
			r.logger.Warn("SessionRepository: у сессии нет роли", zap.String("session_id", sessionID))
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("ошибка чтения роли сессии: %w", err)
	}
	return &entities.Session{ID: sessionID, UserName: name, Role: role}, nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.cache.Del(ctx, userNameKey(sessionID), userRoleKey(sessionID)); err != nil {
		return fmt.Errorf("не удалось удалить сессию: %w", err)
	}
	return nil
}
