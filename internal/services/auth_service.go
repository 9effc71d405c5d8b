package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nbd-crr/internal/authz"
	"nbd-crr/internal/dto"
	"nbd-crr/internal/entities"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/repositories"
	"nbd-crr/pkg/config"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/utils"
)

type AuthServiceInterface interface {
	// Lookup - права пользователя по справочнику. Не найден или лист
	// недоступен - доступ закрыт везде.
	Lookup(ctx context.Context, username string) authz.Access
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.Session, error)
	Logout(ctx context.Context, sessionID string) error
	// Hydrate поднимает сессию из кеша и заново читает права.
	Hydrate(ctx context.Context, sessionID string) (*entities.Session, error)
}

type AuthService struct {
	sheets   repositories.SheetRepositoryInterface
	sessions repositories.SessionRepositoryInterface
	cfg      config.AuthConfig
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	sheets repositories.SheetRepositoryInterface,
	sessions repositories.SessionRepositoryInterface,
	cfg config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		sheets:   sheets,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AuthService) findUser(ctx context.Context, username string) (pipeline.LookupUser, bool) {
	t, err := s.sheets.Fetch(ctx, pipeline.SheetDropdown)
	if err != nil {
		s.logger.Warn("AuthService: справочник пользователей недоступен", zap.String("user", username), zap.Error(err))
		return pipeline.LookupUser{}, false
	}
	users, err := pipeline.LookupUsers(t)
	if err != nil {
		s.logger.Warn("AuthService: справочник не совпал со схемой", zap.Error(err))
		return pipeline.LookupUser{}, false
	}
	return pipeline.FindUser(users, username)
}

func accessOf(u pipeline.LookupUser) authz.Access {
	role := u.Role
	if role == "" {
		role = authz.RoleUser
	}
	if role == authz.RoleAdmin {
		return authz.AdminAccess()
	}
	return authz.Access{Role: role, Permissions: authz.ResolvePermissions(u.Permissions)}
}

func (s *AuthService) Lookup(ctx context.Context, username string) authz.Access {
	u, ok := s.findUser(ctx, username)
	if !ok {
		return authz.Denied()
	}
	return accessOf(u)
}

func (s *AuthService) isAdminLogin(payload dto.LoginDTO) bool {
	if s.cfg.AdminPasswordHash == "" {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(payload.Username), s.cfg.AdminUsername) {
		return false
	}
	return utils.ComparePasswords(s.cfg.AdminPasswordHash, payload.Password) == nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.Session, error) {
	logger := s.logger.With(zap.String("user", payload.Username))

	var (
		userName string
		access   authz.Access
	)

	if s.isAdminLogin(payload) {
		userName, access = s.cfg.AdminUsername, authz.AdminAccess()
	} else {
		u, ok := s.findUser(ctx, payload.Username)
		if !ok {
			logger.Warn("Попытка входа: пользователь не найден")
			return nil, apperrors.ErrInvalidCredentials
		}

		hash := u.PasswordHash
		if hash == "" {
			hash = s.cfg.SharedPasswordHash
		}
		if hash == "" || utils.ComparePasswords(hash, payload.Password) != nil {
			logger.Warn("Попытка входа: неверный пароль")
			return nil, apperrors.ErrInvalidCredentials
		}
		userName, access = u.Username, accessOf(u)
	}

	session := &entities.Session{
		ID:        uuid.NewString(),
		UserName:  userName,
		Role:      access.Role,
		Access:    access,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		logger.Error("Не удалось сохранить сессию", zap.Error(err))
		return nil, err
	}

	logger.Info("Пользователь вошёл в систему", zap.String("role", session.Role))
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) Hydrate(ctx context.Context, sessionID string) (*entities.Session, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Администратор из конфига в справочнике не числится.
	if session.Role == authz.RoleAdmin && strings.EqualFold(session.UserName, s.cfg.AdminUsername) {
		session.Access = authz.AdminAccess()
		return session, nil
	}

	session.Access = s.Lookup(ctx, session.UserName)
	if session.Access.Role == "" {
		s.logger.Warn("AuthService: пользователя нет в справочнике, доступ закрыт", zap.String("user", session.UserName))
	}
	return session, nil
}
