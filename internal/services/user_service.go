package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nbd-crr/internal/authz"
	"nbd-crr/internal/dto"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/repositories"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/utils"
)

type UserServiceInterface interface {
	List(ctx context.Context) ([]dto.UserDTO, error)
	Add(ctx context.Context, payload dto.CreateUserDTO) (*dto.SubmitResultDTO, error)
}

type UserService struct {
	sheets      repositories.SheetRepositoryInterface
	submissions SubmissionServiceInterface
	validator   Validator
	logger      *zap.Logger
}

func NewUserService(
	sheets repositories.SheetRepositoryInterface,
	submissions SubmissionServiceInterface,
	validator Validator,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{sheets: sheets, submissions: submissions, validator: validator, logger: logger}
}

func (s *UserService) users(ctx context.Context) ([]pipeline.LookupUser, error) {
	t, err := s.sheets.Fetch(ctx, pipeline.SheetDropdown)
	if err != nil {
		return nil, err
	}
	return pipeline.LookupUsers(t)
}

func (s *UserService) List(ctx context.Context) ([]dto.UserDTO, error) {
	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		access := accessOf(u)
		perms := make([]string, 0, len(access.Permissions))
		for _, flag := range authz.KnownFlags() {
			if access.Permissions[flag] {
				perms = append(perms, flag)
			}
		}
		out = append(out, dto.UserDTO{
			RowIndex:    u.RowIndex,
			Username:    u.Username,
			Role:        access.Role,
			Permissions: perms,
			HasPassword: u.PasswordHash != "",
		})
	}
	return out, nil
}

// Add дописывает пользователя в справочник через скрипт таблицы.
func (s *UserService) Add(ctx context.Context, payload dto.CreateUserDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}

	for _, p := range payload.Permissions {
		if !authz.IsKnownFlag(p) && !strings.EqualFold(p, authz.GrantAll) {
			return nil, apperrors.NewValidationError(map[string]string{"permissions": "неизвестный флаг: " + p})
		}
	}

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	if _, exists := pipeline.FindUser(users, payload.Username); exists {
		return nil, apperrors.NewHttpError(http.StatusConflict, fmt.Sprintf("пользователь '%s' уже есть", payload.Username), apperrors.ErrBadRequest, nil)
	}

	var hash string
	if payload.Password != "" {
		if hash, err = utils.HashPassword(payload.Password); err != nil {
			return nil, err
		}
	}

	s.logger.Info("UserService: добавление пользователя",
		zap.String("user", payload.Username), zap.String("role", payload.Role), zap.String("by", utils.ActorName(ctx)))
	return s.submissions.Submit(ctx, userRow(payload, hash))
}
