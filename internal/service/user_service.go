package service

import (
	"context"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserRepository
	admins   map[int64]bool // telegram ID администраторов из конфига
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, adminTelegramIDs []int64, logger *zap.Logger) *UserService {
	admins := make(map[int64]bool, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = true
	}

	return &UserService{
		userRepo: userRepo,
		admins:   admins,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, internalError(s.logger, "check existing user", err, zap.Int64("telegram_id", telegramID))
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode
		if s.admins[telegramID] {
			existingUser.UserType = model.UserTypeAdmin
		}

		if err := s.userRepo.Update(ctx, existingUser); err != nil {
			return nil, internalError(s.logger, "update user", err, zap.Int64("telegram_id", telegramID))
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	// Создаём нового пользователя
	user := &model.User{
		ID:           uuid.New(),
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		UserType:     model.UserTypeStudent, // По умолчанию ученик
	}
	if s.admins[telegramID] {
		user.UserType = model.UserTypeAdmin
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, internalError(s.logger, "create user", err, zap.Int64("telegram_id", telegramID))
	}

	s.logger.Info("New user registered",
		zap.String("user_id", user.ID.String()),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.String("user_type", string(user.UserType)),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, internalError(s.logger, "get user by telegram id", err, zap.Int64("telegram_id", telegramID))
	}
	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internalError(s.logger, "get user", err, zap.String("user_id", id.String()))
	}
	if user == nil {
		return nil, notFound("user")
	}
	return user, nil
}

// ListByType пользователи одного типа (ученики, преподаватели...)
func (s *UserService) ListByType(ctx context.Context, userType model.UserType) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx, userType)
	if err != nil {
		return nil, internalError(s.logger, "list users", err, zap.String("user_type", string(userType)))
	}
	return users, nil
}

// SetUserType меняет роль пользователя
func (s *UserService) SetUserType(ctx context.Context, id uuid.UUID, userType model.UserType) (*model.User, error) {
	if err := validate.Var(string(userType), "required,oneof=student teacher sponsor admin"); err != nil {
		return nil, invalidInput("user_type must be one of [student teacher sponsor admin]")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.UserType = userType
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError(s.logger, "update user", err, zap.String("user_id", id.String()))
	}

	s.logger.Info("User type changed",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("user_type", string(userType)),
	)

	return user, nil
}
