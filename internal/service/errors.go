package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrInvalidInput ошибка входных данных, повторять бессмысленно
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound сущность (или сущность по ссылке) не существует
	ErrNotFound = errors.New("not found")
	// ErrInternal сбой хранилища; детали только в логах
	ErrInternal = errors.New("internal failure")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// internalError логирует причину и возвращает непрозрачную ошибку
func internalError(logger *zap.Logger, op string, err error, fields ...zap.Field) error {
	logger.Error("Storage operation failed",
		append(fields, zap.String("op", op), zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, ErrInternal)
}
