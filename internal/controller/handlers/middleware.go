package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// Telegram не принимает сообщения длиннее 4096 символов
const maxMessageLength = 4000

var (
	errNotRegistered = errors.New("user is not registered")
	errForbidden     = errors.New("command is not allowed for user")
)

// authorize находит пользователя и проверяет уровень доступа команды
func (h *Handlers) authorize(ctx context.Context, req *request, level access) error {
	if level == accessPublic {
		return nil
	}

	user, err := h.userService.GetByTelegramID(ctx, req.from.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return errNotRegistered
	}
	req.user = user

	if !allowed(user, level) {
		return errForbidden
	}
	return nil
}

func allowed(user *model.User, level access) bool {
	switch level {
	case accessAdmin:
		return user.IsAdmin()
	case accessStaff:
		return user.IsAdmin() || user.IsTeacher()
	}
	return true
}

// userMessage переводит ошибку сервиса в текст для пользователя
func (h *Handlers) userMessage(err error) string {
	switch {
	case errors.Is(err, errNotRegistered):
		return "❌ Пользователь не найден. Используйте /start для регистрации."
	case errors.Is(err, errForbidden):
		return "❌ Эта команда доступна только сотрудникам студии."
	case errors.Is(err, service.ErrInvalidInput):
		return "⚠️ Некорректные данные: " + errorDetail(err, service.ErrInvalidInput)
	case errors.Is(err, service.ErrNotFound):
		return "🔍 Не найдено: " + err.Error()
	}

	h.logger.Error("Command failed", zap.Error(err))
	return "❌ Произошла ошибка. Попробуйте позже."
}

// errorDetail текст ошибки после префикса sentinel
func errorDetail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение (длинное режется по строкам) и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		})
		if err != nil {
			h.logger.Error("Failed to send message",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return
		}
	}
}

// splitMessage делит текст на части не длиннее limit символов по границам строк
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	chunks := make([]string, 0)
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if currentLen+len(runes) > limit {
			flush()
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()

	return chunks
}
