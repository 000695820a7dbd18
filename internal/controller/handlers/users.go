package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_bot/internal/controller/formatting"
	"github.com/Freeeeeet/studio_bot/internal/model"
)

func (h *Handlers) handleMe(_ context.Context, req *request) (string, error) {
	return fmt.Sprintf(
		"👤 %s\n\n"+
			"ID: %s\n"+
			"Роль: %s\n"+
			"С нами с %s",
		displayName(req.user),
		req.user.ID,
		formatting.GetUserTypeText(req.user.UserType),
		formatting.FormatDate(req.user.CreatedAt),
	), nil
}

// handleUsers /users [тип]
func (h *Handlers) handleUsers(ctx context.Context, req *request) (string, error) {
	userType := model.UserType(strings.ToLower(req.args))

	users, err := h.userService.ListByType(ctx, userType)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "👥 Пользователей нет.", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 Пользователи (%d):\n", len(users)))
	for _, user := range users {
		sb.WriteString(fmt.Sprintf("\n%s - %s\n%s\n",
			displayName(user),
			formatting.GetUserTypeText(user.UserType),
			user.ID,
		))
	}
	return sb.String(), nil
}

// handleSetRole /setrole <id> <роль>
func (h *Handlers) handleSetRole(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) != 2 {
		return "", argError("использование: /setrole <id пользователя> <student|teacher|sponsor|admin>")
	}

	userID, err := parseID("user_id", fields[0])
	if err != nil {
		return "", err
	}

	user, err := h.userService.SetUserType(ctx, userID, model.UserType(strings.ToLower(fields[1])))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ %s теперь %s", displayName(user), formatting.GetUserTypeText(user.UserType)), nil
}

func displayName(user *model.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if user.Username != "" {
		if name == "" {
			return "@" + user.Username
		}
		return fmt.Sprintf("%s (@%s)", name, user.Username)
	}
	if name == "" {
		return fmt.Sprintf("id%d", user.TelegramID)
	}
	return name
}
