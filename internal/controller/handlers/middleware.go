package handlers

import (
	"context"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireAdmin пропускает только сообщения из чата администратора
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil {
		return false
	}

	chatID := update.Message.Chat.ID
	if !h.access.Allowed(chatID) {
		h.logger.Warn("Message from foreign chat",
			zap.Int64("chat_id", chatID),
			zap.String("text", update.Message.Text))
		h.sendError(ctx, b, chatID, common.AccessDenied)
		return false
	}

	return true
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

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	common.SendMessage(ctx, b, h.logger, chatID, text, markup)
}

// persist сохраняет изменения и предупреждает чат, если база недоступна
func (h *Handlers) persist(ctx context.Context, b *bot.Bot, chatID int64) {
	if err := h.persister.Persist(ctx); err != nil {
		h.sendError(ctx, b, chatID, common.SaveWarning)
	}
}
