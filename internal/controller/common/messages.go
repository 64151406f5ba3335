package common

import (
	"context"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxMessageRunes запас под лимит Telegram в 4096 символов
const maxMessageRunes = 4000

// SaveWarning сообщение, когда изменение не удалось сохранить в базу
const SaveWarning = "⚠️ Изменение применено, но не сохранено в базе. Оно пропадёт после перезапуска бота."

// AccessDenied ответ на запрос из чужого чата
const AccessDenied = "⛔ Бот доступен только администратору клиники."

// Truncate обрезает текст до лимита сообщения
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageRunes-1]) + "…"
}

// SendMessage отправляет сообщение и логирует если не удалось
func SendMessage(ctx context.Context, b *bot.Bot, logger *zap.Logger, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   Truncate(text),
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// EditMessage заменяет текст и клавиатуру сообщения
func EditMessage(ctx context.Context, b *bot.Bot, logger *zap.Logger, msg *models.Message, text string, markup *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      Truncate(text),
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.EditMessageText(ctx, params); err != nil {
		logger.Error("Failed to edit message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err),
		)
	}
}
