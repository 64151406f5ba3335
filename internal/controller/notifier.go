package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/screens"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/go-telegram/bot"
)

// DigestNotifier отправляет утреннюю сводку в чат администратора
type DigestNotifier struct {
	bot    *bot.Bot
	chatID int64
}

func NewDigestNotifier(botInstance *bot.Bot, chatID int64) *DigestNotifier {
	return &DigestNotifier{bot: botInstance, chatID: chatID}
}

// SendDigest отправляет список записей на дату
func (n *DigestNotifier) SendDigest(ctx context.Context, date model.Date, views []model.AppointmentView) error {
	title := "☀️ Доброе утро! Записи на " + formatting.FormatDateWithWeekday(date)
	text, kb := screens.BuildAppointmentList(title, views)

	params := &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   common.Truncate(text),
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	if _, err := n.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send digest for %s: %w", date, err)
	}
	return nil
}
