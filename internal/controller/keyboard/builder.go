package keyboard

import "github.com/go-telegram/bot/models"

// MaxCallbackData ограничение Telegram на длину callback data в байтах
const MaxCallbackData = 64

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок. Кнопки с callback data длиннее
// MaxCallbackData Telegram отклоняет, поэтому они пропускаются.
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	row := make([]models.InlineKeyboardButton, 0, len(buttons))
	for _, btn := range buttons {
		if len(btn.CallbackData) > MaxCallbackData {
			continue
		}
		row = append(row, btn)
	}
	if len(row) > 0 {
		b.rows = append(b.rows, row)
	}
	return b
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Len количество рядов
func (b *Builder) Len() int {
	return len(b.rows)
}

// Build создаёт финальную клавиатуру. Пустой builder даёт nil,
// чтобы сообщение ушло без клавиатуры.
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	if len(b.rows) == 0 {
		return nil
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}
