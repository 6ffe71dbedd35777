package telegram

import "github.com/go-telegram/bot/models"

const (
	CallbackHelp      = "help"
	CallbackClearChat = "clear_chat"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// StartKeyboard is shown under the greeting.
func StartKeyboard() *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(
		InlineButton("Помощь", CallbackHelp),
		InlineButton("Очистить чат", CallbackClearChat),
	))
}

// HelpKeyboard is shown under the help text.
func HelpKeyboard() *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(InlineButton("Очистить чат", CallbackClearChat)))
}
