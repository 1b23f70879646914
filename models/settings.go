package models

// SettingsID is the primary key of the only settings row.
const SettingsID = 1

type Settings struct {
	RestaurantName   string `json:"restaurant_name"`
	Currency         string `json:"currency"`
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramChatID   string `json:"telegram_chat_id"`
}

// Public returns a copy safe to show on the waiter screen.
func (s Settings) Public() Settings {
	s.TelegramBotToken = ""
	return s
}

// TelegramConfigured reports whether orders can be relayed to the kitchen chat.
func (s Settings) TelegramConfigured() bool {
	return s.TelegramBotToken != "" && s.TelegramChatID != ""
}
