// Package telegram handles the integration with the Telegram Bot API.
// It delivers missed-call notifications to users who linked a Telegram
// account and are not reachable through a live WebSocket connection.
package telegram

import (
	"fmt"
	"log"
	"strconv"

	"rentgo/backend/internal/localization"
	"rentgo/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier implements callhub.MissedCallNotifier.
type Notifier struct {
	BotAPI    *tgbotapi.BotAPI
	Storage   storage.Storage
	Localizer *localization.Localizer
}

// NewNotifier creates a new Notifier instance.
func NewNotifier(token string, s storage.Storage) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	localizer, err := localization.NewLocalizer("internal/localization")
	if err != nil {
		return nil, fmt.Errorf("failed to create localizer: %w", err)
	}

	return &Notifier{
		BotAPI:    bot,
		Storage:   s,
		Localizer: localizer,
	}, nil
}

// NotifyMissedCall надсилає користувачу Telegram-повідомлення про дзвінок,
// який він пропустив (був офлайн або не відповів до таймауту).
// Якщо Telegram не прив'язаний — мовчки нічого не робимо.
func (n *Notifier) NotifyMissedCall(userID, callerName string) {
	user, err := n.Storage.GetUserByID(userID)
	if err != nil {
		log.Printf("Missed-call notify: failed to load user %s: %v", userID, err)
		return
	}
	if user.TelegramID == "" {
		return
	}

	chatID, err := strconv.ParseInt(user.TelegramID, 10, 64)
	if err != nil || chatID == 0 {
		log.Printf("Missed-call notify: bad telegram id for user %s", userID)
		return
	}

	lang := user.Locale
	if lang == "" {
		lang = "en"
	}
	text := fmt.Sprintf(n.Localizer.GetString(lang, "missed_call"), escapeMarkdownV2(callerName))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("Missed-call notify: send to %d failed: %v", chatID, err)
	}
}
