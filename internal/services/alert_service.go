package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertService pushes operational alerts to a Telegram chat. A nil
// receiver is fine everywhere, so callers never have to guard the case
// where no bot is configured.
type AlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewAlertService(botToken string, chatID int64) *AlertService {
	if botToken == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[alerts] telegram init failed, alerts disabled: %v", err)
		return nil
	}
	return &AlertService{bot: bot, chatID: chatID}
}

func (a *AlertService) NotifyDeliveryFailure(recipient string, cause error) {
	if a == nil || a.bot == nil {
		return
	}
	text := fmt.Sprintf("email delivery failed\nto: %s\ncause: %v", recipient, cause)
	if _, err := a.bot.Send(tgbotapi.NewMessage(a.chatID, text)); err != nil {
		log.Printf("[alerts] telegram send failed: %v", err)
	}
}
