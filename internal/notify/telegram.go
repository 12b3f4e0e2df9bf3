package notify

import (
	"fmt"
	"log"

	"civicbot/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StaffAlerter pings operators on Telegram when a record is assigned to
// them. Operators opt in by linking a Telegram chat id on their profile;
// without one the alert is skipped silently.
type StaffAlerter struct {
	Bot *tgbotapi.BotAPI
}

// NewStaffAlerter authorizes the bot with the given token.
func NewStaffAlerter(token string) (*StaffAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("INFO: Staff alert bot authorized on account %s", bot.Self.UserName)
	return &StaffAlerter{Bot: bot}, nil
}

// AlertAssignment tells the assignee a record has landed on them.
func (a *StaffAlerter) AlertAssignment(assignee *models.User, rec models.WorkflowRecord) error {
	if assignee.TelegramChatID == 0 {
		return nil
	}
	text := fmt.Sprintf("📋 New %s assigned to you: %s (status %s)",
		rec.Kind(), rec.GetID(), rec.GetStatus())
	msg := tgbotapi.NewMessage(assignee.TelegramChatID, text)
	if _, err := a.Bot.Send(msg); err != nil {
		return fmt.Errorf("telegram alert to %s failed: %w", assignee.ID, err)
	}
	return nil
}
