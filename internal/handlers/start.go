package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/shoplist/internal/telegram"
)

const welcomeText = `🛒 *Welcome to Shoplist!*

I keep your shopping lists. Every list belongs to you and can be reused week after week.

Start with ` + "`/newlist Weekly`" + `, then add items with ` + "`/add Milk x2`" + `.

Use /help to see every command.`

// Start processes the /start command.
func (h *Handlers) Start(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	if err := reply(bot, message.Chat.ID, welcomeText); err != nil {
		return err
	}
	h.log(message).Info("Sent start message")
	return nil
}
