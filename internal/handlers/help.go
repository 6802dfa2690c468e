package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/shoplist/internal/telegram"
)

const helpText = `📚 *Shoplist Help*

*Lists:*
• /newlist <name> [| description] - Create and open a list
• /lists - Show your lists
• /open <n> - Open list number n
• /rename <name> - Rename the open list
• /describe <text> - Set the description
• /use - Count one more shopping trip
• /dellist - Delete the open list

*Items:*
• /add <product> [xN] - Add a product
• /items - Show every item
• /pending - Show items still to buy
• /bought <n> - Toggle item n as bought
• /qty <n> <quantity> - Change the quantity
• /remove <n> - Remove item n`

// Help processes the /help command.
func (h *Handlers) Help(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	if err := reply(bot, message.Chat.ID, helpText); err != nil {
		return err
	}
	h.log(message).Debug("Sent help message")
	return nil
}
