package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	msgCommandFailed  = "❌ Something went wrong while processing your command. Please try again."
	msgUnknownCommand = "❓ Unknown command. Use /help to see available commands."
)

// Sender delivers outgoing messages. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CommandHandler handles one bot command.
type CommandHandler interface {
	Handle(ctx context.Context, bot Sender, message *tgbotapi.Message, args []string) error
}

// CommandFunc adapts a function to CommandHandler.
type CommandFunc func(ctx context.Context, bot Sender, message *tgbotapi.Message, args []string) error

func (f CommandFunc) Handle(ctx context.Context, bot Sender, message *tgbotapi.Message, args []string) error {
	return f(ctx, bot, message, args)
}

// Router dispatches commands to their handlers.
type Router struct {
	logger   *logrus.Entry
	handlers map[string]CommandHandler
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Entry) *Router {
	return &Router{
		logger:   logger,
		handlers: make(map[string]CommandHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// HandleMessage runs the handler of a command message. Other messages are
// ignored.
func (r *Router) HandleMessage(ctx context.Context, bot Sender, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	log := r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"message_id": message.MessageID,
	})
	log.WithField("text", message.Text).Debug("Received message")

	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())
	log = log.WithField("command", command)

	handler, exists := r.handlers[command]
	if !exists {
		log.Warn("Unknown command")
		r.reply(bot, message.Chat.ID, msgUnknownCommand, log)
		return
	}

	if err := handler.Handle(ctx, bot, message, args); err != nil {
		log.WithError(err).Error("Command handler failed")
		r.reply(bot, message.Chat.ID, msgCommandFailed, log)
	}
}

// HandleCallbackQuery acknowledges callback queries from inline keyboards.
func (r *Router) HandleCallbackQuery(bot Sender, callbackQuery *tgbotapi.CallbackQuery) {
	log := r.logger.WithFields(logrus.Fields{
		"callback_id": callbackQuery.ID,
		"data":        callbackQuery.Data,
	})
	log.Debug("Received callback query")

	if _, err := bot.Request(tgbotapi.NewCallback(callbackQuery.ID, "")); err != nil {
		log.WithError(err).Warn("Failed to answer callback query")
	}
}

func (r *Router) reply(bot Sender, chatID int64, text string, log *logrus.Entry) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.WithError(err).Error("Failed to send reply")
	}
}
