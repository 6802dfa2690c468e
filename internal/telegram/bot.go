package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrAlreadyRunning is returned by Start when the bot is already polling.
var ErrAlreadyRunning = errors.New("bot is already running")

// Bot wraps the Telegram bot API
type Bot struct {
	sender  Sender
	updates func(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	stop    func()
	parse   func(*http.Request) (*tgbotapi.Update, error)
	logger  *logrus.Entry
	router  *Router
	running *atomic.Bool
}

// NewBot creates a new Telegram bot instance
func NewBot(token string, logger *logrus.Entry) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	b := newBot(api, logger)
	b.updates = api.GetUpdatesChan
	b.stop = api.StopReceivingUpdates
	b.parse = api.HandleUpdate
	return b, nil
}

func newBot(sender Sender, logger *logrus.Entry) *Bot {
	return &Bot{
		sender:  sender,
		logger:  logger,
		router:  NewRouter(logger),
		running: atomic.NewBool(false),
	}
}

// RegisterCommand registers a command handler on the router
func (b *Bot) RegisterCommand(command string, handler CommandHandler) {
	b.router.RegisterCommand(command, handler)
}

// Running reports whether the bot is receiving updates.
func (b *Bot) Running() bool {
	return b.running.Load()
}

// SetWebhook sets up webhook for the bot
func (b *Bot) SetWebhook(webhookURL string) error {
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}

	if _, err = b.sender.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	b.running.Store(true)
	b.logger.Infof("Webhook set to %s", webhookURL)
	return nil
}

// Start receives updates with long polling until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	if !b.running.CAS(false, true) {
		return ErrAlreadyRunning
	}
	defer b.running.Store(false)

	// Polling and a webhook are mutually exclusive.
	if _, err := b.sender.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.updates(u)

	b.logger.Info("Bot started with long polling")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping bot...")
			b.stop()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// WebhookHandler serves updates pushed by Telegram.
func (b *Bot) WebhookHandler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		update, err := b.parse(r)
		if err != nil {
			b.logger.WithError(err).Warn("Rejected webhook update")
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		go b.handleUpdate(ctx, *update)
		w.WriteHeader(http.StatusOK)
	})
}

// handleUpdate processes incoming updates
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("Panic in update handler: %v", r)
		}
	}()

	if update.Message != nil {
		b.router.HandleMessage(ctx, b.sender, update.Message)
	} else if update.CallbackQuery != nil {
		b.router.HandleCallbackQuery(b.sender, update.CallbackQuery)
	}
}
