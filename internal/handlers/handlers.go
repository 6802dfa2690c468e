// Package handlers implements the shopping list bot commands. The sender's
// Telegram user id owns the lists, and every chat member gets a separate
// liststate.Store so group chats never share an open list.
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/dto"
	"github.com/Kerhoff/shoplist/internal/liststate"
	"github.com/Kerhoff/shoplist/internal/models"
	"github.com/Kerhoff/shoplist/internal/telegram"
)

const (
	msgNoCurrentList = "📋 No list is open. Use /lists and then `/open <n>`."
	msgBadIndex      = "❌ Unknown item number. Use /items to see the numbers."
)

// ProductFinder resolves catalog products by name.
type ProductFinder interface {
	FindOrCreateProduct(ctx context.Context, name string, unit models.Unit) (*models.Product, error)
}

// Registrar accepts command handlers. *telegram.Bot implements it.
type Registrar interface {
	RegisterCommand(command string, handler telegram.CommandHandler)
}

// Handlers holds the dependencies shared by all commands.
type Handlers struct {
	registry *liststate.Registry
	catalog  ProductFinder
	logger   *logrus.Entry
}

// New creates the command handlers.
func New(registry *liststate.Registry, catalog ProductFinder, logger *logrus.Entry) *Handlers {
	return &Handlers{registry: registry, catalog: catalog, logger: logger}
}

// Register binds every command to r.
func (h *Handlers) Register(r Registrar) {
	commands := map[string]telegram.CommandFunc{
		"start":    h.Start,
		"help":     h.Help,
		"newlist":  h.NewList,
		"lists":    h.Lists,
		"open":     h.Open,
		"rename":   h.Rename,
		"describe": h.Describe,
		"dellist":  h.DeleteList,
		"use":      h.Use,
		"add":      h.Add,
		"items":    h.Items,
		"pending":  h.Pending,
		"bought":   h.Bought,
		"remove":   h.Remove,
		"qty":      h.Quantity,
	}
	for name, fn := range commands {
		r.RegisterCommand(name, fn)
	}
}

func (h *Handlers) store(message *tgbotapi.Message) *liststate.Store {
	return h.registry.Get(sessionKey(message))
}

// sessionKey identifies one user within one chat.
func sessionKey(message *tgbotapi.Message) string {
	return strconv.FormatInt(message.Chat.ID, 10) + ":" + owner(message)
}

func owner(message *tgbotapi.Message) string {
	return strconv.FormatInt(message.From.ID, 10)
}

func (h *Handlers) log(message *tgbotapi.Message) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	})
}

func reply(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// fail reports err to the chat. Errors with a user-facing message are answered
// directly; anything else is returned to the router.
func (h *Handlers) fail(bot telegram.Sender, message *tgbotapi.Message, store *liststate.Store, err error) error {
	text := ""
	if store != nil {
		text = store.State().Error
	}
	if text == "" {
		text = apperrors.MessageOf(err, "")
	}
	if text == "" {
		return err
	}
	if apperrors.CodeOf(err) == apperrors.CodeInternal {
		h.log(message).WithError(err).Error("List command failed")
	}
	return reply(bot, message.Chat.ID, "❌ "+escape(text))
}

// currentList returns the open list, answering the chat when there is none.
func currentList(bot telegram.Sender, message *tgbotapi.Message, store *liststate.Store) (*dto.ListDTO, error) {
	list := store.State().CurrentList
	if list == nil {
		return nil, reply(bot, message.Chat.ID, msgNoCurrentList)
	}
	return list, nil
}

// itemAt returns the entry numbered n (1-based) in the open list.
func itemAt(store *liststate.Store, arg string) (dto.ListProductDTO, bool) {
	n, err := strconv.Atoi(arg)
	products := store.State().CurrentProducts
	if err != nil || n < 1 || n > len(products) {
		return dto.ListProductDTO{}, false
	}
	return products[n-1], true
}

func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
