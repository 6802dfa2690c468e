package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/telegram"
)

var quantityRegex = regexp.MustCompile(`^x(\d+)$`)

// Add processes /add <product> [xN]. Unknown products are added to the
// catalog.
func (h *Handlers) Add(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID,
			"❌ Please provide a product.\n\n*Usage:*\n`/add Milk x2`\n`/add Whole wheat bread`")
	}

	store := h.store(message)
	list, err := currentList(bot, message, store)
	if list == nil {
		return err
	}

	name, quantity := joinArgs(args), 1.0
	if matches := quantityRegex.FindStringSubmatch(args[len(args)-1]); matches != nil && len(args) > 1 {
		name = joinArgs(args[:len(args)-1])
		quantity, _ = strconv.ParseFloat(matches[1], 64)
	}

	product, err := h.catalog.FindOrCreateProduct(ctx, name, "")
	if err != nil {
		return h.fail(bot, message, nil, err)
	}

	if err := store.AddProduct(ctx, list.ID, product.ID, quantity); err != nil {
		return h.fail(bot, message, store, err)
	}

	h.log(message).WithFields(logrus.Fields{
		"list_id":    list.ID,
		"product_id": product.ID,
	}).Info("Product added from chat")

	text := fmt.Sprintf("🛒 Added *%s*", escape(product.Name))
	if quantity != 1 {
		text += fmt.Sprintf(" (x%s)", formatQuantity(quantity))
	}
	return reply(bot, message.Chat.ID, text+fmt.Sprintf(" to *%s*.", escape(list.Name)))
}

// Items processes /items.
func (h *Handlers) Items(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	return h.showItems(ctx, bot, message, false)
}

// Pending processes /pending.
func (h *Handlers) Pending(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	return h.showItems(ctx, bot, message, true)
}

func (h *Handlers) showItems(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, pendingOnly bool) error {
	store := h.store(message)
	list, err := currentList(bot, message, store)
	if list == nil {
		return err
	}

	if err := store.LoadListProducts(ctx, list.ID); err != nil {
		return h.fail(bot, message, store, err)
	}
	return reply(bot, message.Chat.ID, renderItems(store.State(), pendingOnly))
}

// Bought processes /bought <n>, toggling the purchased flag of item n.
func (h *Handlers) Bought(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	return h.withItem(ctx, bot, message, args, "`/bought 3`", func(listID, productID string) (string, error) {
		store := h.store(message)
		if err := store.TogglePurchased(ctx, listID, productID); err != nil {
			return "", err
		}
		for _, p := range store.PurchasedProducts() {
			if p.Product.ID == productID {
				return fmt.Sprintf("✅ *%s* bought!", escape(p.Product.Name)), nil
			}
		}
		return "⬜ Item is back on the list.", nil
	})
}

// Remove processes /remove <n>.
func (h *Handlers) Remove(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	return h.withItem(ctx, bot, message, args, "`/remove 3`", func(listID, productID string) (string, error) {
		if err := h.store(message).RemoveProduct(ctx, listID, productID); err != nil {
			return "", err
		}
		return "🗑 Item removed.", nil
	})
}

// Quantity processes /qty <n> <quantity>.
func (h *Handlers) Quantity(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) < 2 {
		return reply(bot, message.Chat.ID, "❌ Please provide an item number and a quantity.\nUsage: `/qty 3 2`")
	}
	quantity, err := strconv.ParseFloat(strings.TrimPrefix(args[1], "x"), 64)
	if err != nil {
		return reply(bot, message.Chat.ID, "❌ The quantity must be a number.")
	}

	return h.withItem(ctx, bot, message, args[:1], "`/qty 3 2`", func(listID, productID string) (string, error) {
		if err := h.store(message).UpdateQuantity(ctx, listID, productID, quantity); err != nil {
			return "", err
		}
		return fmt.Sprintf("🔢 Quantity set to %s.", formatQuantity(quantity)), nil
	})
}

// withItem resolves the item numbered args[0] in the open list and runs fn on
// it.
func (h *Handlers) withItem(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string, usage string, fn func(listID, productID string) (string, error)) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID, "❌ Please provide an item number.\nUsage: "+usage)
	}

	store := h.store(message)
	list, err := currentList(bot, message, store)
	if list == nil {
		return err
	}
	if len(store.State().CurrentProducts) == 0 {
		if err := store.LoadListProducts(ctx, list.ID); err != nil {
			return h.fail(bot, message, store, err)
		}
	}

	item, ok := itemAt(store, args[0])
	if !ok {
		return reply(bot, message.Chat.ID, msgBadIndex)
	}

	text, err := fn(list.ID, item.Product.ID)
	if err != nil {
		return h.fail(bot, message, store, err)
	}

	h.log(message).WithFields(logrus.Fields{
		"list_id":    list.ID,
		"product_id": item.Product.ID,
	}).Debug("Item updated from chat")
	return reply(bot, message.Chat.ID, text)
}
