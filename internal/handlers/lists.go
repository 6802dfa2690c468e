package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/dto"
	"github.com/Kerhoff/shoplist/internal/liststate"
	"github.com/Kerhoff/shoplist/internal/telegram"
	"github.com/Kerhoff/shoplist/internal/usecase/lists"
)

// NewList processes /newlist <name> [| description]. The new list is opened.
func (h *Handlers) NewList(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID,
			"❌ Please provide a list name.\n\n*Usage:*\n`/newlist Weekly`\n`/newlist Party | Saturday barbecue`")
	}

	name, description, _ := strings.Cut(joinArgs(args), "|")
	store := h.store(message)

	created, err := store.CreateList(ctx, lists.CreateListInput{
		Name:        name,
		Description: description,
		CreatedBy:   owner(message),
	})
	if err != nil {
		return h.fail(bot, message, store, err)
	}

	store.SetCurrentList(&created)
	if err := store.LoadListProducts(ctx, created.ID); err != nil {
		return h.fail(bot, message, store, err)
	}

	h.log(message).WithField("list_id", created.ID).Info("List created from chat")
	return reply(bot, message.Chat.ID,
		fmt.Sprintf("🛒 *%s* created and opened.\n\nAdd items with `/add <product> [xN]`.", escape(created.Name)))
}

// Lists processes /lists.
func (h *Handlers) Lists(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	store := h.store(message)
	if err := store.LoadLists(ctx, owner(message)); err != nil {
		return h.fail(bot, message, store, err)
	}

	st := store.State()
	if len(st.Lists) == 0 {
		return reply(bot, message.Chat.ID, "📋 *You have no lists yet!*\n\nCreate one with `/newlist <name>`")
	}

	var sb strings.Builder
	sb.WriteString("📋 *Your lists*\n\n")
	for i, l := range st.Lists {
		marker := "▫️"
		if st.CurrentList != nil && st.CurrentList.ID == l.ID {
			marker = "▶️"
		}
		sb.WriteString(fmt.Sprintf("%s *%d.* %s (%d items, used %d times)\n",
			marker, i+1, escape(l.Name), l.ProductCount, l.UsedTimes))
	}
	sb.WriteString("\n_Open one with_ `/open <n>`")

	h.log(message).WithField("total", len(st.Lists)).Debug("Listed lists")
	return reply(bot, message.Chat.ID, sb.String())
}

// Open processes /open <n>: the list numbered n in /lists becomes current.
func (h *Handlers) Open(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID, "❌ Please provide a list number.\nUsage: `/open 1`")
	}

	store := h.store(message)
	if len(store.State().Lists) == 0 {
		if err := store.LoadLists(ctx, owner(message)); err != nil {
			return h.fail(bot, message, store, err)
		}
	}

	n, err := strconv.Atoi(args[0])
	available := store.State().Lists
	if err != nil || n < 1 || n > len(available) {
		return reply(bot, message.Chat.ID, "❌ Unknown list number. Use /lists to see the numbers.")
	}
	listID := available[n-1].ID

	if err := store.LoadList(ctx, listID); err != nil {
		return h.fail(bot, message, store, err)
	}
	if err := store.LoadListProducts(ctx, listID); err != nil {
		return h.fail(bot, message, store, err)
	}

	h.log(message).WithField("list_id", listID).Debug("Opened list")
	return reply(bot, message.Chat.ID, renderItems(store.State(), false))
}

// Rename processes /rename <name>.
func (h *Handlers) Rename(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	name := joinArgs(args)
	return h.updateCurrent(ctx, bot, message, lists.UpdateListInput{Name: &name}, "✏️ List renamed.")
}

// Describe processes /describe <text>.
func (h *Handlers) Describe(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	description := joinArgs(args)
	return h.updateCurrent(ctx, bot, message, lists.UpdateListInput{Description: &description}, "📝 Description updated.")
}

func (h *Handlers) updateCurrent(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, in lists.UpdateListInput, done string) error {
	store := h.store(message)
	list, err := currentList(bot, message, store)
	if list == nil {
		return err
	}

	if err := store.UpdateList(ctx, list.ID, in); err != nil {
		return h.fail(bot, message, store, err)
	}

	h.log(message).WithField("list_id", list.ID).Info("List updated from chat")
	return reply(bot, message.Chat.ID, done)
}

// DeleteList processes /dellist: the open list is deleted and closed.
func (h *Handlers) DeleteList(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	store := h.store(message)
	list, err := currentList(bot, message, store)
	if list == nil {
		return err
	}

	if err := store.DeleteList(ctx, list.ID); err != nil {
		return h.fail(bot, message, store, err)
	}

	h.log(message).WithField("list_id", list.ID).Info("List deleted from chat")
	return reply(bot, message.Chat.ID, fmt.Sprintf("🗑 *%s* deleted.", escape(list.Name)))
}

// Use processes /use: one more shopping trip with the open list.
func (h *Handlers) Use(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	store := h.store(message)
	list, err := currentList(bot, message, store)
	if list == nil {
		return err
	}

	store.IncrementUsage(ctx, list.ID)

	used := list.UsedTimes + 1
	if current := store.State().CurrentList; current != nil {
		used = current.UsedTimes
	}
	h.log(message).WithFields(logrus.Fields{"list_id": list.ID, "used_times": used}).Debug("List used")
	return reply(bot, message.Chat.ID, fmt.Sprintf("🔁 *%s* used %d times.", escape(list.Name), used))
}

func renderItems(st liststate.State, pendingOnly bool) string {
	title := "Items"
	if st.CurrentList != nil {
		title = escape(st.CurrentList.Name)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n\n", title))

	var pending, bought int
	for i, p := range st.CurrentProducts {
		if p.IsPurchased {
			bought++
			if pendingOnly {
				continue
			}
		} else {
			pending++
		}
		sb.WriteString(renderItem(i+1, p))
	}

	switch {
	case len(st.CurrentProducts) == 0:
		sb.WriteString("_The list is empty. Add items with_ `/add <product>`")
	case pendingOnly && pending == 0:
		sb.WriteString("_Everything is bought!_")
	default:
		sb.WriteString(fmt.Sprintf("\n_%d remaining, %d bought_", pending, bought))
	}
	return sb.String()
}

func renderItem(n int, p dto.ListProductDTO) string {
	quantity := formatQuantity(p.Quantity) + " " + string(p.Product.Unit)
	if p.IsPurchased {
		return fmt.Sprintf("✅ *%d.* %s (%s)\n", n, escape(p.Product.Name), quantity)
	}
	return fmt.Sprintf("⬜ *%d.* %s (%s)\n", n, escape(p.Product.Name), quantity)
}
