package handlers

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/shoplist/internal/config"
	"github.com/Kerhoff/shoplist/internal/liststate"
	"github.com/Kerhoff/shoplist/internal/repository/sqlrepo"
	"github.com/Kerhoff/shoplist/internal/telegram"
	"github.com/Kerhoff/shoplist/internal/usecase/catalog"
	"github.com/Kerhoff/shoplist/internal/usecase/lists"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type chat struct {
	t      *testing.T
	router *telegram.Router
	db     *config.Database
	sender *fakeSender
	chatID int64
	userID int64
}

// send dispatches text as a command and returns the reply.
func (c chat) send(text string) string {
	c.t.Helper()
	cmd := strings.Fields(text)[0]
	c.router.HandleMessage(context.Background(), c.sender, &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: c.userID},
		Chat:      &tgbotapi.Chat{ID: c.chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	})
	return c.sender.last()
}

func newTestRouter(t *testing.T) (*telegram.Router, *config.Database) {
	t.Helper()
	logger, _ := test.NewNullLogger()

	db, err := config.NewDatabase(config.DriverSQLite, filepath.Join(t.TempDir(), "bot.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}

	uc := lists.New(sqlrepo.NewListRepository(db.DB, sqlrepo.DialectSQLite, sqlrepo.WithClock(clock)), logger, nil)
	products := catalog.New(sqlrepo.NewProductRepository(db.DB, sqlrepo.DialectSQLite, sqlrepo.WithClock(clock)), logger, nil)
	entry := logger.WithField("component", "handlers")

	registry, err := liststate.NewRegistry(8, func(string) *liststate.Store {
		return liststate.NewStore(liststate.NewService(uc), entry, nil)
	})
	require.NoError(t, err)

	router := telegram.NewRouter(entry)
	New(registry, products, entry).Register(router)
	return router, db
}

func newChat(t *testing.T) chat {
	router, db := newTestRouter(t)
	return chat{t: t, router: router, db: db, sender: &fakeSender{}, chatID: 7, userID: 42}
}

// as returns the same conversation seen from another user or chat.
func (c chat) as(chatID, userID int64) chat {
	c.chatID, c.userID = chatID, userID
	return c
}

func TestStartAndHelp(t *testing.T) {
	c := newChat(t)

	assert.Contains(t, c.send("/start"), "Welcome to Shoplist")
	assert.Contains(t, c.send("/help"), "/newlist")
}

func TestShoppingTrip(t *testing.T) {
	c := newChat(t)

	assert.Contains(t, c.send("/lists"), "no lists yet")
	assert.Contains(t, c.send("/newlist Weekly | Groceries for the week"), "*Weekly* created and opened")

	assert.Equal(t, "🛒 Added *Milk* (x2) to *Weekly*.", c.send("/add Milk x2"))
	assert.Equal(t, "🛒 Added *Whole bread* to *Weekly*.", c.send("/add Whole bread"))

	items := c.send("/items")
	assert.Contains(t, items, "*1.* Whole bread (1 un)")
	assert.Contains(t, items, "*2.* Milk (2 un)")
	assert.Contains(t, items, "2 remaining, 0 bought")

	assert.Equal(t, "✅ *Milk* bought!", c.send("/bought 2"))
	pending := c.send("/pending")
	assert.NotContains(t, pending, "Milk")
	assert.Contains(t, pending, "1 remaining, 1 bought")

	assert.Equal(t, "⬜ Item is back on the list.", c.send("/bought 2"))

	assert.Equal(t, "🔢 Quantity set to 3.", c.send("/qty 1 3"))
	assert.Equal(t, "❌ quantity must be a whole number", c.send("/qty 1 0.5"))
	assert.Contains(t, c.send("/items"), "*1.* Whole bread (3 un)")

	assert.Equal(t, "🗑 Item removed.", c.send("/remove 1"))
	items = c.send("/items")
	assert.NotContains(t, items, "Whole bread")
	assert.Contains(t, items, "*1.* Milk")

	assert.Contains(t, c.send("/lists"), "Weekly (1 items, used 0 times)")
}

func TestListManagement(t *testing.T) {
	c := newChat(t)
	c.send("/newlist Weekly")

	assert.Equal(t, "❌ you already have a list with this name", c.send("/newlist Weekly"))
	assert.Equal(t, "❌ name must be at least 3 characters", c.send("/newlist ab"))

	assert.Equal(t, "✏️ List renamed.", c.send("/rename Monthly"))
	assert.Equal(t, "📝 Description updated.", c.send("/describe Big shop"))
	assert.Equal(t, "🔁 *Monthly* used 1 times.", c.send("/use"))

	overview := c.send("/lists")
	assert.Contains(t, overview, "▶️ *1.* Monthly")
	assert.Contains(t, overview, "used 1 times")

	assert.Equal(t, "🗑 *Monthly* deleted.", c.send("/dellist"))
	assert.Equal(t, msgNoCurrentList, c.send("/items"))
	assert.Contains(t, c.send("/lists"), "no lists yet")
}

func TestOpenSelectsAcrossChats(t *testing.T) {
	c := newChat(t)
	c.send("/newlist Weekly")
	c.send("/add Rice")
	c.send("/newlist Party")

	other := c.as(8, 42)
	assert.Equal(t, msgNoCurrentList, other.send("/items"))

	// Most recent first.
	assert.Contains(t, other.send("/lists"), "*2.* Weekly")
	opened := other.send("/open 2")
	assert.Contains(t, opened, "*Weekly*")
	assert.Contains(t, opened, "Rice")

	assert.Contains(t, other.send("/open 9"), "Unknown list number")
}

func TestUsageErrors(t *testing.T) {
	c := newChat(t)

	assert.Equal(t, msgNoCurrentList, c.send("/add Milk"))
	assert.Contains(t, c.send("/add"), "Please provide a product")
	assert.Contains(t, c.send("/newlist"), "Please provide a list name")

	c.send("/newlist Weekly")
	assert.Equal(t, msgBadIndex, c.send("/bought 9"))
	assert.Equal(t, msgBadIndex, c.send("/remove x"))
	assert.Contains(t, c.send("/qty 1"), "Please provide an item number and a quantity")
	assert.Contains(t, c.send("/qty 1 lots"), "must be a number")
}

func TestFailedOpenDoesNotReuseItems(t *testing.T) {
	c := newChat(t)
	c.send("/newlist Party")
	c.send("/newlist Weekly")
	c.send("/add Milk")
	assert.Contains(t, c.send("/lists"), "*2.* Party")

	_, err := c.db.Exec(`ALTER TABLE list_products RENAME TO list_products_off`)
	require.NoError(t, err)
	assert.Equal(t, "❌ could not load the products, try again", c.send("/open 2"))
	_, err = c.db.Exec(`ALTER TABLE list_products_off RENAME TO list_products`)
	require.NoError(t, err)

	assert.Equal(t, msgBadIndex, c.send("/bought 1"))

	var purchased int
	require.NoError(t, c.db.QueryRow(`SELECT COUNT(*) FROM list_products WHERE is_purchased = 1`).Scan(&purchased))
	assert.Zero(t, purchased)
	assert.Contains(t, c.send("/items"), "*Party*")
}

func TestGroupMembersKeepSeparateLists(t *testing.T) {
	alice := newChat(t)
	alice.send("/newlist Weekly")
	alice.send("/add Milk")

	bob := alice.as(alice.chatID, 43)
	assert.Equal(t, msgNoCurrentList, bob.send("/dellist"))
	assert.Equal(t, msgNoCurrentList, bob.send("/add Bread"))
	assert.Contains(t, bob.send("/lists"), "no lists yet")
	assert.Contains(t, bob.send("/open 1"), "Unknown list number")

	items := alice.send("/items")
	assert.Contains(t, items, "Milk")
	assert.NotContains(t, items, "Bread")
}
