package sqlrepo

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/shoplist/internal/config"
	"github.com/Kerhoff/shoplist/internal/repository"
)

// stepClock returns a clock advancing one second per call so ordering by
// timestamp is deterministic.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type testRepos struct {
	db       *config.Database
	lists    repository.ListRepository
	products repository.ProductRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	logger, _ := test.NewNullLogger()

	db, err := config.NewDatabase(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	clock := stepClock()
	return testRepos{
		db:       db,
		lists:    NewListRepository(db.DB, DialectSQLite, WithClock(clock)),
		products: NewProductRepository(db.DB, DialectSQLite, WithClock(clock)),
	}
}

func (r testRepos) insertProduct(t *testing.T, id, name, unit string) {
	t.Helper()
	_, err := r.db.Exec(`INSERT INTO products (id, name, unit) VALUES (?, ?, ?)`, id, name, unit)
	require.NoError(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM lists WHERE id = ? AND created_by = ?"

	assert.Equal(t, q, DialectSQLite.rebind(q))
	assert.Equal(t, "SELECT * FROM lists WHERE id = $1 AND created_by = $2", DialectPostgres.rebind(q))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect(" Postgres ")
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}

func TestListRepository_WeeklyScenario(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	r.insertProduct(t, "prod-1", "Milk", "l")

	list, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Weekly", Description: "d", CreatedBy: "42"})
	require.NoError(t, err)
	assert.NotEmpty(t, list.ID)
	assert.Equal(t, 0, list.UsedTimes)
	assert.True(t, list.IsActive)
	assert.False(t, list.IsPublic)
	assert.False(t, list.CanBeShared)

	require.NoError(t, r.lists.AddProduct(ctx, list.ID, "prod-1", 3))

	items, err := r.lists.GetListProducts(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].Quantity)
	assert.False(t, items[0].IsPurchased)
	assert.Equal(t, "Milk", items[0].Product.Name)

	require.NoError(t, r.lists.MarkProductAsPurchased(ctx, list.ID, "prod-1"))

	pending, err := r.lists.GetPendingProducts(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, r.lists.UnmarkProductAsPurchased(ctx, list.ID, "prod-1"))

	pending, err = r.lists.GetPendingProducts(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestListRepository_CreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	shared := true

	created, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Party", CreatedBy: "7", CanBeShared: &shared})
	require.NoError(t, err)

	found, err := r.lists.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Party", found.Name)
	assert.Nil(t, found.Description)
	assert.True(t, found.CanBeShared)
	assert.False(t, found.IsPublic)
	assert.True(t, found.CreatedAt.Equal(created.CreatedAt))
}

func TestListRepository_FindByIDMissing(t *testing.T) {
	r := newTestRepos(t)

	list, err := r.lists.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestListRepository_SoftDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	r.insertProduct(t, "prod-1", "Milk", "l")

	list, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Weekly", CreatedBy: "42"})
	require.NoError(t, err)
	require.NoError(t, r.lists.AddProduct(ctx, list.ID, "prod-1", 1))

	require.NoError(t, r.lists.Delete(ctx, list.ID))

	found, err := r.lists.FindByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	deleted, err := r.lists.FindByIDIncludingDeleted(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.True(t, deleted.IsDeleted())
	assert.NotNil(t, deleted.UpdatedAt)

	byName, err := r.lists.FindByNameAndUserID(ctx, "Weekly", "42")
	require.NoError(t, err)
	assert.Nil(t, byName)

	lists, err := r.lists.FindByUser(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, lists)

	// Associations are not cascaded.
	items, err := r.lists.GetListProducts(ctx, list.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListRepository_FindByUser(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	r.insertProduct(t, "p1", "Milk", "l")
	r.insertProduct(t, "p2", "Eggs", "un")

	first, err := r.lists.Create(ctx, repository.CreateListParams{Name: "First", CreatedBy: "42"})
	require.NoError(t, err)
	second, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Second", CreatedBy: "42"})
	require.NoError(t, err)
	inactive, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Hidden", CreatedBy: "42"})
	require.NoError(t, err)
	_, err = r.lists.Create(ctx, repository.CreateListParams{Name: "Other", CreatedBy: "99"})
	require.NoError(t, err)

	off := false
	require.NoError(t, r.lists.Update(ctx, inactive.ID, repository.UpdateListParams{IsActive: &off}))
	require.NoError(t, r.lists.AddProduct(ctx, first.ID, "p1", 1))
	require.NoError(t, r.lists.AddProduct(ctx, first.ID, "p2", 2))
	require.NoError(t, r.lists.AddProduct(ctx, second.ID, "p1", 1))
	require.NoError(t, r.lists.RemoveProduct(ctx, second.ID, "p1"))

	lists, err := r.lists.FindByUser(ctx, "42")
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, second.ID, lists[0].ID)
	assert.Equal(t, 0, lists[0].ProductCount)
	assert.Equal(t, first.ID, lists[1].ID)
	assert.Equal(t, 2, lists[1].ProductCount)
}

func TestListRepository_FindByNameAndUserIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	_, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Groceries", CreatedBy: "U"})
	require.NoError(t, err)

	a, err := r.lists.FindByNameAndUserID(ctx, "Groceries", "U")
	require.NoError(t, err)
	b, err := r.lists.FindByNameAndUserID(ctx, "Groceries", "U")
	require.NoError(t, err)

	require.NotNil(t, a)
	assert.Equal(t, a, b)

	other, err := r.lists.FindByNameAndUserID(ctx, "Groceries", "V")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestListRepository_UpdateOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	list, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Weekly", Description: "old", CreatedBy: "42"})
	require.NoError(t, err)

	name := "Monthly"
	public := true
	require.NoError(t, r.lists.Update(ctx, list.ID, repository.UpdateListParams{Name: &name, IsPublic: &public}))

	found, err := r.lists.FindByID(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Monthly", found.Name)
	assert.Equal(t, "old", *found.Description)
	assert.True(t, found.IsPublic)
	assert.True(t, found.IsActive)
	assert.NotNil(t, found.UpdatedAt)
	assert.Nil(t, found.DeletedAt)
}

func TestListRepository_UpdateKeepsDeletedAt(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	list, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Weekly", CreatedBy: "42"})
	require.NoError(t, err)
	require.NoError(t, r.lists.Delete(ctx, list.ID))

	before, err := r.lists.FindByIDIncludingDeleted(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, before)
	require.NotNil(t, before.DeletedAt)

	name := "Monthly"
	active := true
	require.NoError(t, r.lists.Update(ctx, list.ID, repository.UpdateListParams{Name: &name, IsActive: &active}))

	after, err := r.lists.FindByIDIncludingDeleted(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	require.NotNil(t, after.DeletedAt)
	assert.Equal(t, *before.DeletedAt, *after.DeletedAt)
	assert.True(t, after.UpdatedAt.After(*before.UpdatedAt))
	assert.Equal(t, "Monthly", after.Name)

	found, err := r.lists.FindByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestListRepository_IncrementUsageIsMonotonic(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	list, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Weekly", CreatedBy: "42"})
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.lists.IncrementUsage(ctx, list.ID))
		}()
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("Weekly %d", i)
			assert.NoError(t, r.lists.Update(ctx, list.ID, repository.UpdateListParams{Name: &name}))
		}()
	}
	wg.Wait()

	found, err := r.lists.FindByID(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, n, found.UsedTimes)
}

func TestListRepository_DuplicateAssociations(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	r.insertProduct(t, "prod-1", "Milk", "l")

	list, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Weekly", CreatedBy: "42"})
	require.NoError(t, err)

	require.NoError(t, r.lists.AddProduct(ctx, list.ID, "prod-1", 1))
	require.NoError(t, r.lists.AddProduct(ctx, list.ID, "prod-1", 2))

	items, err := r.lists.GetListProducts(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Most recently added first.
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, 1.0, items[1].Quantity)

	require.NoError(t, r.lists.UpdateProductQuantity(ctx, list.ID, "prod-1", 5))
	items, err = r.lists.GetListProducts(ctx, list.ID)
	require.NoError(t, err)
	for _, item := range items {
		assert.Equal(t, 5.0, item.Quantity)
	}

	require.NoError(t, r.lists.RemoveProduct(ctx, list.ID, "prod-1"))
	items, err = r.lists.GetListProducts(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListRepository_DeletedCatalogProductIsHidden(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)
	r.insertProduct(t, "prod-1", "Milk", "l")
	r.insertProduct(t, "prod-2", "Bread", "un")

	list, err := r.lists.Create(ctx, repository.CreateListParams{Name: "Weekly", CreatedBy: "42"})
	require.NoError(t, err)
	require.NoError(t, r.lists.AddProduct(ctx, list.ID, "prod-1", 1))
	require.NoError(t, r.lists.AddProduct(ctx, list.ID, "prod-2", 1))

	require.NoError(t, r.products.Delete(ctx, "prod-1"))

	items, err := r.lists.GetListProducts(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "prod-2", items[0].Product.ID)
}
