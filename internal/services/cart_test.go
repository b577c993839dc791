package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"jadimart/internal/domain"
	"jadimart/internal/repos"
	"jadimart/internal/services"
)

func cartdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT, description TEXT,
	  price NUMERIC, image TEXT, created_at TEXT, updated_at TEXT);
	CREATE TABLE carts(id TEXT PRIMARY KEY, user_id TEXT UNIQUE NOT NULL, updated_at TEXT);
	CREATE TABLE cart_items(cart_id TEXT, product_id TEXT, qty INTEGER,
	  created_at TEXT, updated_at TEXT, PRIMARY KEY(cart_id, product_id));

	INSERT INTO products(id,name,description,price,image,created_at) VALUES
	  ('chamomile-tea','Organic Chamomile Tea','Soothing',299,'/media/p1.jpg','2024-01-01T00:00:00Z'),
	  ('lavender-oil','Lavender Essential Oil','Calming',599,'/media/p2.jpg','2024-01-02T00:00:00Z');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newCartService(t *testing.T) *services.CartService {
	t.Helper()
	db := cartdb(t)
	return services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))
}

// memStore stands in for the guest cookie backing: same CartStore contract,
// lines held in memory.
type memStore struct{ lines []domain.CartLine }

func (m *memStore) Load() ([]domain.CartLine, error) { return m.lines, nil }
func (m *memStore) Save(lines []domain.CartLine) error {
	m.lines = lines
	return nil
}

func TestAddAccumulatesOnBothBackings(t *testing.T) {
	svc := newCartService(t)

	stores := map[string]services.CartStore{
		"guest":  &memStore{},
		"server": svc.StoreFor("u-1"),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, svc.Add(store, "chamomile-tea", 1))
			require.NoError(t, svc.Add(store, "chamomile-tea", 2))

			lines, err := store.Load()
			require.NoError(t, err)
			require.Equal(t, []domain.CartLine{{ProductID: "chamomile-tea", Qty: 3}}, lines)
		})
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc := newCartService(t)
	store := &memStore{}
	require.ErrorIs(t, svc.Add(store, "no-such-product", 1), services.ErrNotFound)
	require.Empty(t, store.lines)
}

func TestAdjustBelowOneRemovesLine(t *testing.T) {
	svc := newCartService(t)

	stores := map[string]services.CartStore{
		"guest":  &memStore{},
		"server": svc.StoreFor("u-1"),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, svc.Add(store, "chamomile-tea", 2))
			require.NoError(t, svc.Adjust(store, "chamomile-tea", -1))

			lines, err := store.Load()
			require.NoError(t, err)
			require.Equal(t, []domain.CartLine{{ProductID: "chamomile-tea", Qty: 1}}, lines)

			// dropping below 1 removes the line on both backings
			require.NoError(t, svc.Adjust(store, "chamomile-tea", -1))
			lines, err = store.Load()
			require.NoError(t, err)
			require.Empty(t, lines)
		})
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	svc := newCartService(t)
	store := &memStore{}
	require.NoError(t, svc.Add(store, "chamomile-tea", 1))
	require.NoError(t, svc.Remove(store, "lavender-oil"))

	lines, err := store.Load()
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestViewExpandsAgainstCatalog(t *testing.T) {
	svc := newCartService(t)
	store := &memStore{}
	require.NoError(t, svc.Add(store, "chamomile-tea", 2))
	require.NoError(t, svc.Add(store, "lavender-oil", 1))

	cv, err := svc.View(store)
	require.NoError(t, err)
	require.Len(t, cv.Items, 2)
	require.InDelta(t, 299*2+599, cv.Total, 0.001)
	require.Equal(t, "Organic Chamomile Tea", cv.Items[0].Name)
	require.InDelta(t, 598, cv.Items[0].Subtotal, 0.001)
}

func TestViewSkipsVanishedProduct(t *testing.T) {
	svc := newCartService(t)
	store := &memStore{lines: []domain.CartLine{
		{ProductID: "chamomile-tea", Qty: 1},
		{ProductID: "gone", Qty: 4},
	}}

	cv, err := svc.View(store)
	require.NoError(t, err)
	require.Len(t, cv.Items, 1)
	require.InDelta(t, 299, cv.Total, 0.001)
}

func TestMergeIntoUserSumsQuantities(t *testing.T) {
	svc := newCartService(t)
	server := svc.StoreFor("u-1")
	require.NoError(t, svc.Add(server, "chamomile-tea", 1))

	guest := []domain.CartLine{
		{ProductID: "chamomile-tea", Qty: 2},
		{ProductID: "lavender-oil", Qty: 1},
	}
	require.NoError(t, svc.MergeIntoUser("u-1", guest))

	lines, err := server.Load()
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.CartLine{
		{ProductID: "chamomile-tea", Qty: 3},
		{ProductID: "lavender-oil", Qty: 1},
	}, lines)
}

func TestMergeEmptyGuestIsNoop(t *testing.T) {
	svc := newCartService(t)
	require.NoError(t, svc.MergeIntoUser("u-1", nil))

	lines, err := svc.StoreFor("u-1").Load()
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestClearEmptiesBacking(t *testing.T) {
	svc := newCartService(t)
	server := svc.StoreFor("u-1")
	require.NoError(t, svc.Add(server, "chamomile-tea", 2))
	require.NoError(t, svc.Clear(server))

	lines, err := server.Load()
	require.NoError(t, err)
	require.Empty(t, lines)
}
