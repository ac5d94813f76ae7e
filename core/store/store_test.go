package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"inventory-reconciler/core/database"
	"inventory-reconciler/core/inventory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func TestGormItemStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewGormItemStore(setupTestDB(t))

	require.NoError(t, s.Set(ctx, inventory.Item{ItemID: "B", DisplayName: "Bravo", Quantity: 2}))
	require.NoError(t, s.Set(ctx, inventory.Item{ItemID: "A", DisplayName: "Alpha", Quantity: 1, BatchNumber: "L1"}))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].ItemID, "items are ordered by id")

	// Set replaces the whole record
	require.NoError(t, s.Set(ctx, inventory.Item{ItemID: "A", DisplayName: "Alpha 2", Quantity: 9}))
	got, err := s.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Alpha 2", got.DisplayName)
	assert.Equal(t, 9, got.Quantity)
	assert.Empty(t, got.BatchNumber)

	qty := -4
	require.NoError(t, s.Update(ctx, "B", inventory.ItemPatch{Quantity: &qty}))
	got, err = s.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, -4, got.Quantity)
	assert.Equal(t, "Bravo", got.DisplayName)

	require.NoError(t, s.Delete(ctx, "B"))
	_, err = s.Get(ctx, "B")
	assert.True(t, errors.Is(err, inventory.ErrNotFound))

	require.NoError(t, s.Clear(ctx))
	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGormItemStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewGormItemStore(setupTestDB(t))

	qty := 1
	err := s.Update(ctx, "missing", inventory.ItemPatch{Quantity: &qty})
	var nf *inventory.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
	assert.Equal(t, "item", nf.Kind)

	err = s.Delete(ctx, "missing")
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestGormItemStore_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := NewGormItemStore(setupTestDB(t))

	require.NoError(t, s.Set(ctx, inventory.Item{ItemID: "OLD", Quantity: 1}))

	next := []inventory.Item{
		{ItemID: "N1", Quantity: 10},
		{ItemID: "N2", Quantity: 20},
	}
	require.NoError(t, s.ReplaceAll(ctx, next))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "N1", all[0].ItemID)
	assert.Equal(t, "N2", all[1].ItemID)

	// A duplicate key aborts the transaction and keeps the previous set
	dup := []inventory.Item{{ItemID: "X"}, {ItemID: "X"}}
	assert.Error(t, s.ReplaceAll(ctx, dup))

	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormItemStore_DeleteSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGormItemStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `items` WHERE item_id = ?")).
		WithArgs("SKU-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.Delete(context.Background(), "SKU-1")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSnapshotStore(t *testing.T) {
	ctx := context.Background()
	s := NewGormSnapshotStore(setupTestDB(t))

	day1 := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	snap1 := &inventory.Snapshot{ID: "s1", Label: "first", Auto: true, TakenAt: day1, ItemCount: 1,
		Items: []inventory.Item{{ItemID: "X", Quantity: 100}}}
	snap2 := &inventory.Snapshot{ID: "s2", Label: "second", TakenAt: day2, ItemCount: 2,
		Items: []inventory.Item{{ItemID: "X", Quantity: 60}, {ItemID: "Y", Quantity: 10}}}
	require.NoError(t, s.Create(ctx, snap1))
	require.NoError(t, s.Create(ctx, snap2))

	// Snapshots are immutable; re-creating an id fails
	assert.Error(t, s.Create(ctx, &inventory.Snapshot{ID: "s1", TakenAt: day2}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID, "most recent first")
	assert.Empty(t, list[0].Items, "listing omits items")
	assert.Equal(t, 2, list[0].ItemCount)

	got, err := s.Get(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 60, got.Items[0].Quantity)

	latest, err := s.LatestAuto(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "s1", latest.ID)

	require.NoError(t, s.Delete(ctx, "s1"))
	latest, err = s.LatestAuto(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	assert.ErrorIs(t, s.Delete(ctx, "s1"), inventory.ErrNotFound)
	_, err = s.Get(ctx, "s1")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestGormTransactionStore(t *testing.T) {
	ctx := context.Background()
	s := NewGormTransactionStore(setupTestDB(t))

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	txs := []*inventory.Transaction{
		{ID: "t1", ItemID: "A", Delta: -5, Type: inventory.TransactionOut, CreatedAt: base},
		{ID: "t2", ItemID: "B", Delta: 10, Type: inventory.TransactionIn, CreatedAt: base.Add(24 * time.Hour)},
		{ID: "t3", ItemID: "A", Delta: 2, Type: inventory.TransactionAdjust, CreatedAt: base.Add(48 * time.Hour)},
	}
	for _, tx := range txs {
		require.NoError(t, s.Append(ctx, tx))
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "t3", all[0].ID)

	byItem, err := s.ListByItem(ctx, "A")
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	assert.Equal(t, "t3", byItem[0].ID)
	assert.Equal(t, "t1", byItem[1].ID)

	ranged, err := s.ListByRange(ctx, base.Add(time.Hour), base.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "t2", ranged[0].ID)

	openEnded, err := s.ListByRange(ctx, base.Add(time.Hour), time.Time{})
	require.NoError(t, err)
	assert.Len(t, openEnded, 2)

	require.NoError(t, s.Delete(ctx, "t2"))
	assert.ErrorIs(t, s.Delete(ctx, "t2"), inventory.ErrNotFound)
}

func TestGormItemStore_Move(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	items := NewGormItemStore(db)
	txs := NewGormTransactionStore(db)
	require.NoError(t, items.Set(ctx, inventory.Item{ItemID: "A", Quantity: 10}))

	qty := 7
	first := &inventory.Transaction{ID: "t1", ItemID: "A", Delta: -3, Type: inventory.TransactionOut, CreatedAt: time.Now()}
	require.NoError(t, items.Move(ctx, "A", inventory.ItemPatch{Quantity: &qty}, first))

	got, err := items.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	// A failing log append rolls the quantity back
	qty = 1
	dup := &inventory.Transaction{ID: "t1", ItemID: "A", Delta: -6, Type: inventory.TransactionOut, CreatedAt: time.Now()}
	assert.Error(t, items.Move(ctx, "A", inventory.ItemPatch{Quantity: &qty}, dup))

	got, err = items.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	// An unknown item writes no log entry
	missing := &inventory.Transaction{ID: "t2", ItemID: "Z", Delta: 1, Type: inventory.TransactionIn, CreatedAt: time.Now()}
	assert.ErrorIs(t, items.Move(ctx, "Z", inventory.ItemPatch{Quantity: &qty}, missing), inventory.ErrNotFound)

	all, err := txs.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "t1", all[0].ID)
}
