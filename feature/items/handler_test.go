package items_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventory-reconciler/core/database"
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/storage/mocks"
	"inventory-reconciler/core/store"
	"inventory-reconciler/feature/items"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, client *mocks.Client) (*fiber.App, store.ItemStore) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	itemStore := store.NewGormItemStore(db)
	ctx := context.Background()
	require.NoError(t, itemStore.Set(ctx, inventory.Item{ItemID: "A-1", DisplayName: "Acetone", Quantity: 40}))
	require.NoError(t, itemStore.Set(ctx, inventory.Item{ItemID: "B-2", DisplayName: "Beaker", Quantity: 3}))

	cfg := inventory.Config{
		Thresholds:  inventory.Thresholds{OutOfStock: 0, NearlyOut: 5, LowStock: 10, GoodStock: 25},
		DefaultUnit: "units",
	}

	var svc *items.Service
	if client != nil {
		svc = items.NewService(itemStore, store.NewGormTransactionStore(db), client, "inventory", cfg, zap.NewNop())
	} else {
		svc = items.NewService(itemStore, store.NewGormTransactionStore(db), nil, "inventory", cfg, zap.NewNop())
	}

	app := fiber.New()
	items.NewHandler(svc).RegisterRoutes(app)
	return app, itemStore
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHandleList(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/items?status=nearly_out", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body []map[string]any
	decode(t, resp, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "B-2", body[0]["item_id"])
	assert.Equal(t, "NEARLY_OUT", body[0]["status"])

	resp, err = app.Test(httptest.NewRequest("GET", "/items?status=plenty", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleGetAndDelete(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/items/A-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/items/A-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/items/A-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandlePatch(t *testing.T) {
	app, itemStore := setupTestApp(t, nil)

	req := httptest.NewRequest("PATCH", "/items/B-2", strings.NewReader(`{"notes":"reorder","labeled_count":5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, float64(2), body["off_books"])

	got, err := itemStore.Get(context.Background(), "B-2")
	require.NoError(t, err)
	assert.Equal(t, "reorder", got.Notes)
	assert.Equal(t, 3, got.Quantity)
}

func TestHandleAdjust(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	req := httptest.NewRequest("POST", "/items/A-1/adjust", strings.NewReader(`{"delta":4,"type":"out","note":"sold"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Item        map[string]any `json:"item"`
		Transaction map[string]any `json:"transaction"`
	}
	decode(t, resp, &body)
	assert.Equal(t, float64(36), body.Item["quantity"])
	assert.Equal(t, float64(-4), body.Transaction["delta"])

	req = httptest.NewRequest("POST", "/items/A-1/adjust", strings.NewReader(`{"delta":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/items/A-1/transactions", nil))
	require.NoError(t, err)
	var txs []map[string]any
	decode(t, resp, &txs)
	assert.Len(t, txs, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/items/A-1/velocity?days=4", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var velocity map[string]any
	decode(t, resp, &velocity)
	assert.Equal(t, float64(4), velocity["units_out"])
	assert.Equal(t, float64(1), velocity["per_day"])
	assert.Equal(t, float64(36), velocity["days_of_cover"])
}

func TestHandleTransactions(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/transactions?from=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/transactions?from=2020-01-01", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/transactions/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleImport(t *testing.T) {
	app, itemStore := setupTestApp(t, nil)

	req := httptest.NewRequest("POST", "/imports?mode=replace", strings.NewReader("SKU;Name;Qty\nC-3;Clamp;8\n"))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report map[string]any
	decode(t, resp, &report)
	merge := report["merge"].(map[string]any)
	assert.Equal(t, float64(1), merge["imported"])

	all, err := itemStore.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "C-3", all[0].ItemID)
}

func TestHandleImport_Rejected(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	req := httptest.NewRequest("POST", "/imports?strict=true", strings.NewReader("SKU,Qty\n,4\n"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Len(t, body["errors"], 1)
	assert.NotNil(t, body["meta"])

	req = httptest.NewRequest("POST", "/imports", strings.NewReader("Name,Qty\nClamp,4\n"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode, "a feed without an id column is rejected")

	resp, err = app.Test(httptest.NewRequest("POST", "/imports?mode=merge", strings.NewReader("SKU\nA\n")))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/imports?strict=maybe", strings.NewReader("SKU\nA\n")))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleImportOCR(t *testing.T) {
	app, itemStore := setupTestApp(t, nil)

	req := httptest.NewRequest("POST", "/imports/ocr", strings.NewReader(`[{"text":"A-1","quantity":12}]`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	got, err := itemStore.Get(context.Background(), "A-1")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)
	assert.Equal(t, "Acetone", got.DisplayName)
}

func TestHandleExportCSV(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/exports/csv", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
}

func TestHandleStorageRoutes(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/imports/feeds", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/exports/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/imports/feed", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleListFeeds(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, "inventory", mock.Anything).
		Return(func() <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 2)
			ch <- minio.ObjectInfo{Key: "feeds/"}
			ch <- minio.ObjectInfo{Key: "feeds/monday.csv", Size: 120}
			close(ch)
			return ch
		}())

	app, _ := setupTestApp(t, mockClient)
	resp, err := app.Test(httptest.NewRequest("GET", "/imports/feeds", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var feeds []map[string]any
	decode(t, resp, &feeds)
	require.Len(t, feeds, 1)
	assert.Equal(t, "monday.csv", feeds[0]["name"])
	mockClient.AssertExpectations(t)
}

func TestFeature(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	f := items.NewFeature(store.NewGormItemStore(db), store.NewGormTransactionStore(db), nil, "inventory", inventory.Config{}, zap.NewNop())
	assert.Equal(t, "items", f.Name())
	assert.True(t, f.IsEnabled())
	assert.NotNil(t, f.Service())

	app := fiber.New()
	require.NoError(t, f.Load(app))
	resp, err := app.Test(httptest.NewRequest("GET", "/items", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
