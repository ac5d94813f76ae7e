package snapshots_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventory-reconciler/core/database"
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/store"
	"inventory-reconciler/feature/snapshots"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, store.ItemStore) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	items := store.NewGormItemStore(db)
	require.NoError(t, items.Set(context.Background(), inventory.Item{ItemID: "A-1", DisplayName: "Acetone", Quantity: 10}))

	cfg := inventory.SnapshotConfig{DiffLimit: 1000}
	f := snapshots.NewFeature(store.NewGormSnapshotStore(db), items, nil, "inventory", cfg, zap.NewNop())
	assert.Nil(t, f.Scheduler())

	app := fiber.New()
	require.NoError(t, f.Load(app))
	return app, items
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createSnapshot(t *testing.T, app *fiber.App, label string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("POST", "/snapshots", strings.NewReader(`{"label":"`+label+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var snap map[string]any
	decode(t, resp, &snap)
	return snap
}

func TestHandleCreateAndList(t *testing.T) {
	app, _ := setupTestApp(t)

	snap := createSnapshot(t, app, "opening")
	assert.Equal(t, "opening", snap["label"])
	assert.Equal(t, float64(1), snap["item_count"])
	assert.Nil(t, snap["items"])

	// No body at all is a snapshot with the default label
	resp, err := app.Test(httptest.NewRequest("POST", "/snapshots", nil))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/snapshots", nil))
	require.NoError(t, err)
	var list []map[string]any
	decode(t, resp, &list)
	assert.Len(t, list, 2)

	resp, err = app.Test(httptest.NewRequest("GET", "/snapshots/"+snap["id"].(string), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var full map[string]any
	decode(t, resp, &full)
	assert.Len(t, full["items"], 1)
}

func TestHandleDiffWithLive(t *testing.T) {
	app, items := setupTestApp(t)
	snap := createSnapshot(t, app, "before")

	qty := 4
	require.NoError(t, items.Update(context.Background(), "A-1", inventory.ItemPatch{Quantity: &qty}))

	resp, err := app.Test(httptest.NewRequest("GET", "/snapshots/diff?a="+snap["id"].(string)+"&b=live&type=decreased", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result struct {
		Rows []struct {
			ItemID string `json:"item_id"`
			Change int    `json:"change"`
		} `json:"rows"`
		Summary struct {
			TotalSold int `json:"total_sold"`
		} `json:"summary"`
	}
	decode(t, resp, &result)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, -6, result.Rows[0].Change)
	assert.Equal(t, 6, result.Summary.TotalSold)
}

func TestHandleDiff_BadRequests(t *testing.T) {
	app, _ := setupTestApp(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing side", "/snapshots/diff?a=x", 400},
		{"bad type", "/snapshots/diff?a=x&b=live&type=moved", 400},
		{"bad sort", "/snapshots/diff?a=x&b=live&sort=size", 400},
		{"unknown snapshot", "/snapshots/diff?a=x&b=live", 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHandleTrend(t *testing.T) {
	app, _ := setupTestApp(t)
	snap := createSnapshot(t, app, "one")

	resp, err := app.Test(httptest.NewRequest("GET", "/snapshots/trend?ids="+snap["id"].(string)+",live", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result struct {
		Snapshots []map[string]any `json:"snapshots"`
		Rows      []struct {
			Quantities []*int `json:"quantities"`
		} `json:"rows"`
	}
	decode(t, resp, &result)
	assert.Len(t, result.Snapshots, 2)
	require.Len(t, result.Rows, 1)
	assert.Len(t, result.Rows[0].Quantities, 2)
}

func TestHandleDelete(t *testing.T) {
	app, _ := setupTestApp(t)
	snap := createSnapshot(t, app, "gone")
	id := snap["id"].(string)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/snapshots/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/snapshots/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/snapshots/live", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
