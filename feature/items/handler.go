package items

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"inventory-reconciler/core/ingest"
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for items, transactions, imports and exports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the item routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	items := app.Group("/items")
	items.Get("/", h.HandleList)
	items.Get("/:id", h.HandleGet)
	items.Patch("/:id", h.HandlePatch)
	items.Delete("/:id", h.HandleDelete)
	items.Post("/:id/adjust", h.HandleAdjust)
	items.Get("/:id/transactions", h.HandleItemTransactions)
	items.Get("/:id/velocity", h.HandleVelocity)

	app.Get("/transactions", h.HandleTransactions)
	app.Delete("/transactions/:id", h.HandleDeleteTransaction)

	imports := app.Group("/imports")
	imports.Post("/", h.HandleImport)
	imports.Post("/ocr", h.HandleImportOCR)
	imports.Get("/feeds", h.HandleListFeeds)
	imports.Post("/feed", h.HandleImportFeed)

	exports := app.Group("/exports")
	exports.Get("/csv", h.HandleExportCSV)
	exports.Post("/archive", h.HandleArchiveExport)
}

// HandleList lists items with their status.
// @Summary List Items
// @Description Returns every item with its stock status and off-books count.
// @Tags items
// @Produce json
// @Param status query string false "Filter by status (OUT_OF_STOCK, NEARLY_OUT, LOW_STOCK, GOOD_STOCK, ON_ORDER)"
// @Param search query string false "Case-insensitive substring of id or name"
// @Param sort query string false "urgency to put the most urgent items first"
// @Success 200 {array} reconcile.ItemState
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /items [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	status, err := ParseStatus(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	states, err := h.service.List(c.Context(), ListFilter{
		Status:        status,
		Search:        c.Query("search"),
		SortByUrgency: c.Query("sort") == "urgency",
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(states)
}

// HandleGet returns one item.
// @Summary Get Item
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} reconcile.ItemState
// @Failure 404 {object} map[string]string "Not Found"
// @Router /items/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	state, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// HandlePatch partially updates an item.
// @Summary Update Item
// @Description Writes only the fields present in the body.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param patch body inventory.ItemPatch true "Fields to update"
// @Success 200 {object} reconcile.ItemState
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /items/{id} [patch]
func (h *Handler) HandlePatch(c *fiber.Ctx) error {
	var patch inventory.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}
	state, err := h.service.Patch(c.Context(), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// HandleDelete removes an item.
// @Summary Delete Item
// @Tags items
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /items/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAdjust moves stock and logs a transaction.
// @Summary Adjust Stock
// @Description Applies a signed delta to the quantity and appends it to the transaction log. in is always added, out always removed.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param adjustment body Adjustment true "Movement"
// @Success 200 {object} map[string]interface{} "Item and transaction"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /items/{id}/adjust [post]
func (h *Handler) HandleAdjust(c *fiber.Ctx) error {
	var adj Adjustment
	if err := c.BodyParser(&adj); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}
	state, tx, err := h.service.Adjust(c.Context(), c.Params("id"), adj)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"item": state, "transaction": tx})
}

// HandleItemTransactions lists an item's transactions.
// @Summary Item Transactions
// @Tags transactions
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {array} inventory.Transaction
// @Router /items/{id}/transactions [get]
func (h *Handler) HandleItemTransactions(c *fiber.Ctx) error {
	txs, err := h.service.Transactions(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(txs)
}

// HandleVelocity reports an item's outbound rate.
// @Summary Item Velocity
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} VelocityReport
// @Failure 404 {object} map[string]string "Not Found"
// @Router /items/{id}/velocity [get]
func (h *Handler) HandleVelocity(c *fiber.Ctx) error {
	report, err := h.service.Velocity(c.Context(), c.Params("id"), c.QueryInt("days", 30))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// HandleTransactions lists transactions by date range.
// @Summary List Transactions
// @Tags transactions
// @Produce json
// @Param from query string false "Inclusive start (RFC3339 or 2006-01-02)"
// @Param to query string false "Exclusive end (RFC3339 or 2006-01-02)"
// @Success 200 {array} inventory.Transaction
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /transactions [get]
func (h *Handler) HandleTransactions(c *fiber.Ctx) error {
	from, err := parseTime(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from: " + err.Error()})
	}
	to, err := parseTime(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to: " + err.Error()})
	}
	txs, err := h.service.TransactionsInRange(c.Context(), from, to)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(txs)
}

// HandleDeleteTransaction removes one transaction.
// @Summary Delete Transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /transactions/{id} [delete]
func (h *Handler) HandleDeleteTransaction(c *fiber.Ctx) error {
	if err := h.service.DeleteTransaction(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleImport imports a CSV feed from the request body.
// @Summary Import CSV
// @Description Parses the body as a delimited feed and merges it. replace makes the inventory hold exactly the feed; update only overwrites quantities of known items.
// @Tags imports
// @Accept text/csv
// @Produce json
// @Param mode query string false "replace or update (default update)"
// @Param strict query boolean false "Reject the whole feed when any row is invalid"
// @Success 200 {object} ingest.Report
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Failure 500 {object} map[string]interface{} "Replace left the inventory partially populated"
// @Router /imports [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	opts, err := importOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	report, err := h.service.Import(c.Context(), bytes.NewReader(c.Body()), opts)
	return h.respondImport(c, report, err)
}

// HandleImportOCR imports OCR readings.
// @Summary Import OCR Readings
// @Description Accepts (text, quantity) pairs produced by an external OCR step. The text is taken as the item id.
// @Tags imports
// @Accept json
// @Produce json
// @Param mode query string false "replace or update (default update)"
// @Param strict query boolean false "Reject all readings when any is invalid"
// @Param pairs body []ingest.Pair true "Readings"
// @Success 200 {object} ingest.Report
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /imports/ocr [post]
func (h *Handler) HandleImportOCR(c *fiber.Ctx) error {
	opts, err := importOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var pairs []ingest.Pair
	if err := c.BodyParser(&pairs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}
	report, err := h.service.ImportPairs(c.Context(), pairs, opts)
	return h.respondImport(c, report, err)
}

// HandleListFeeds lists feeds in the bucket.
// @Summary List Feeds
// @Tags imports
// @Produce json
// @Success 200 {array} storage.ObjectSummary
// @Failure 503 {object} map[string]string "Storage disabled"
// @Router /imports/feeds [get]
func (h *Handler) HandleListFeeds(c *fiber.Ctx) error {
	feeds, err := h.service.ListFeeds(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(feeds)
}

// HandleImportFeed imports a feed stored in the bucket.
// @Summary Import Stored Feed
// @Tags imports
// @Produce json
// @Param object query string true "Feed name under feeds/"
// @Param mode query string false "replace or update (default update)"
// @Param strict query boolean false "Reject the whole feed when any row is invalid"
// @Success 200 {object} ingest.Report
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Failure 503 {object} map[string]string "Storage disabled"
// @Router /imports/feed [post]
func (h *Handler) HandleImportFeed(c *fiber.Ctx) error {
	object := c.Query("object")
	if object == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object is required"})
	}
	opts, err := importOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	report, err := h.service.ImportFeed(c.Context(), object, opts)
	return h.respondImport(c, report, err)
}

// HandleExportCSV downloads the inventory as CSV.
// @Summary Export CSV
// @Tags exports
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /exports/csv [get]
func (h *Handler) HandleExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Export(c.Context(), &buf); err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	return c.Send(buf.Bytes())
}

// HandleArchiveExport stores a CSV export in the bucket.
// @Summary Archive Export
// @Tags exports
// @Produce json
// @Success 201 {object} map[string]string "Object key"
// @Failure 503 {object} map[string]string "Storage disabled"
// @Router /exports/archive [post]
func (h *Handler) HandleArchiveExport(c *fiber.Ctx) error {
	key, err := h.service.ArchiveExport(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
}

func (h *Handler) respondImport(c *fiber.Ctx, report *ingest.Report, err error) error {
	if err == nil {
		return c.JSON(report)
	}

	var (
		verr *inventory.ValidationError
		perr *inventory.PartialFailureError
	)
	switch {
	case errors.As(err, &perr):
		body := fiber.Map{
			"error":    err.Error(),
			"partial":  true,
			"cleared":  perr.Cleared,
			"inserted": perr.Inserted,
			"total":    perr.Total,
		}
		if report != nil {
			body["report"] = report
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	case errors.As(err, &verr):
		body := fiber.Map{"error": err.Error(), "errors": verr.Errors}
		if report != nil {
			body["meta"] = report.Meta
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	default:
		return h.fail(c, err)
	}
}

// fail maps service errors to HTTP statuses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidAdjustment):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrStorageDisabled):
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func importOptions(c *fiber.Ctx) (ImportOptions, error) {
	mode, err := ingest.ParseMode(c.Query("mode"))
	if err != nil {
		return ImportOptions{}, err
	}
	opts := ImportOptions{Mode: mode}
	if raw := c.Query("strict"); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return ImportOptions{}, errors.New("strict must be a boolean")
		}
		opts.Strict = &strict
	}
	return opts, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
