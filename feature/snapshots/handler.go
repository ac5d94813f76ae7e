package snapshots

import (
	"errors"
	"strings"

	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/logger"
	"inventory-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for snapshots.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshots")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/diff", h.HandleDiff)
	group.Get("/trend", h.HandleTrend)
	group.Get("/:id", h.HandleGet)
	group.Delete("/:id", h.HandleDelete)
}

// CreateRequest is the body of POST /snapshots.
type CreateRequest struct {
	Label string `json:"label"`
}

// HandleCreate takes a manual snapshot.
// @Summary Create Snapshot
// @Description Copies the live inventory into a new immutable snapshot. The label defaults to today's date.
// @Tags snapshots
// @Accept json
// @Produce json
// @Param request body CreateRequest false "Label"
// @Success 201 {object} inventory.Snapshot
// @Router /snapshots [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
		}
	}

	snap, err := h.service.Create(c.Context(), req.Label, false)
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Manual snapshot taken", zap.String("id", snap.ID))

	// Headers only; the items can be fetched by id
	snap.Items = nil
	return c.Status(fiber.StatusCreated).JSON(snap)
}

// HandleList lists snapshots.
// @Summary List Snapshots
// @Tags snapshots
// @Produce json
// @Success 200 {array} inventory.Snapshot
// @Router /snapshots [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	snaps, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(snaps)
}

// HandleGet returns a snapshot with its items.
// @Summary Get Snapshot
// @Tags snapshots
// @Produce json
// @Param id path string true "Snapshot ID or live"
// @Success 200 {object} inventory.Snapshot
// @Failure 404 {object} map[string]string "Not Found"
// @Router /snapshots/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	snap, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(snap)
}

// HandleDelete removes a snapshot.
// @Summary Delete Snapshot
// @Tags snapshots
// @Param id path string true "Snapshot ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /snapshots/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if c.Params("id") == reconcile.LiveID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "the live inventory is not a snapshot"})
	}
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDiff compares two snapshots.
// @Summary Diff Snapshots
// @Description Compares two snapshots; the earlier one is always the older side. Use b=live to compare against the live inventory. The summary covers every item, filters only shape the rows.
// @Tags snapshots
// @Produce json
// @Param a query string true "Snapshot ID"
// @Param b query string true "Snapshot ID or live"
// @Param type query string false "Comma separated row types (new, removed, increased, decreased, unchanged)"
// @Param search query string false "Case-insensitive substring of id or name"
// @Param sort query string false "change, abs_change, item_id or name"
// @Param limit query int false "Row cap; negative for no cap"
// @Success 200 {object} reconcile.DiffResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /snapshots/diff [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	a, b := c.Query("a"), c.Query("b")
	if a == "" || b == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "both a and b are required"})
	}

	opts, err := diffOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.Diff(c.Context(), a, b, opts)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

// HandleTrend joins several snapshots.
// @Summary Snapshot Trend
// @Description Quantity sequences per item across snapshots, oldest first. Missing observations are null.
// @Tags snapshots
// @Produce json
// @Param ids query string false "Comma separated snapshot IDs; all when omitted"
// @Success 200 {object} reconcile.TrendResult
// @Failure 404 {object} map[string]string "Not Found"
// @Router /snapshots/trend [get]
func (h *Handler) HandleTrend(c *fiber.Ctx) error {
	result, err := h.service.Trend(c.Context(), splitList(c.Query("ids")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

func diffOptions(c *fiber.Ctx) (reconcile.DiffOptions, error) {
	var opts reconcile.DiffOptions
	for _, raw := range splitList(c.Query("type")) {
		t, err := reconcile.ParseDiffType(raw)
		if err != nil {
			return opts, err
		}
		opts.Types = append(opts.Types, t)
	}

	sort, err := reconcile.ParseSortKey(c.Query("sort"))
	if err != nil {
		return opts, err
	}
	opts.Sort = sort
	opts.Search = c.Query("search")
	opts.Limit = c.QueryInt("limit", 0)
	return opts, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, inventory.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
