package items

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"inventory-reconciler/core/events"
	"inventory-reconciler/core/exclusion"
	"inventory-reconciler/core/ingest"
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/metrics"
	"inventory-reconciler/core/reconcile"
	"inventory-reconciler/core/storage"
	"inventory-reconciler/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrStorageDisabled is returned by operations that need object storage
// when none is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// ErrInvalidAdjustment rejects a stock adjustment that cannot be applied.
var ErrInvalidAdjustment = errors.New("invalid adjustment")

// Service implements the inventory operations behind the HTTP handler and
// the CLI.
type Service struct {
	items  store.ItemStore
	txs    store.TransactionStore
	client storage.Client
	bucket string
	cfg    inventory.Config
	events events.Publisher
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new inventory service. client may be nil when object
// storage is disabled.
func NewService(items store.ItemStore, txs store.TransactionStore, client storage.Client, bucket string, cfg inventory.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		items:  items,
		txs:    txs,
		client: client,
		bucket: bucket,
		cfg:    cfg,
		events: events.Nop{},
		logger: logger,
		now:    time.Now,
	}
}

// ListFilter narrows List.
type ListFilter struct {
	Status inventory.Status
	Search string
	// SortByUrgency orders the most urgent items first instead of by id.
	SortByUrgency bool
}

// SetPublisher routes import and adjustment events to p.
func (s *Service) SetPublisher(p events.Publisher) {
	if p == nil {
		p = events.Nop{}
	}
	s.events = p
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event_type", string(e.Type)), zap.Error(err))
	}
}

// List returns every item with its status and off-books count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]reconcile.ItemState, error) {
	items, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	states := reconcile.EvaluateAll(items, s.cfg.Thresholds)

	counts := make(map[string]int)
	for _, st := range states {
		counts[string(st.Status)]++
	}
	metrics.SetItemsByStatus(counts)

	search := exclusion.Compile([]string{f.Search})
	out := make([]reconcile.ItemState, 0, len(states))
	for _, st := range states {
		if f.Status != "" && st.Status != f.Status {
			continue
		}
		if search.Len() > 0 && !search.Test(st.ItemID, st.DisplayName) {
			continue
		}
		out = append(out, st)
	}

	if f.SortByUrgency {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Status.Urgency() > out[j].Status.Urgency()
		})
	}
	return out, nil
}

// Get returns one item with its derived values.
func (s *Service) Get(ctx context.Context, id string) (*reconcile.ItemState, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state := reconcile.Evaluate(*item, s.cfg.Thresholds)
	return &state, nil
}

// Patch applies a partial update. A quantity change is recorded in the
// transaction log as an adjustment.
func (s *Service) Patch(ctx context.Context, id string, patch inventory.ItemPatch) (*reconcile.ItemState, error) {
	current, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var record *inventory.Transaction
	if patch.Quantity != nil && *patch.Quantity != current.Quantity {
		record = s.newTransaction(id, *patch.Quantity-current.Quantity, inventory.TransactionAdjust, "manual edit")
	}
	if err := s.move(ctx, id, patch, record); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// move writes patch and, when record is set, its log entry. Stores that
// implement store.Ledger do both in one transaction.
func (s *Service) move(ctx context.Context, id string, patch inventory.ItemPatch, record *inventory.Transaction) error {
	if record == nil {
		return s.items.Update(ctx, id, patch)
	}
	if ledger, ok := s.items.(store.Ledger); ok {
		return ledger.Move(ctx, id, patch, record)
	}
	if err := s.items.Update(ctx, id, patch); err != nil {
		return err
	}
	return s.txs.Append(ctx, record)
}

// Delete removes an item. Its transactions stay in the log.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}

// Adjustment is a stock movement request.
type Adjustment struct {
	Delta int                       `json:"delta"`
	Type  inventory.TransactionType `json:"type"`
	Note  string                    `json:"note"`
}

// normalize signs the delta by type: in is always positive, out always
// negative, adjust is taken as given.
func (a Adjustment) normalize() (Adjustment, error) {
	if a.Type == "" {
		a.Type = inventory.TransactionAdjust
	}
	if !a.Type.IsValid() || a.Type == inventory.TransactionImport {
		return a, fmt.Errorf("%w: unsupported type %q", ErrInvalidAdjustment, a.Type)
	}
	if a.Delta == 0 {
		return a, fmt.Errorf("%w: delta must not be zero", ErrInvalidAdjustment)
	}
	switch a.Type {
	case inventory.TransactionIn:
		if a.Delta < 0 {
			a.Delta = -a.Delta
		}
	case inventory.TransactionOut:
		if a.Delta > 0 {
			a.Delta = -a.Delta
		}
	}
	return a, nil
}

// Adjust moves an item's quantity and records the movement.
func (s *Service) Adjust(ctx context.Context, id string, adj Adjustment) (*reconcile.ItemState, *inventory.Transaction, error) {
	adj, err := adj.normalize()
	if err != nil {
		return nil, nil, err
	}

	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	qty := item.Quantity + adj.Delta
	tx := s.newTransaction(id, adj.Delta, adj.Type, adj.Note)
	if err := s.move(ctx, id, inventory.ItemPatch{Quantity: &qty}, tx); err != nil {
		return nil, nil, err
	}

	state, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	s.publish(ctx, events.New(events.StockAdjusted, id, tx))
	return state, tx, nil
}

func (s *Service) newTransaction(itemID string, delta int, typ inventory.TransactionType, note string) *inventory.Transaction {
	return &inventory.Transaction{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Delta:     delta,
		Type:      typ,
		Note:      note,
		CreatedAt: s.now(),
	}
}

// Transactions returns the log of one item, newest first.
func (s *Service) Transactions(ctx context.Context, itemID string) ([]inventory.Transaction, error) {
	return s.txs.ListByItem(ctx, itemID)
}

// TransactionsInRange returns the log between from and to. Zero bounds are open.
func (s *Service) TransactionsInRange(ctx context.Context, from, to time.Time) ([]inventory.Transaction, error) {
	if from.IsZero() && to.IsZero() {
		return s.txs.List(ctx)
	}
	return s.txs.ListByRange(ctx, from, to)
}

// DeleteTransaction removes one log entry. The item quantity is not touched.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.txs.Delete(ctx, id)
}

// VelocityReport is an item's movement rate and the stock it leaves.
type VelocityReport struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	reconcile.VelocityStats
	DaysOfCover *float64 `json:"days_of_cover"`
}

// Velocity computes an item's outbound rate over the last days.
func (s *Service) Velocity(ctx context.Context, id string, days int) (*VelocityReport, error) {
	if days <= 0 {
		days = 30
	}
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := reconcile.Velocity(txs, time.Duration(days)*24*time.Hour, s.now())
	report := &VelocityReport{ItemID: id, Quantity: item.Quantity, VelocityStats: stats}
	if cover, ok := reconcile.DaysOfCover(item.Quantity, stats.PerDay); ok {
		report.DaysOfCover = &cover
	}
	return report, nil
}

func (s *Service) ingestOptions() ingest.Options {
	return ingest.Options{
		Exclusions:  s.cfg.ExclusionList(),
		DefaultUnit: s.cfg.DefaultUnit,
		Now:         s.now(),
	}
}

// ImportOptions controls a single import.
type ImportOptions struct {
	Mode ingest.Mode
	// Strict overrides the configured strictness when set.
	Strict *bool
}

func (s *Service) strict(opts ImportOptions) bool {
	if opts.Strict != nil {
		return *opts.Strict
	}
	return s.cfg.StrictImport
}

// Import parses a CSV feed and merges it into the inventory.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ingest.Report, error) {
	report, err := ingest.Import(ctx, r, s.items, s.ingestOptions(), opts.Mode, s.strict(opts))
	s.observeImport(ctx, opts.Mode, report, err)
	return report, err
}

// ImportPairs merges OCR readings into the inventory.
func (s *Service) ImportPairs(ctx context.Context, pairs []ingest.Pair, opts ImportOptions) (*ingest.Report, error) {
	report, err := ingest.ImportPairs(ctx, pairs, s.items, s.ingestOptions(), opts.Mode, s.strict(opts))
	s.observeImport(ctx, opts.Mode, report, err)
	return report, err
}

// ImportFeed pulls a CSV feed from the bucket and imports it.
func (s *Service) ImportFeed(ctx context.Context, object string, opts ImportOptions) (*ingest.Report, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	key := storage.FeedKey(object)
	data, err := storage.Read(ctx, s.client, s.bucket, key)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Importing feed from storage", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.Import(ctx, bytes.NewReader(data), opts)
}

// ListFeeds returns the feeds waiting in the bucket.
func (s *Service) ListFeeds(ctx context.Context) ([]storage.ObjectSummary, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return storage.List(ctx, s.client, s.bucket, storage.FeedPrefix)
}

func (s *Service) observeImport(ctx context.Context, mode ingest.Mode, report *ingest.Report, err error) {
	outcome := "ok"
	var (
		verr *inventory.ValidationError
		perr *inventory.PartialFailureError
	)
	switch {
	case errors.As(err, &perr):
		outcome = "partial"
	case errors.As(err, &verr):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	}

	if report == nil {
		metrics.RecordImport(string(mode), outcome, 0, 0, 0, 0, 0)
		s.logger.Error("Import failed", zap.String("mode", string(mode)), zap.Error(err))
		return
	}

	failed := 0
	if report.Merge != nil {
		failed = report.Merge.Failed
	}
	m := report.Meta
	metrics.RecordImport(string(mode), outcome, m.ValidRows, m.ExcludedRows, m.EmptyRows, len(m.Errors), failed)

	fields := []zap.Field{
		zap.String("mode", string(mode)),
		zap.String("outcome", outcome),
		zap.Int("total_rows", m.TotalRows),
		zap.Int("valid_rows", m.ValidRows),
		zap.Int("excluded_rows", m.ExcludedRows),
		zap.Int("row_errors", len(m.Errors)),
		zap.Int("warnings", len(m.Warnings)),
	}
	if report.Merge != nil {
		fields = append(fields,
			zap.Int("imported", report.Merge.Imported),
			zap.Int("updated", report.Merge.Updated),
			zap.Int("failed", report.Merge.Failed),
		)
	}
	switch outcome {
	case "ok":
		s.logger.Info("Import finished", fields...)
		s.publish(ctx, events.New(events.ImportCompleted, string(mode), report))
	case "partial":
		s.logger.Error("Replace import left the inventory partially populated", append(fields, zap.Error(err))...)
	default:
		s.logger.Warn("Import rejected", append(fields, zap.Error(err))...)
	}
}

// Export writes the live inventory as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	items, err := s.items.GetAll(ctx)
	if err != nil {
		return err
	}
	return ingest.Export(w, items)
}

// ArchiveExport writes a CSV export to the bucket and returns its key.
func (s *Service) ArchiveExport(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", ErrStorageDisabled
	}
	var buf bytes.Buffer
	if err := s.Export(ctx, &buf); err != nil {
		return "", err
	}
	key := storage.ExportKey(s.now())
	if err := storage.Put(ctx, s.client, s.bucket, key, buf.Bytes(), "text/csv"); err != nil {
		return "", err
	}
	s.logger.Info("Export archived", zap.String("key", key), zap.Int("bytes", buf.Len()))
	return key, nil
}

// ParseStatus accepts statuses in any case.
func ParseStatus(s string) (inventory.Status, error) {
	if s == "" {
		return "", nil
	}
	return inventory.ParseStatus(strings.ToUpper(strings.TrimSpace(s)))
}
