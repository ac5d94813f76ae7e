package snapshots

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"inventory-reconciler/core/events"
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/metrics"
	"inventory-reconciler/core/reconcile"
	"inventory-reconciler/core/storage"
	"inventory-reconciler/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service takes, lists and compares snapshots.
type Service struct {
	snapshots store.SnapshotStore
	items     store.ItemStore
	client    storage.Client
	bucket    string
	cfg       inventory.SnapshotConfig
	cache     *reconcile.DiffCache
	events    events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new snapshot service. client may be nil when object
// storage is disabled; archiving is then skipped.
func NewService(snapshots store.SnapshotStore, items store.ItemStore, client storage.Client, bucket string, cfg inventory.SnapshotConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		snapshots: snapshots,
		items:     items,
		client:    client,
		bucket:    bucket,
		cfg:       cfg,
		cache:     reconcile.NewDiffCache(cfg.CacheTTL),
		events:    events.Nop{},
		logger:    logger,
		now:       time.Now,
	}
}

// SetPublisher routes snapshot lifecycle events to p.
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

// Create copies the live inventory into a new snapshot. An empty label
// defaults to the date.
func (s *Service) Create(ctx context.Context, label string, auto bool) (*inventory.Snapshot, error) {
	items, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	label = strings.TrimSpace(label)
	if label == "" {
		label = inventory.DefaultLabel(now)
	}

	snap := &inventory.Snapshot{
		ID:        uuid.NewString(),
		Label:     label,
		Auto:      auto,
		TakenAt:   now,
		ItemCount: len(items),
		Items:     items,
	}
	if err := s.snapshots.Create(ctx, snap); err != nil {
		return nil, err
	}
	metrics.RecordSnapshot(auto)
	s.logger.Info("Snapshot created",
		zap.String("id", snap.ID),
		zap.String("label", snap.Label),
		zap.Bool("auto", auto),
		zap.Int("items", snap.ItemCount),
	)

	s.archive(ctx, snap)

	header := *snap
	header.Items = nil
	s.publish(ctx, events.New(events.SnapshotCreated, snap.ID, header))
	return snap, nil
}

// archive uploads the snapshot as JSON. Failures are logged and never fail
// the snapshot itself.
func (s *Service) archive(ctx context.Context, snap *inventory.Snapshot) {
	if !s.cfg.Archive || s.client == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("Failed to encode snapshot archive", zap.String("id", snap.ID), zap.Error(err))
		return
	}
	if err := storage.Put(ctx, s.client, s.bucket, storage.SnapshotKey(snap.ID), data, "application/json"); err != nil {
		s.logger.Warn("Failed to archive snapshot", zap.String("id", snap.ID), zap.Error(err))
	}
}

// EnsureDailyAuto takes an automatic snapshot unless one was already taken
// today. It reports whether a snapshot was created.
func (s *Service) EnsureDailyAuto(ctx context.Context) (*inventory.Snapshot, bool, error) {
	latest, err := s.snapshots.LatestAuto(ctx)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	if latest != nil && sameDay(latest.TakenAt, now) {
		return latest, false, nil
	}

	snap, err := s.Create(ctx, "", true)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// sameDay compares calendar dates in b's location, the clock the date
// labels are written in.
func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// List returns snapshot headers, most recent first.
func (s *Service) List(ctx context.Context) ([]inventory.Snapshot, error) {
	return s.snapshots.List(ctx)
}

// Get returns a snapshot with its items. LiveID yields the live inventory.
func (s *Service) Get(ctx context.Context, id string) (*inventory.Snapshot, error) {
	if id == reconcile.LiveID {
		items, err := s.items.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		live := reconcile.LiveSnapshot(items, s.now())
		return &live, nil
	}
	return s.snapshots.Get(ctx, id)
}

// Delete removes a snapshot, its cached diffs and its archive.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.snapshots.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(id)

	if s.cfg.Archive && s.client != nil {
		if err := storage.Remove(ctx, s.client, s.bucket, storage.SnapshotKey(id)); err != nil {
			s.logger.Warn("Failed to remove snapshot archive", zap.String("id", id), zap.Error(err))
		}
	}
	s.logger.Info("Snapshot deleted", zap.String("id", id))
	s.publish(ctx, events.New(events.SnapshotDeleted, id, map[string]string{"id": id}))
	return nil
}

// Diff compares two snapshots. Either side may be LiveID.
func (s *Service) Diff(ctx context.Context, a, b string, opts reconcile.DiffOptions) (*reconcile.DiffResult, error) {
	if opts.Limit == 0 {
		opts.Limit = s.cfg.DiffLimit
	}

	return s.cache.GetOrCompute(a, b, opts, func() (*reconcile.DiffResult, error) {
		defer metrics.ObserveDiff(time.Now())

		first, err := s.Get(ctx, a)
		if err != nil {
			return nil, err
		}
		second, err := s.Get(ctx, b)
		if err != nil {
			return nil, err
		}
		return reconcile.Diff(*first, *second, opts), nil
	})
}

// Trend joins the given snapshots, or every stored one when ids is empty.
func (s *Service) Trend(ctx context.Context, ids []string) (*reconcile.TrendResult, error) {
	if len(ids) == 0 {
		headers, err := s.snapshots.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, h := range headers {
			ids = append(ids, h.ID)
		}
	}

	snaps := make([]inventory.Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return reconcile.Trend(snaps), nil
}
