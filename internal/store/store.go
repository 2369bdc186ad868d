// Package store keeps the durable CSV of accepted job records.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"time"

	"go-jobradar/internal/dedup"
	"go-jobradar/internal/models"
)

var (
	_ Locker = (*FileLock)(nil)
	_ Locker = (*RedisLock)(nil)
)

// History is the state loaded from the store before a run.
type History struct {
	Rows             []models.Row
	Known            *dedup.Index
	LastDiscoveredAt *time.Time
	// Warning is set when an existing store could not be read and the run
	// continues with empty history.
	Warning string

	unreadable bool
}

// KnownIdentifiers returns the index of keys already persisted.
func (h *History) KnownIdentifiers() *dedup.Index {
	return h.Known
}

// PersistResult describes one call to Persist.
type PersistResult struct {
	Written    bool
	Path       string
	Rows       int
	Added      int
	Merge      dedup.MergeStats
	RescuePath string
	// AsidePath is where an unreadable store was moved before rewriting.
	AsidePath string
}

type Store struct {
	path       string
	schema     []string
	retryDelay time.Duration
	runID      string
	log        *slog.Logger
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithRetryDelay(d time.Duration) Option {
	return func(s *Store) { s.retryDelay = d }
}

// WithRunID names rescue files after the run.
func WithRunID(id string) Option {
	return func(s *Store) { s.runID = id }
}

func New(path string, schema []string, opts ...Option) *Store {
	if len(schema) == 0 {
		schema = models.DefaultSchema
	}
	s := &Store{
		path:       path,
		schema:     schema,
		retryDelay: 2 * time.Second,
		runID:      time.Now().Format("20060102-150405"),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string { return s.path }

func (s *Store) Schema() []string { return s.schema }

// Load reads the store. A missing file is an empty history. An unreadable or
// corrupt file is also treated as empty, with History.Warning set.
func (s *Store) Load() *History {
	h := &History{Known: dedup.NewIndex()}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("📂 Store does not exist yet, starting empty", "path", s.path)
		return h
	}
	if err != nil {
		return s.degraded(h, fmt.Errorf("open store: %w", err))
	}
	defer f.Close()

	header, rows, err := readCSV(f)
	if err != nil {
		return s.degraded(h, err)
	}
	if !slices.Contains(header, models.ColJobID) {
		s.log.Warn("⚠️ Store has no job_id column, rows cannot be deduplicated", "path", s.path)
	}

	h.Rows = rows
	h.Known = dedup.IndexRows(rows)
	for _, r := range rows {
		ts, ok := r.DiscoveredAt()
		if !ok {
			continue
		}
		if h.LastDiscoveredAt == nil || ts.After(*h.LastDiscoveredAt) {
			t := ts
			h.LastDiscoveredAt = &t
		}
	}

	s.log.Info("📋 Loaded store", "path", s.path, "rows", len(rows), "known_ids", h.Known.Len(), "last_discovered_at", h.LastDiscoveredAt)
	return h
}

func (s *Store) degraded(h *History, err error) *History {
	h.unreadable = true
	h.Warning = fmt.Sprintf("store %s unreadable, continuing with empty history: %v", s.path, err)
	s.log.Warn("⚠️ "+h.Warning, "path", s.path)
	return h
}

// Persist merges fresh records into history and rewrites the store. Nothing is
// written when fresh is empty. A failed write is retried once; if that fails
// too the merged table is saved to a rescue file and the error is returned.
func (s *Store) Persist(ctx context.Context, h *History, fresh []models.JobRecord) (PersistResult, error) {
	res := PersistResult{Path: s.path}
	if len(fresh) == 0 {
		s.log.Info("ℹ️ No new records, store left untouched", "path", s.path)
		return res, nil
	}
	if err := models.CheckSchema(s.schema); err != nil {
		return res, fmt.Errorf("persist %s: %w", s.path, err)
	}
	if h != nil && h.unreadable {
		aside, err := s.setAside()
		if err != nil {
			return res, fmt.Errorf("persist %s: %w", s.path, err)
		}
		res.AsidePath = aside
	}

	freshRows := make([]models.Row, len(fresh))
	for i, rec := range fresh {
		freshRows[i] = rec.Row()
	}
	var historyRows []models.Row
	if h != nil {
		historyRows = h.Rows
	}
	rows, stats := dedup.Merge(historyRows, freshRows, s.schema)
	res.Merge = stats
	res.Rows = len(rows)
	res.Added = stats.FreshKept
	if dropped := stats.InvalidIDs + stats.Duplicates; dropped > 0 {
		s.log.Info("🧹 Dropped rows during merge", "invalid_ids", stats.InvalidIDs, "duplicates", stats.Duplicates)
	}

	err := writeFileAtomic(s.path, s.schema, rows)
	if err != nil {
		s.log.Warn("⚠️ Store write failed, retrying once", "path", s.path, "error", err, "retry_in", s.retryDelay)
		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
		}
		err = writeFileAtomic(s.path, s.schema, rows)
	}
	if err != nil {
		rescue := fmt.Sprintf("%s.rescue-%s.csv", s.path, s.runID)
		if rerr := writeFileAtomic(rescue, s.schema, rows); rerr != nil {
			s.log.Error("❌ Rescue write failed", "path", rescue, "error", rerr)
		} else {
			res.RescuePath = rescue
			s.log.Error("🛟 Store write failed, merged rows saved to rescue file", "rescue", rescue)
		}
		return res, fmt.Errorf("persist %s: %w", s.path, err)
	}

	res.Written = true
	s.log.Info("💾 Store saved", "path", s.path, "rows", res.Rows, "added", res.Added)
	return res, nil
}

// setAside renames an unreadable store file so the rewrite does not destroy
// it. Anything other than a regular file is left in place.
func (s *Store) setAside() (string, error) {
	fi, err := os.Lstat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat unreadable store: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return "", nil
	}
	aside := fmt.Sprintf("%s.unreadable-%s", s.path, s.runID)
	if err := os.Rename(s.path, aside); err != nil {
		return "", fmt.Errorf("move unreadable store aside: %w", err)
	}
	s.log.Warn("📦 Unreadable store moved aside", "path", s.path, "aside", aside)
	return aside, nil
}
