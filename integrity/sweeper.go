package integrity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aiqr-api/apperror"
	"aiqr-api/models"
	"aiqr-api/store"
)

// Sweeper deletes children no parent array lists. Children younger than
// MinAge are left alone because an attach may still be between its create
// and its push.
type Sweeper struct {
	store  store.Store
	log    *slog.Logger
	MinAge time.Duration
	now    func() time.Time
}

type SweepResult struct {
	Tables     int `json:"tables"`
	Categories int `json:"categories"`
	MenuItems  int `json:"menu_items"`
}

func (r SweepResult) Total() int { return r.Tables + r.Categories + r.MenuItems }

func NewSweeper(s store.Store, log *slog.Logger, minAge time.Duration) *Sweeper {
	return &Sweeper{store: s, log: log, MinAge: minAge, now: time.Now}
}

func (w *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	cutoff := w.now().Add(-w.MinAge)

	var restaurants []models.Restaurant
	if err := w.store.FindMany(ctx, store.Restaurants, nil, &restaurants, store.Only("id", "table_ids", "category_ids")); err != nil {
		return res, apperror.Database("list restaurants", err)
	}
	listedTables := map[string]bool{}
	listedCategories := map[string]bool{}
	for _, r := range restaurants {
		for _, id := range r.TableIDs {
			listedTables[id] = true
		}
		for _, id := range r.CategoryIDs {
			listedCategories[id] = true
		}
	}

	var categories []models.Category
	if err := w.store.FindMany(ctx, store.Categories, nil, &categories, store.Only("id", "item_ids", "created_at")); err != nil {
		return res, apperror.Database("list categories", err)
	}
	// Items of a young unlisted category may still be linked once that
	// category is, so they count as listed too.
	listedItems := map[string]bool{}
	var deadCategories []string
	for _, cat := range categories {
		if !listedCategories[cat.ID] && cat.CreatedAt.Before(cutoff) {
			deadCategories = append(deadCategories, cat.ID)
			continue
		}
		for _, id := range cat.ItemIDs {
			listedItems[id] = true
		}
	}

	var err error
	if res.Tables, err = w.sweepUnlisted(ctx, store.Tables, cutoff, listedTables); err != nil {
		return res, err
	}
	if res.Categories, err = w.delete(ctx, store.Categories, deadCategories); err != nil {
		return res, err
	}
	if res.MenuItems, err = w.sweepUnlisted(ctx, store.MenuItems, cutoff, listedItems); err != nil {
		return res, err
	}

	if res.Total() > 0 {
		w.log.Info("orphans swept", "tables", res.Tables, "categories", res.Categories, "menu_items", res.MenuItems)
	}
	return res, nil
}

func (w *Sweeper) sweepUnlisted(ctx context.Context, coll store.Collection, cutoff time.Time, listed map[string]bool) (int, error) {
	var docs []models.Base
	if err := w.store.FindMany(ctx, coll, nil, &docs, store.Only("id"), store.CreatedBefore(cutoff)); err != nil {
		return 0, apperror.Database("list "+string(coll), err)
	}
	var orphans []string
	for _, d := range docs {
		if !listed[d.ID] {
			orphans = append(orphans, d.ID)
		}
	}
	return w.delete(ctx, coll, orphans)
}

func (w *Sweeper) delete(ctx context.Context, coll store.Collection, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		err := w.store.DeleteByID(ctx, coll, id, nil)
		switch {
		case err == nil:
			n++
			w.log.Debug("orphan deleted", "collection", coll, "id", id)
		case errors.Is(err, store.ErrNotFound):
			// removed concurrently
		default:
			return n, apperror.Database("delete orphan", err)
		}
	}
	return n, nil
}

// Run sweeps every interval until ctx is done
func (w *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
				w.log.Error("sweep failed", "error", err)
			}
		}
	}
}
