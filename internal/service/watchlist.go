package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"indyscope/internal/models"
	"indyscope/internal/pricing"
	"indyscope/internal/store"
)

const watchlistKey = "watchlist"

// WatchItem is one pinned type the cron refresher keeps warm.
type WatchItem struct {
	TypeID int64  `json:"type_id"`
	Name   string `json:"name"`
}

// Watchlist persists pinned types through the durable store.
type Watchlist struct {
	Store  store.Store
	Logger *zap.Logger
}

func (w *Watchlist) List(ctx context.Context) ([]WatchItem, error) {
	raw, ok := w.Store.Get(ctx, watchlistKey)
	if !ok {
		return nil, nil
	}
	var items []WatchItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode watchlist: %w", err)
	}
	return items, nil
}

func (w *Watchlist) Add(ctx context.Context, item WatchItem) error {
	items, err := w.List(ctx)
	if err != nil {
		return err
	}
	for _, existing := range items {
		if existing.TypeID == item.TypeID {
			return nil
		}
	}
	return w.save(ctx, append(items, item))
}

func (w *Watchlist) Remove(ctx context.Context, typeID int64) error {
	items, err := w.List(ctx)
	if err != nil {
		return err
	}
	out := items[:0]
	for _, existing := range items {
		if existing.TypeID != typeID {
			out = append(out, existing)
		}
	}
	return w.save(ctx, out)
}

func (w *Watchlist) save(ctx context.Context, items []WatchItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return w.Store.Set(ctx, watchlistKey, raw)
}

// Refresh force-refreshes quotes for every watched type in both market
// contexts. Wired to the cron runner.
func (w *Watchlist) Refresh(ctx context.Context, oracle *pricing.Oracle, settings models.Settings) {
	items, err := w.List(ctx)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Warn("watchlist refresh skipped", zap.Error(err))
		}
		return
	}
	if len(items) == 0 {
		return
	}
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.TypeID
	}
	oracle.Prefetch(ctx, ids, settings.Build, true)
	oracle.Prefetch(ctx, ids, settings.Sell, true)
	if w.Logger != nil {
		w.Logger.Info("watchlist quotes refreshed", zap.Int("types", len(ids)))
	}
}
