package daemon

import (
	"context"
	"time"

	"github.com/fractionft/fraction-marketplace/internal/event"
	"github.com/fractionft/fraction-marketplace/internal/marketplace"
	"go.uber.org/zap"
)

// Refresher keeps the marketplace store warm by re-aggregating on a fixed
// interval. The first refresh runs immediately so the API starts populated.
type Refresher struct {
	aggregator marketplace.Aggregator
	store      *marketplace.Store
	interval   time.Duration
}

func NewRefresher(aggregator marketplace.Aggregator, store *marketplace.Store, interval time.Duration) Refresher {
	return Refresher{aggregator, store, interval}
}

func (r Refresher) Execute(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Refresher: stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r Refresher) refresh(ctx context.Context) {
	items, err := r.aggregator.Items(ctx)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Refresher: aggregation failed, keeping previous items")
		return
	}

	r.store.Replace(items)
	event.EmitEvent(event.MarketplaceRefreshedEvent, len(items))

	zap.L().With(zap.Int("items", len(items))).Info("Refresher: marketplace refreshed")
}
