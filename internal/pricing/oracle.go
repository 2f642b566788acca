package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"indyscope/internal/esi"
	"indyscope/internal/models"
	"indyscope/internal/sde"
)

// defaultMaxPages caps the order-book scan for heavily paginated,
// illiquid listings.
const defaultMaxPages = 10

// Oracle resolves every quote request to a PriceQuote, degrading through
// fresh cache → aggregate endpoint → order-book scan → stale cache →
// mock table → missing. It never returns an error.
type Oracle struct {
	Orders     *esi.Client
	Aggregates *esi.AggregateClient
	Data       *sde.Dataset
	Cache      *QuoteCache
	Pool       *Pool
	Logger     *zap.Logger
	MaxPages   int

	// Now is a test hook; nil means time.Now.
	Now func() time.Time
}

type provider func(ctx context.Context, typeID int64, mctx models.MarketContext) (models.PriceQuote, bool)

func (o *Oracle) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Quote returns the best buy/sell for one (type, market context) pair.
// forceRefresh skips the fresh-cache provider, nothing else.
func (o *Oracle) Quote(ctx context.Context, typeID int64, mctx models.MarketContext, forceRefresh bool) models.PriceQuote {
	chain := make([]provider, 0, 5)
	if !forceRefresh {
		chain = append(chain, o.fromFreshCache)
	}
	chain = append(chain, o.fromAggregate, o.fromOrderBook, o.fromStaleCache, o.fromMock)

	for _, p := range chain {
		if q, ok := p(ctx, typeID, mctx); ok {
			return q
		}
	}
	return models.PriceQuote{
		TypeID:    typeID,
		Context:   mctx,
		FetchedAt: o.now().UnixMilli(),
		Source:    models.QuoteSourceMissing,
	}
}

// Prefetch warms the cache for many types under the pool bound. Results
// land in the cache keyed by (context, type); completion order is
// meaningless.
func (o *Oracle) Prefetch(ctx context.Context, typeIDs []int64, mctx models.MarketContext, forceRefresh bool) {
	seen := make(map[int64]struct{}, len(typeIDs))
	var wg sync.WaitGroup
	for _, id := range typeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		id := id
		o.Pool.Go(ctx, &wg, func() {
			o.Quote(ctx, id, mctx, forceRefresh)
		})
	}
	wg.Wait()
}

// Invalidate drops the cached quote for one (type, context) pair.
func (o *Oracle) Invalidate(ctx context.Context, typeID int64, mctx models.MarketContext) {
	o.Cache.Invalidate(ctx, mctx.CacheKey(typeID))
}

func (o *Oracle) fromFreshCache(ctx context.Context, typeID int64, mctx models.MarketContext) (models.PriceQuote, bool) {
	return o.Cache.Fresh(ctx, mctx.CacheKey(typeID), o.now())
}

func (o *Oracle) fromAggregate(ctx context.Context, typeID int64, mctx models.MarketContext) (models.PriceQuote, bool) {
	if !o.Aggregates.Enabled() {
		return models.PriceQuote{}, false
	}
	aggs, err := o.Aggregates.FetchAggregates(ctx, mctx.RegionID, []int64{typeID})
	if err != nil {
		if o.Logger != nil {
			o.Logger.Debug("aggregate fetch failed", zap.Int64("type_id", typeID), zap.Error(err))
		}
		return models.PriceQuote{}, false
	}
	agg, ok := aggs[typeID]
	if !ok {
		return models.PriceQuote{}, false
	}
	buy := positivePrice(agg.Buy.Max)
	sell := positivePrice(agg.Sell.Min)
	if buy == nil && sell == nil {
		return models.PriceQuote{}, false
	}
	q := o.liveQuote(typeID, mctx, buy, sell, agg.Buy.OrderCount+agg.Sell.OrderCount)
	o.Cache.Put(ctx, q)
	return q, true
}

func (o *Oracle) fromOrderBook(ctx context.Context, typeID int64, mctx models.MarketContext) (models.PriceQuote, bool) {
	first, pages, err := o.Orders.FetchOrdersPage(ctx, mctx.RegionID, typeID, 1)
	if err != nil {
		if o.Logger != nil {
			o.Logger.Debug("order book fetch failed", zap.Int64("type_id", typeID), zap.Error(err))
		}
		return models.PriceQuote{}, false
	}
	maxPages := o.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	if pages > maxPages {
		pages = maxPages
	}

	// Pages after the first are fetched sequentially: a Quote may already
	// be running inside a pool slot (Prefetch), and fanning the pages out
	// onto the same pool would deadlock once every slot is held by a
	// quote waiting on its own pages.
	orders := first
	for page := 2; page <= pages; page++ {
		extra, _, perr := o.Orders.FetchOrdersPage(ctx, mctx.RegionID, typeID, page)
		if perr != nil {
			if o.Logger != nil {
				o.Logger.Debug("order book page failed", zap.Int64("type_id", typeID), zap.Int("page", page), zap.Error(perr))
			}
			continue
		}
		orders = append(orders, extra...)
	}

	buy, sell, count := bestPrices(orders, mctx)
	if buy == nil && sell == nil {
		return models.PriceQuote{}, false
	}
	q := o.liveQuote(typeID, mctx, buy, sell, count)
	o.Cache.Put(ctx, q)
	return q, true
}

func (o *Oracle) fromStaleCache(ctx context.Context, typeID int64, mctx models.MarketContext) (models.PriceQuote, bool) {
	q, ok := o.Cache.Stale(ctx, mctx.CacheKey(typeID))
	if !ok {
		return models.PriceQuote{}, false
	}
	q.Source = models.QuoteSourceStaleCache
	return q, true
}

func (o *Oracle) fromMock(_ context.Context, typeID int64, mctx models.MarketContext) (models.PriceQuote, bool) {
	mock, ok := o.Data.MockPrice(typeID)
	if !ok {
		return models.PriceQuote{}, false
	}
	return models.PriceQuote{
		TypeID:    typeID,
		Context:   mctx,
		Buy:       positivePrice(mock.Buy),
		Sell:      positivePrice(mock.Sell),
		FetchedAt: o.now().UnixMilli(),
		Source:    models.QuoteSourceMock,
	}, true
}

func (o *Oracle) liveQuote(typeID int64, mctx models.MarketContext, buy, sell *decimal.Decimal, orderCount int) models.PriceQuote {
	return models.PriceQuote{
		TypeID:    typeID,
		Context:   mctx,
		Buy:       buy,
		Sell:      sell,
		FetchedAt: o.now().UnixMilli(),
		Source:    models.QuoteSourceLive,
		Meta: &models.QuoteMeta{
			OrderCount:  orderCount,
			SpreadPct:   SpreadPct(buy, sell),
			Competition: CompetitionScore(buy, sell, orderCount),
		},
	}
}

// bestPrices picks min sell / max buy at the exact station (or system)
// when one is configured, falling back to the best anywhere in the
// region. Orders with no remaining volume are excluded.
func bestPrices(orders []esi.MarketOrder, mctx models.MarketContext) (buy, sell *decimal.Decimal, orderCount int) {
	atLocation := func(ord esi.MarketOrder) bool {
		if mctx.StationID != 0 {
			return ord.LocationID == mctx.StationID
		}
		if mctx.SystemID != 0 {
			return ord.SystemID == mctx.SystemID
		}
		return true
	}

	var localBuy, localSell, regionBuy, regionSell *decimal.Decimal
	for _, ord := range orders {
		if ord.VolumeRemain <= 0 {
			continue
		}
		orderCount++
		price := decimal.NewFromFloat(ord.Price)
		if ord.IsBuyOrder {
			regionBuy = maxPrice(regionBuy, price)
			if atLocation(ord) {
				localBuy = maxPrice(localBuy, price)
			}
		} else {
			regionSell = minPrice(regionSell, price)
			if atLocation(ord) {
				localSell = minPrice(localSell, price)
			}
		}
	}

	buy = localBuy
	if buy == nil {
		buy = regionBuy
	}
	sell = localSell
	if sell == nil {
		sell = regionSell
	}
	return buy, sell, orderCount
}

func maxPrice(cur *decimal.Decimal, price decimal.Decimal) *decimal.Decimal {
	if cur == nil || price.GreaterThan(*cur) {
		return &price
	}
	return cur
}

func minPrice(cur *decimal.Decimal, price decimal.Decimal) *decimal.Decimal {
	if cur == nil || price.LessThan(*cur) {
		return &price
	}
	return cur
}

func positivePrice(v float64) *decimal.Decimal {
	if v <= 0 {
		return nil
	}
	d := decimal.NewFromFloat(v)
	return &d
}
