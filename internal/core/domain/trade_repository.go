package domain

import "context"

// TradeRepository is the abstraction for any kind of database intended to
// persist Trades. Implementations allocate sequential ids starting at 1,
// independent from the listing id namespace.
type TradeRepository interface {
	// AddTrade persists the given trade, assigns it the next id in the trade
	// namespace and returns it.
	AddTrade(ctx context.Context, trade *Trade) (uint64, error)
	// GetTrade returns the trade with the given id, or ErrTradeNotFound.
	GetTrade(ctx context.Context, id uint64) (*Trade, error)
	// GetAllTrades returns every trade in insertion order.
	GetAllTrades(ctx context.Context) ([]*Trade, error)
	// GetTradesForParty returns all trades in which the given address appears
	// as either seller or buyer, in insertion order.
	GetTradesForParty(ctx context.Context, address string) ([]*Trade, error)
	// GetTradesForListing returns all trades started against the given listing,
	// in insertion order.
	GetTradesForListing(ctx context.Context, listingId uint64) ([]*Trade, error)
	// UpdateTrade allows to commit multiple changes to the same trade in a
	// transactional way.
	UpdateTrade(
		ctx context.Context,
		id uint64,
		updateFn func(t *Trade) (*Trade, error),
	) error
}
