package inmemory

import (
	"context"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

type tradeRepositoryImpl struct {
	store *tradeInmemoryStore
}

// NewTradeRepositoryImpl returns a new inmemory TradeRepository implementation.
func NewTradeRepositoryImpl(db *DbManager) domain.TradeRepository {
	return &tradeRepositoryImpl{db.tradeStore}
}

func (r tradeRepositoryImpl) AddTrade(
	_ context.Context, trade *domain.Trade,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.counter++
	trade.Id = r.store.counter
	r.store.trades[trade.Id] = *trade
	return trade.Id, nil
}

func (r tradeRepositoryImpl) GetTrade(
	_ context.Context, id uint64,
) (*domain.Trade, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	trade, ok := r.store.trades[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	return &trade, nil
}

func (r tradeRepositoryImpl) GetAllTrades(
	_ context.Context,
) ([]*domain.Trade, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.findTrades(func(*domain.Trade) bool { return true }), nil
}

func (r tradeRepositoryImpl) GetTradesForParty(
	_ context.Context, address string,
) ([]*domain.Trade, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.findTrades(func(t *domain.Trade) bool {
		return t.Seller == address || t.Buyer == address
	}), nil
}

func (r tradeRepositoryImpl) GetTradesForListing(
	_ context.Context, listingId uint64,
) ([]*domain.Trade, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return r.findTrades(func(t *domain.Trade) bool {
		return t.ListingId == listingId
	}), nil
}

func (r tradeRepositoryImpl) UpdateTrade(
	_ context.Context,
	id uint64,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentTrade, ok := r.store.trades[id]
	if !ok {
		return domain.ErrTradeNotFound
	}

	updatedTrade, err := updateFn(&currentTrade)
	if err != nil {
		return err
	}

	r.store.trades[id] = *updatedTrade
	return nil
}

func (r tradeRepositoryImpl) findTrades(match func(*domain.Trade) bool) []*domain.Trade {
	trades := make([]*domain.Trade, 0)
	for id := uint64(1); id <= r.store.counter; id++ {
		trade, ok := r.store.trades[id]
		if !ok {
			continue
		}
		if match(&trade) {
			t := trade
			trades = append(trades, &t)
		}
	}
	return trades
}
