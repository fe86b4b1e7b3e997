package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

type tradeRepositoryImpl struct {
	db *DbManager
}

// NewTradeRepositoryImpl returns a badger-backed TradeRepository.
func NewTradeRepositoryImpl(db *DbManager) domain.TradeRepository {
	return tradeRepositoryImpl{db}
}

func (r tradeRepositoryImpl) AddTrade(
	ctx context.Context, trade *domain.Trade,
) (uint64, error) {
	tx := txFromContext(ctx)

	id, err := nextId(r.db.Store, tx, tradeSequence)
	if err != nil {
		return 0, err
	}
	trade.Id = id

	if tx != nil {
		err = r.db.Store.TxInsert(tx, id, *trade)
	} else {
		err = r.db.Store.Insert(id, *trade)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r tradeRepositoryImpl) GetTrade(
	ctx context.Context, id uint64,
) (*domain.Trade, error) {
	var trade domain.Trade
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.Store.TxGet(tx, id, &trade)
	} else {
		err = r.db.Store.Get(id, &trade)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}

	return &trade, nil
}

func (r tradeRepositoryImpl) GetAllTrades(
	ctx context.Context,
) ([]*domain.Trade, error) {
	return r.findTrades(ctx, nil)
}

func (r tradeRepositoryImpl) GetTradesForParty(
	ctx context.Context, address string,
) ([]*domain.Trade, error) {
	query := badgerhold.Where("Seller").Eq(address).
		Or(badgerhold.Where("Buyer").Eq(address))
	return r.findTrades(ctx, query)
}

func (r tradeRepositoryImpl) GetTradesForListing(
	ctx context.Context, listingId uint64,
) ([]*domain.Trade, error) {
	query := badgerhold.Where("ListingId").Eq(listingId)
	return r.findTrades(ctx, query)
}

func (r tradeRepositoryImpl) UpdateTrade(
	ctx context.Context,
	id uint64,
	updateFn func(t *domain.Trade) (*domain.Trade, error),
) error {
	currentTrade, err := r.GetTrade(ctx, id)
	if err != nil {
		return err
	}

	updatedTrade, err := updateFn(currentTrade)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.db.Store.TxUpdate(tx, id, *updatedTrade)
	}
	return r.db.Store.Update(id, *updatedTrade)
}

func (r tradeRepositoryImpl) findTrades(
	ctx context.Context, query *badgerhold.Query,
) ([]*domain.Trade, error) {
	var trades []domain.Trade
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.Store.TxFind(tx, &trades, query)
	} else {
		err = r.db.Store.Find(&trades, query)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(trades, func(i, j int) bool {
		return trades[i].Id < trades[j].Id
	})

	result := make([]*domain.Trade, 0, len(trades))
	for i := range trades {
		result = append(result, &trades[i])
	}
	return result, nil
}
