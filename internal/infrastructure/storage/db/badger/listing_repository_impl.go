package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

type listingRepositoryImpl struct {
	db *DbManager
}

// NewListingRepositoryImpl returns a badger-backed ListingRepository.
func NewListingRepositoryImpl(db *DbManager) domain.ListingRepository {
	return listingRepositoryImpl{db}
}

func (r listingRepositoryImpl) AddListing(
	ctx context.Context, listing *domain.Listing,
) (uint64, error) {
	tx := txFromContext(ctx)

	id, err := nextId(r.db.Store, tx, listingSequence)
	if err != nil {
		return 0, err
	}
	listing.Id = id

	if tx != nil {
		err = r.db.Store.TxInsert(tx, id, *listing)
	} else {
		err = r.db.Store.Insert(id, *listing)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r listingRepositoryImpl) GetListing(
	ctx context.Context, id uint64,
) (*domain.Listing, error) {
	var listing domain.Listing
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.Store.TxGet(tx, id, &listing)
	} else {
		err = r.db.Store.Get(id, &listing)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	return &listing, nil
}

func (r listingRepositoryImpl) GetAllListings(
	ctx context.Context,
) ([]*domain.Listing, error) {
	var listings []domain.Listing
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.db.Store.TxFind(tx, &listings, nil)
	} else {
		err = r.db.Store.Find(&listings, nil)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Id < listings[j].Id
	})

	result := make([]*domain.Listing, 0, len(listings))
	for i := range listings {
		result = append(result, &listings[i])
	}
	return result, nil
}

func (r listingRepositoryImpl) UpdateListing(
	ctx context.Context,
	id uint64,
	updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	currentListing, err := r.GetListing(ctx, id)
	if err != nil {
		return err
	}

	updatedListing, err := updateFn(currentListing)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.db.Store.TxUpdate(tx, id, *updatedListing)
	}
	return r.db.Store.Update(id, *updatedListing)
}

func txFromContext(ctx context.Context) *badger.Txn {
	if v := ctx.Value("tx"); v != nil {
		if tx, ok := v.(*badger.Txn); ok {
			return tx
		}
	}
	return nil
}
