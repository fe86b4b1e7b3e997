package inmemory

import (
	"context"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

type listingRepositoryImpl struct {
	store *listingInmemoryStore
}

// NewListingRepositoryImpl returns a new inmemory ListingRepository implementation.
func NewListingRepositoryImpl(db *DbManager) domain.ListingRepository {
	return &listingRepositoryImpl{db.listingStore}
}

func (r listingRepositoryImpl) AddListing(
	_ context.Context, listing *domain.Listing,
) (uint64, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.counter++
	listing.Id = r.store.counter
	r.store.listings[listing.Id] = *listing
	return listing.Id, nil
}

func (r listingRepositoryImpl) GetListing(
	_ context.Context, id uint64,
) (*domain.Listing, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	listing, ok := r.store.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &listing, nil
}

func (r listingRepositoryImpl) GetAllListings(
	_ context.Context,
) ([]*domain.Listing, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	listings := make([]*domain.Listing, 0, len(r.store.listings))
	for id := uint64(1); id <= r.store.counter; id++ {
		if listing, ok := r.store.listings[id]; ok {
			l := listing
			listings = append(listings, &l)
		}
	}
	return listings, nil
}

func (r listingRepositoryImpl) UpdateListing(
	_ context.Context,
	id uint64,
	updateFn func(l *domain.Listing) (*domain.Listing, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	currentListing, ok := r.store.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}

	updatedListing, err := updateFn(&currentListing)
	if err != nil {
		return err
	}

	r.store.listings[id] = *updatedListing
	return nil
}
