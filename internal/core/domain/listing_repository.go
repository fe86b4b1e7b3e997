package domain

import "context"

// ListingRepository is the abstraction for any kind of database intended to
// persist Listings. Implementations allocate sequential ids starting at 1.
type ListingRepository interface {
	// AddListing persists the given listing, assigns it the next id in the
	// listing namespace and returns it.
	AddListing(ctx context.Context, listing *Listing) (uint64, error)
	// GetListing returns the listing with the given id, or ErrListingNotFound.
	GetListing(ctx context.Context, id uint64) (*Listing, error)
	// GetAllListings returns every listing in insertion order, drained ones
	// included.
	GetAllListings(ctx context.Context) ([]*Listing, error)
	// UpdateListing allows to commit multiple changes to the same listing in a
	// transactional way.
	UpdateListing(
		ctx context.Context,
		id uint64,
		updateFn func(l *Listing) (*Listing, error),
	) error
}
