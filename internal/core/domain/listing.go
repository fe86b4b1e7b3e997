package domain

import (
	"github.com/shopspring/decimal"
)

// Listing is a seller's open offer of liquidity in the escrowed asset.
// AvailableAmount only ever decreases; once it hits zero the listing is
// deactivated and never reactivates.
type Listing struct {
	Id              uint64
	Seller          string
	InitialAmount   uint64
	AvailableAmount uint64
	Price           decimal.Decimal
	Active          bool
	CreatedAt       int64
}

// NewListing returns a listing with the full amount available. The id is
// assigned by the repository at insertion time.
func NewListing(seller string, amount uint64, price decimal.Decimal, now int64) (*Listing, error) {
	if amount == 0 {
		return nil, ErrAmountTooLow
	}
	return &Listing{
		Seller:          seller,
		InitialAmount:   amount,
		AvailableAmount: amount,
		Price:           price,
		Active:          true,
		CreatedAt:       now,
	}, nil
}

// Reserve subtracts amount from the available liquidity, deactivating the
// listing in the same step if it gets drained to zero. It fails with
// ErrListingInactive if the listing is already inactive or the requested
// amount exceeds what's available.
func (l *Listing) Reserve(amount uint64) error {
	if !l.Active || amount == 0 || amount > l.AvailableAmount {
		return ErrListingInactive
	}

	l.AvailableAmount -= amount
	if l.AvailableAmount == 0 {
		l.Active = false
	}
	return nil
}

// IsDrained returns whether the listing has no liquidity left.
func (l *Listing) IsDrained() bool {
	return l.AvailableAmount == 0
}
