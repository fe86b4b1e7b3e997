package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewListing(t *testing.T) {
	price := decimal.NewFromFloat(1.25)

	listing, err := NewListing("0xSeller", 100, price, 1000)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, uint64(100), listing.InitialAmount)
	assert.Equal(t, uint64(100), listing.AvailableAmount)
	assert.True(t, listing.Active)
	assert.Equal(t, int64(1000), listing.CreatedAt)
}

func TestNewListingZeroAmount(t *testing.T) {
	_, err := NewListing("0xSeller", 0, decimal.NewFromInt(1), 1000)
	assert.Equal(t, ErrAmountTooLow, err)
}

func TestReserve(t *testing.T) {
	listing, _ := NewListing("0xSeller", 100, decimal.NewFromInt(1), 1000)

	err := listing.Reserve(40)
	assert.NoError(t, err)
	assert.Equal(t, uint64(60), listing.AvailableAmount)
	assert.True(t, listing.Active)

	err = listing.Reserve(60)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), listing.AvailableAmount)
	assert.False(t, listing.Active)
	assert.True(t, listing.IsDrained())
}

func TestReserveFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Listing)
		amount uint64
	}{
		{"zero amount", func(l *Listing) {}, 0},
		{"over available", func(l *Listing) {}, 101},
		{"inactive", func(l *Listing) { l.Active = false }, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, _ := NewListing("0xSeller", 100, decimal.NewFromInt(1), 1000)
			tt.mutate(listing)

			err := listing.Reserve(tt.amount)
			assert.Equal(t, ErrListingInactive, err)
		})
	}
}

func TestReserveNeverReactivates(t *testing.T) {
	listing, _ := NewListing("0xSeller", 10, decimal.NewFromInt(1), 1000)

	if err := listing.Reserve(10); err != nil {
		t.Fatal(err)
	}

	err := listing.Reserve(1)
	assert.Equal(t, ErrListingInactive, err)
	assert.False(t, listing.Active)
}
