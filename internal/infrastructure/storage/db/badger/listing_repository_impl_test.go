package dbbadger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

var ctx = context.Background()

func newTestDb(t *testing.T) *DbManager {
	t.Helper()

	db, err := NewDbManager(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newListing(t *testing.T, amount uint64) *domain.Listing {
	t.Helper()

	listing, err := domain.NewListing(
		"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		amount, decimal.NewFromInt(1), 1000,
	)
	if err != nil {
		t.Fatal(err)
	}
	return listing
}

func TestAddAndGetListing(t *testing.T) {
	repo := NewListingRepositoryImpl(newTestDb(t))

	id, err := repo.AddListing(ctx, newListing(t, 100))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, uint64(1), id)

	listing, err := repo.GetListing(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, uint64(100), listing.AvailableAmount)
	assert.Equal(t, "1", listing.Price.String())

	_, err = repo.GetListing(ctx, 42)
	assert.Equal(t, domain.ErrListingNotFound, err)
}

func TestGetAllListingsSortedById(t *testing.T) {
	repo := NewListingRepositoryImpl(newTestDb(t))

	for i := 0; i < 3; i++ {
		if _, err := repo.AddListing(ctx, newListing(t, 100)); err != nil {
			t.Fatal(err)
		}
	}

	listings, err := repo.GetAllListings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, listings, 3)
	for i, listing := range listings {
		assert.Equal(t, uint64(i+1), listing.Id)
	}
}

func TestUpdateListing(t *testing.T) {
	repo := NewListingRepositoryImpl(newTestDb(t))
	id, _ := repo.AddListing(ctx, newListing(t, 100))

	err := repo.UpdateListing(ctx, id, func(l *domain.Listing) (*domain.Listing, error) {
		if err := l.Reserve(40); err != nil {
			return nil, err
		}
		return l, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	listing, _ := repo.GetListing(ctx, id)
	assert.Equal(t, uint64(60), listing.AvailableAmount)

	err = repo.UpdateListing(ctx, 42, func(l *domain.Listing) (*domain.Listing, error) {
		return l, nil
	})
	assert.Equal(t, domain.ErrListingNotFound, err)
}

func TestListingTransactionIsolation(t *testing.T) {
	db := newTestDb(t)
	repo := NewListingRepositoryImpl(db)

	// a discarded transaction leaves no listing behind.
	tx := db.NewTransaction()
	txCtx := context.WithValue(ctx, "tx", tx)
	id, err := repo.AddListing(txCtx, newListing(t, 100))
	if err != nil {
		t.Fatal(err)
	}
	tx.Discard()

	_, err = repo.GetListing(ctx, id)
	assert.Equal(t, domain.ErrListingNotFound, err)

	// a committed transaction persists both the listing and the sequence.
	tx = db.NewTransaction()
	txCtx = context.WithValue(ctx, "tx", tx)
	id, err = repo.AddListing(txCtx, newListing(t, 100))
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	listing, err := repo.GetListing(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, uint64(100), listing.AvailableAmount)
}
