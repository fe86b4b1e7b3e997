package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Natnael-arch/DecentraP2P/internal/core/application"
	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
	inmemoryledger "github.com/Natnael-arch/DecentraP2P/internal/infrastructure/ledger/inmemory"
	"github.com/Natnael-arch/DecentraP2P/internal/infrastructure/pubsub"
	dbinmemory "github.com/Natnael-arch/DecentraP2P/internal/infrastructure/storage/db/inmemory"
)

var (
	ctx = context.Background()

	sellerAddress    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	buyerAddress     = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	strangerAddress  = "0xcccccccccccccccccccccccccccccccccccccccc"
	custodianAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

	testPrice = decimal.NewFromFloat(1.5)
)

func newTestService(t *testing.T) (
	application.EscrowService, *inmemoryledger.Ledger, *pubsub.BrokerListener,
) {
	t.Helper()

	db := dbinmemory.NewDbManager()
	ledger := inmemoryledger.NewLedger(custodianAddress)
	broker := pubsub.NewBroker()
	t.Cleanup(func() { broker.Close() })

	svc := application.NewEscrowService(
		dbinmemory.NewListingRepositoryImpl(db),
		dbinmemory.NewTradeRepositoryImpl(db),
		ledger,
		broker,
		db,
		time.Hour,
	)
	return svc, ledger, broker.Listen("*")
}

func fundSeller(ledger *inmemoryledger.Ledger, amount uint64) {
	ledger.Mint(sellerAddress, amount)
	ledger.Approve(sellerAddress, amount)
}

func drainEvents(listener *pubsub.BrokerListener) []string {
	topics := []string{}
	for {
		select {
		case msg := <-listener.Chan():
			topics = append(topics, msg.Topic)
		default:
			return topics
		}
	}
}

func TestHappyPathRelease(t *testing.T) {
	svc, ledger, events := newTestService(t)
	fundSeller(ledger, 100)

	listing, err := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, uint64(1), listing.Id)

	trade, err := svc.StartTrade(ctx, buyerAddress, listing.Id, 40)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, uint64(1), trade.Id)
	assert.Equal(t, sellerAddress, trade.Seller)
	assert.True(t, trade.IsAwaitingLock())

	listing, _ = svc.GetListing(ctx, listing.Id)
	assert.Equal(t, uint64(60), listing.AvailableAmount)
	assert.True(t, listing.Active)

	trade, err = svc.SellerLockFunds(ctx, sellerAddress, trade.Id)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, trade.IsLocked())
	assert.Equal(t, uint64(40), ledger.BalanceOf(custodianAddress))
	assert.Equal(t, uint64(60), ledger.BalanceOf(sellerAddress))

	trade, err = svc.BuyerMarkPaid(ctx, buyerAddress, trade.Id)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, trade.IsPaid())

	trade, err = svc.SellerRelease(ctx, sellerAddress, trade.Id)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, trade.IsSettled())
	assert.Equal(t, uint64(0), ledger.BalanceOf(custodianAddress))
	assert.Equal(t, uint64(40), ledger.BalanceOf(buyerAddress))

	assert.Equal(t, []string{
		"LISTING_CREATED", "TRADE_STARTED", "FUNDS_LOCKED",
		"TRADE_MARKED_PAID", "TRADE_RELEASED",
	}, drainEvents(events))
}

func TestTimeoutRefund(t *testing.T) {
	svc, ledger, events := newTestService(t)
	fundSeller(ledger, 100)

	now := int64(10_000)
	svc.SetNowFunc(func() int64 { return now })

	listing, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	trade, _ := svc.StartTrade(ctx, buyerAddress, listing.Id, 100)
	trade, err := svc.SellerLockFunds(ctx, sellerAddress, trade.Id)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, now+3600, trade.TimeoutTimestamp)

	if _, err := svc.BuyerMarkPaid(ctx, buyerAddress, trade.Id); err != nil {
		t.Fatal(err)
	}

	// one second before the deadline the refund is rejected.
	now = trade.TimeoutTimestamp - 1
	_, err = svc.TriggerTimeoutRefund(ctx, trade.Id)
	assert.Equal(t, domain.ErrTooEarly, err)

	// at the deadline anyone may trigger it.
	now = trade.TimeoutTimestamp
	trade, err = svc.TriggerTimeoutRefund(ctx, trade.Id)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, domain.TradeStatusCodeRefunded, trade.Status)
	assert.Equal(t, uint64(100), ledger.BalanceOf(sellerAddress))
	assert.Equal(t, uint64(0), ledger.BalanceOf(custodianAddress))

	topics := drainEvents(events)
	assert.Equal(t, "TRADE_REFUNDED", topics[len(topics)-1])
}

func TestRefundNotAllowedBeforePaid(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	fundSeller(ledger, 100)
	svc.SetNowFunc(func() int64 { return 1000 })

	listing, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	trade, _ := svc.StartTrade(ctx, buyerAddress, listing.Id, 100)
	if _, err := svc.SellerLockFunds(ctx, sellerAddress, trade.Id); err != nil {
		t.Fatal(err)
	}

	// locked but never paid stays locked, even long past the deadline.
	svc.SetNowFunc(func() int64 { return 1_000_000 })
	_, err := svc.TriggerTimeoutRefund(ctx, trade.Id)
	assert.Equal(t, domain.ErrInvalidStatus, err)
}

func TestAuthorization(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	fundSeller(ledger, 100)

	listing, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	trade, _ := svc.StartTrade(ctx, buyerAddress, listing.Id, 50)

	_, err := svc.SellerLockFunds(ctx, buyerAddress, trade.Id)
	assert.Equal(t, domain.ErrUnauthorized, err)
	_, err = svc.SellerLockFunds(ctx, strangerAddress, trade.Id)
	assert.Equal(t, domain.ErrUnauthorized, err)

	if _, err := svc.SellerLockFunds(ctx, sellerAddress, trade.Id); err != nil {
		t.Fatal(err)
	}

	_, err = svc.BuyerMarkPaid(ctx, sellerAddress, trade.Id)
	assert.Equal(t, domain.ErrUnauthorized, err)

	if _, err := svc.BuyerMarkPaid(ctx, buyerAddress, trade.Id); err != nil {
		t.Fatal(err)
	}

	_, err = svc.SellerRelease(ctx, buyerAddress, trade.Id)
	assert.Equal(t, domain.ErrUnauthorized, err)
}

func TestUnknownTradeFailsLikeUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(t)

	// party-restricted operations never reveal whether the trade exists.
	_, err := svc.SellerLockFunds(ctx, sellerAddress, 99)
	assert.Equal(t, domain.ErrUnauthorized, err)
	_, err = svc.BuyerMarkPaid(ctx, buyerAddress, 99)
	assert.Equal(t, domain.ErrUnauthorized, err)
	_, err = svc.SellerRelease(ctx, sellerAddress, 99)
	assert.Equal(t, domain.ErrUnauthorized, err)

	// the permissionless refund fails on status instead.
	_, err = svc.TriggerTimeoutRefund(ctx, 99)
	assert.Equal(t, domain.ErrInvalidStatus, err)
}

func TestReleaseRequiresPaidStatus(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	fundSeller(ledger, 100)

	listing, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	trade, _ := svc.StartTrade(ctx, buyerAddress, listing.Id, 50)

	_, err := svc.SellerRelease(ctx, sellerAddress, trade.Id)
	assert.Equal(t, domain.ErrInvalidStatus, err)

	if _, err := svc.SellerLockFunds(ctx, sellerAddress, trade.Id); err != nil {
		t.Fatal(err)
	}
	_, err = svc.SellerRelease(ctx, sellerAddress, trade.Id)
	assert.Equal(t, domain.ErrInvalidStatus, err)

	svc.BuyerMarkPaid(ctx, buyerAddress, trade.Id)
	if _, err := svc.SellerRelease(ctx, sellerAddress, trade.Id); err != nil {
		t.Fatal(err)
	}

	// settled trades are inert.
	_, err = svc.SellerRelease(ctx, sellerAddress, trade.Id)
	assert.Equal(t, domain.ErrInvalidStatus, err)
	_, err = svc.TriggerTimeoutRefund(ctx, trade.Id)
	assert.Equal(t, domain.ErrInvalidStatus, err)
}

func TestLiquidityPartition(t *testing.T) {
	svc, ledger, events := newTestService(t)
	fundSeller(ledger, 100)

	listing, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)

	if _, err := svc.StartTrade(ctx, buyerAddress, listing.Id, 60); err != nil {
		t.Fatal(err)
	}

	// over-drawing the remainder fails and leaves availability untouched.
	_, err := svc.StartTrade(ctx, strangerAddress, listing.Id, 50)
	assert.Equal(t, domain.ErrListingInactive, err)

	listing, _ = svc.GetListing(ctx, listing.Id)
	assert.Equal(t, uint64(40), listing.AvailableAmount)

	// draining the listing deactivates it in the same step.
	if _, err := svc.StartTrade(ctx, strangerAddress, listing.Id, 40); err != nil {
		t.Fatal(err)
	}
	listing, _ = svc.GetListing(ctx, listing.Id)
	assert.False(t, listing.Active)
	assert.True(t, listing.IsDrained())

	_, err = svc.StartTrade(ctx, buyerAddress, listing.Id, 1)
	assert.Equal(t, domain.ErrListingInactive, err)

	// a listing id that was never allocated fails the same way.
	_, err = svc.StartTrade(ctx, buyerAddress, 42, 1)
	assert.Equal(t, domain.ErrListingInactive, err)

	topics := drainEvents(events)
	assert.Contains(t, topics, "LISTING_DEACTIVATED")
}

func TestFailedPullLeavesTradeUntouched(t *testing.T) {
	svc, ledger, events := newTestService(t)
	// funded but with no allowance for the custodian.
	ledger.Mint(sellerAddress, 100)

	listing, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	trade, _ := svc.StartTrade(ctx, buyerAddress, listing.Id, 50)
	drainEvents(events)

	_, err := svc.SellerLockFunds(ctx, sellerAddress, trade.Id)
	assert.Error(t, err)

	trade, _ = svc.GetTrade(ctx, trade.Id)
	assert.True(t, trade.IsAwaitingLock())
	assert.Equal(t, uint64(0), ledger.BalanceOf(custodianAddress))
	assert.Empty(t, drainEvents(events))

	// after granting the allowance the same call succeeds.
	ledger.Approve(sellerAddress, 50)
	trade, err = svc.SellerLockFunds(ctx, sellerAddress, trade.Id)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, trade.IsLocked())
}

func TestInputValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateListing(ctx, "not-an-address", 100, testPrice)
	assert.Equal(t, domain.ErrInvalidAddress, err)

	_, err = svc.CreateListing(ctx, sellerAddress, 0, testPrice)
	assert.Equal(t, domain.ErrAmountTooLow, err)

	_, err = svc.StartTrade(ctx, "0xshort", 1, 10)
	assert.Equal(t, domain.ErrInvalidAddress, err)

	_, err = svc.StartTrade(ctx, buyerAddress, 1, 0)
	assert.Equal(t, domain.ErrAmountTooLow, err)

	_, err = svc.ListTradesForParty(ctx, "nope")
	assert.Equal(t, domain.ErrInvalidAddress, err)
}

func TestSequentialIdsInIndependentNamespaces(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	fundSeller(ledger, 300)

	l1, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	l2, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)
	assert.Equal(t, uint64(1), l1.Id)
	assert.Equal(t, uint64(2), l2.Id)

	t1, _ := svc.StartTrade(ctx, buyerAddress, l1.Id, 10)
	t2, _ := svc.StartTrade(ctx, buyerAddress, l2.Id, 10)
	assert.Equal(t, uint64(1), t1.Id)
	assert.Equal(t, uint64(2), t2.Id)
}

func TestListTradesForParty(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	fundSeller(ledger, 300)

	listing, _ := svc.CreateListing(ctx, sellerAddress, 300, testPrice)
	svc.StartTrade(ctx, buyerAddress, listing.Id, 10)
	svc.StartTrade(ctx, strangerAddress, listing.Id, 10)
	svc.StartTrade(ctx, buyerAddress, listing.Id, 10)

	asSeller, err := svc.ListTradesForParty(ctx, sellerAddress)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, asSeller, 3)

	asBuyer, err := svc.ListTradesForParty(ctx, buyerAddress)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, asBuyer, 2)

	none, err := svc.ListTradesForParty(ctx, custodianAddress)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, none, 0)
}

func TestConcurrentTradesNeverOverdraw(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	fundSeller(ledger, 100)

	listing, _ := svc.CreateListing(ctx, sellerAddress, 100, testPrice)

	var wg sync.WaitGroup
	started := make(chan uint64, 30)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if trade, err := svc.StartTrade(ctx, buyerAddress, listing.Id, 10); err == nil {
				started <- trade.Amount
			}
		}()
	}
	wg.Wait()
	close(started)

	var reserved uint64
	for amount := range started {
		reserved += amount
	}
	assert.Equal(t, uint64(100), reserved)

	listing, _ = svc.GetListing(ctx, listing.Id)
	assert.True(t, listing.IsDrained())
}
