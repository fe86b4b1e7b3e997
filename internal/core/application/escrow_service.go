package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
)

// EscrowService owns the authoritative escrow ledger: it enforces transition
// legality and authorization, partitions listing liquidity across trades and
// applies timeout-based recovery. Every mutating operation is atomic and
// serialized against all others; queries observe committed state only.
type EscrowService interface {
	CreateListing(
		ctx context.Context, seller string, amount uint64, price decimal.Decimal,
	) (*domain.Listing, error)
	StartTrade(
		ctx context.Context, buyer string, listingId, amount uint64,
	) (*domain.Trade, error)
	SellerLockFunds(ctx context.Context, caller string, tradeId uint64) (*domain.Trade, error)
	BuyerMarkPaid(ctx context.Context, caller string, tradeId uint64) (*domain.Trade, error)
	SellerRelease(ctx context.Context, caller string, tradeId uint64) (*domain.Trade, error)
	TriggerTimeoutRefund(ctx context.Context, tradeId uint64) (*domain.Trade, error)

	GetListing(ctx context.Context, id uint64) (*domain.Listing, error)
	ListListings(ctx context.Context) ([]*domain.Listing, error)
	GetTrade(ctx context.Context, id uint64) (*domain.Trade, error)
	ListTradesForParty(ctx context.Context, address string) ([]*domain.Trade, error)

	// SetNowFunc overrides the time source, primarily used in tests.
	SetNowFunc(func() int64)
}

type escrowService struct {
	listingRepository domain.ListingRepository
	tradeRepository   domain.TradeRepository
	ledger            ports.AssetLedger
	pubsub            ports.SecurePubSub
	db                ports.DbManager
	timeoutPeriod     time.Duration
	nowFn             func() int64

	// serializes the whole mutation path so every transition observes a
	// fully-settled prior state and commits in total order.
	mtx sync.Mutex
}

// NewEscrowService returns an EscrowService backed by the given repositories
// and collaborators. The timeout period is shared by all trades.
func NewEscrowService(
	listingRepository domain.ListingRepository,
	tradeRepository domain.TradeRepository,
	ledger ports.AssetLedger,
	pubsub ports.SecurePubSub,
	db ports.DbManager,
	timeoutPeriod time.Duration,
) EscrowService {
	return &escrowService{
		listingRepository: listingRepository,
		tradeRepository:   tradeRepository,
		ledger:            ledger,
		pubsub:            pubsub,
		db:                db,
		timeoutPeriod:     timeoutPeriod,
		nowFn:             func() int64 { return time.Now().Unix() },
	}
}

func (s *escrowService) SetNowFunc(now func() int64) {
	if now == nil {
		s.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	s.nowFn = now
}

// CreateListing is the domain controller for the listing creation operation.
// No custody movement happens here, funds are pulled only when a trade locks.
func (s *escrowService) CreateListing(
	ctx context.Context, seller string, amount uint64, price decimal.Decimal,
) (*domain.Listing, error) {
	if err := validateAddress(seller); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	listing, err := domain.NewListing(seller, amount, price, s.nowFn())
	if err != nil {
		return nil, err
	}

	if err := s.runInTx(ctx, func(ctx context.Context) error {
		_, err := s.listingRepository.AddListing(ctx, listing)
		return err
	}); err != nil {
		return nil, err
	}

	log.Debugf("listing %d created by %s for %d", listing.Id, seller, amount)
	s.publish(TopicListingCreated, serializeListingEvent(listing))
	return listing, nil
}

// StartTrade is the liquidity-partition step: the check-and-decrement against
// the listing's availability and the trade insertion commit as one unit.
func (s *escrowService) StartTrade(
	ctx context.Context, buyer string, listingId, amount uint64,
) (*domain.Trade, error) {
	if err := validateAddress(buyer); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	var listing *domain.Listing
	var trade *domain.Trade
	if err := s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.listingRepository.UpdateListing(
			ctx, listingId,
			func(l *domain.Listing) (*domain.Listing, error) {
				if err := l.Reserve(amount); err != nil {
					return nil, err
				}
				listing = l
				return l, nil
			},
		); err != nil {
			// a listing that never existed fails the same way as an
			// exhausted one.
			if errors.Is(err, domain.ErrListingNotFound) {
				return domain.ErrListingInactive
			}
			return err
		}

		trade = domain.NewTrade(listingId, listing.Seller, buyer, amount, s.nowFn())
		_, err := s.tradeRepository.AddTrade(ctx, trade)
		return err
	}); err != nil {
		return nil, err
	}

	log.Debugf(
		"trade %d started by %s against listing %d for %d",
		trade.Id, buyer, listingId, amount,
	)
	s.publish(TopicTradeStarted, serializeTradeEvent(trade))
	if !listing.Active {
		s.publish(TopicListingDeactivated, serializeListingEvent(listing))
	}
	return trade, nil
}

// SellerLockFunds pulls the trade amount from the seller into escrow custody
// and arms the refund deadline. The pull and the status flip are one atomic
// unit: a failed pull leaves the trade in AwaitingSellerLock.
func (s *escrowService) SellerLockFunds(
	ctx context.Context, caller string, tradeId uint64,
) (*domain.Trade, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	trade, err := s.getTradeForParty(ctx, tradeId, caller, func(t *domain.Trade) string {
		return t.Seller
	})
	if err != nil {
		return nil, err
	}
	if !trade.IsAwaitingLock() {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.ledger.Pull(ctx, trade.Seller, trade.Amount); err != nil {
		return nil, err
	}

	deadline := s.nowFn() + int64(s.timeoutPeriod.Seconds())
	if err := s.commitTrade(ctx, tradeId, func(t *domain.Trade) error {
		return t.Lock(deadline)
	}, &trade); err != nil {
		return nil, err
	}

	log.Debugf("trade %d locked, refundable from %d", tradeId, deadline)
	s.publish(TopicFundsLocked, serializeTradeEvent(trade))
	return trade, nil
}

// BuyerMarkPaid records the buyer's attestation that the off-chain payment
// happened. It moves no funds and does not reset the timeout clock.
func (s *escrowService) BuyerMarkPaid(
	ctx context.Context, caller string, tradeId uint64,
) (*domain.Trade, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	trade, err := s.getTradeForParty(ctx, tradeId, caller, func(t *domain.Trade) string {
		return t.Buyer
	})
	if err != nil {
		return nil, err
	}

	if err := s.commitTrade(ctx, tradeId, func(t *domain.Trade) error {
		return t.MarkPaid()
	}, &trade); err != nil {
		return nil, err
	}

	log.Debugf("trade %d marked paid by buyer", tradeId)
	s.publish(TopicTradeMarkedPaid, serializeTradeEvent(trade))
	return trade, nil
}

// SellerRelease disburses the custodied amount to the buyer and settles the
// trade. Once released, every further operation on the trade fails.
func (s *escrowService) SellerRelease(
	ctx context.Context, caller string, tradeId uint64,
) (*domain.Trade, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	trade, err := s.getTradeForParty(ctx, tradeId, caller, func(t *domain.Trade) string {
		return t.Seller
	})
	if err != nil {
		return nil, err
	}
	if !trade.IsPaid() {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.ledger.Push(ctx, trade.Buyer, trade.Amount); err != nil {
		return nil, err
	}

	if err := s.commitTrade(ctx, tradeId, func(t *domain.Trade) error {
		return t.Release(s.nowFn())
	}, &trade); err != nil {
		return nil, err
	}

	log.Debugf("trade %d released to %s", tradeId, trade.Buyer)
	s.publish(TopicTradeReleased, serializeTradeEvent(trade))
	return trade, nil
}

// TriggerTimeoutRefund returns the custodied amount to the seller once the
// deadline has elapsed without a release. It is deliberately permissionless:
// any actor, including automated keepers, may call it.
func (s *escrowService) TriggerTimeoutRefund(
	ctx context.Context, tradeId uint64,
) (*domain.Trade, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	trade, err := s.tradeRepository.GetTrade(ctx, tradeId)
	if err != nil {
		if errors.Is(err, domain.ErrTradeNotFound) {
			return nil, domain.ErrInvalidStatus
		}
		return nil, err
	}
	if !trade.IsPaid() {
		return nil, domain.ErrInvalidStatus
	}
	now := s.nowFn()
	if now < trade.TimeoutTimestamp {
		return nil, domain.ErrTooEarly
	}

	if err := s.ledger.Push(ctx, trade.Seller, trade.Amount); err != nil {
		return nil, err
	}

	if err := s.commitTrade(ctx, tradeId, func(t *domain.Trade) error {
		return t.Refund(now)
	}, &trade); err != nil {
		return nil, err
	}

	log.Debugf("trade %d refunded to %s after timeout", tradeId, trade.Seller)
	s.publish(TopicTradeRefunded, serializeTradeEvent(trade))
	return trade, nil
}

func (s *escrowService) GetListing(ctx context.Context, id uint64) (*domain.Listing, error) {
	return s.listingRepository.GetListing(ctx, id)
}

func (s *escrowService) ListListings(ctx context.Context) ([]*domain.Listing, error) {
	return s.listingRepository.GetAllListings(ctx)
}

func (s *escrowService) GetTrade(ctx context.Context, id uint64) (*domain.Trade, error) {
	return s.tradeRepository.GetTrade(ctx, id)
}

func (s *escrowService) ListTradesForParty(
	ctx context.Context, address string,
) ([]*domain.Trade, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	return s.tradeRepository.GetTradesForParty(ctx, address)
}

// getTradeForParty loads a trade and checks the caller is the required party.
// Authorization is checked before status on purpose: a trade id that was
// never allocated fails with ErrUnauthorized too, so an unauthorized caller
// cannot learn status-derived information through differentiated failures.
func (s *escrowService) getTradeForParty(
	ctx context.Context, tradeId uint64, caller string,
	partyOf func(*domain.Trade) string,
) (*domain.Trade, error) {
	trade, err := s.tradeRepository.GetTrade(ctx, tradeId)
	if err != nil {
		if errors.Is(err, domain.ErrTradeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if caller != partyOf(trade) {
		return nil, domain.ErrUnauthorized
	}
	return trade, nil
}

// commitTrade applies the transition to the stored trade inside a storage
// transaction and refreshes the caller's snapshot on success.
func (s *escrowService) commitTrade(
	ctx context.Context, tradeId uint64,
	transition func(*domain.Trade) error,
	out **domain.Trade,
) error {
	var updated *domain.Trade
	if err := s.runInTx(ctx, func(ctx context.Context) error {
		return s.tradeRepository.UpdateTrade(
			ctx, tradeId,
			func(t *domain.Trade) (*domain.Trade, error) {
				if err := transition(t); err != nil {
					return nil, err
				}
				updated = t
				return t, nil
			},
		)
	}); err != nil {
		return err
	}
	*out = updated
	return nil
}

func (s *escrowService) runInTx(
	ctx context.Context, fn func(ctx context.Context) error,
) error {
	tx := s.db.NewTransaction()
	txCtx := context.WithValue(ctx, "tx", tx)
	if err := fn(txCtx); err != nil {
		tx.Discard()
		return err
	}
	return tx.Commit()
}

// publish forwards the notification to subscribers. Delivery failures are
// transport concerns and never unwind a committed transition.
func (s *escrowService) publish(topic Topic, message string) {
	if s.pubsub == nil {
		return
	}
	if err := s.pubsub.Publish(topic.Label(), message); err != nil {
		log.WithError(err).Warnf("error while publishing %s notification", topic.Label())
	}
}
