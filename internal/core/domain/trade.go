package domain

// TradeStatus represents the custody state of a trade.
type TradeStatus int

// String returns the human readable label of the status.
func (s TradeStatus) String() string {
	switch s {
	case TradeStatusCodeAwaitingSellerLock:
		return "AWAITING_SELLER_LOCK"
	case TradeStatusCodeLocked:
		return "LOCKED"
	case TradeStatusCodePaid:
		return "PAID"
	case TradeStatusCodeReleased:
		return "RELEASED"
	case TradeStatusCodeRefunded:
		return "REFUNDED"
	default:
		return "NONE"
	}
}

// IsTerminal returns whether the status belongs to the absorbing set.
func (s TradeStatus) IsTerminal() bool {
	return s == TradeStatusCodeReleased || s == TradeStatusCodeRefunded
}

// Trade is one buyer's claim against a listing's liquidity, progressing
// through custody states. Seller, buyer and amount are fixed at creation,
// the amount having been already subtracted from the listing's availability.
type Trade struct {
	Id               uint64
	ListingId        uint64
	Seller           string
	Buyer            string
	Amount           uint64
	Status           TradeStatus
	TimeoutTimestamp int64
	CreatedAt        int64
	SettlementTime   int64
}

// NewTrade returns a trade in AwaitingSellerLock status. The id is assigned
// by the repository at insertion time.
func NewTrade(listingId uint64, seller, buyer string, amount uint64, now int64) *Trade {
	return &Trade{
		ListingId: listingId,
		Seller:    seller,
		Buyer:     buyer,
		Amount:    amount,
		Status:    TradeStatusCodeAwaitingSellerLock,
		CreatedAt: now,
	}
}

// Lock brings the trade from AwaitingSellerLock to Locked and arms the
// refund deadline. The custody pull from the seller must have already
// succeeded when this is called.
func (t *Trade) Lock(timeoutTimestamp int64) error {
	if t.Status != TradeStatusCodeAwaitingSellerLock {
		return ErrInvalidStatus
	}

	t.Status = TradeStatusCodeLocked
	t.TimeoutTimestamp = timeoutTimestamp
	return nil
}

// MarkPaid brings the trade from Locked to Paid. It is a pure attestation
// and does not touch the timeout clock.
func (t *Trade) MarkPaid() error {
	if t.Status != TradeStatusCodeLocked {
		return ErrInvalidStatus
	}

	t.Status = TradeStatusCodePaid
	return nil
}

// Release brings the trade from Paid to the terminal Released status and
// records the settlement time. The custody push to the buyer must have
// already succeeded when this is called.
func (t *Trade) Release(now int64) error {
	if t.Status != TradeStatusCodePaid {
		return ErrInvalidStatus
	}

	t.Status = TradeStatusCodeReleased
	t.SettlementTime = now
	return nil
}

// Refund brings the trade from Paid to the terminal Refunded status once the
// deadline has elapsed. The custody push back to the seller must have already
// succeeded when this is called.
func (t *Trade) Refund(now int64) error {
	if t.Status != TradeStatusCodePaid {
		return ErrInvalidStatus
	}
	if now < t.TimeoutTimestamp {
		return ErrTooEarly
	}

	t.Status = TradeStatusCodeRefunded
	t.SettlementTime = now
	return nil
}

// IsRefundable returns whether a timeout refund would be accepted at the
// given time.
func (t *Trade) IsRefundable(now int64) bool {
	return t.Status == TradeStatusCodePaid && now >= t.TimeoutTimestamp
}

// IsAwaitingLock returns whether the trade still waits for the seller's deposit.
func (t *Trade) IsAwaitingLock() bool {
	return t.Status == TradeStatusCodeAwaitingSellerLock
}

// IsLocked returns whether the trade's funds are in escrow custody.
func (t *Trade) IsLocked() bool {
	return t.Status == TradeStatusCodeLocked
}

// IsPaid returns whether the buyer has attested the off-chain payment.
func (t *Trade) IsPaid() bool {
	return t.Status == TradeStatusCodePaid
}

// IsSettled returns whether the custodied amount has been disbursed, either
// to the buyer or back to the seller.
func (t *Trade) IsSettled() bool {
	return t.Status.IsTerminal()
}
