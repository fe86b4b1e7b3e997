package domain

// Trade status codes. A trade only ever moves forward along
// AwaitingSellerLock -> Locked -> Paid -> {Released | Refunded}.
// The zero value marks a trade that does not exist.
const (
	TradeStatusCodeUndefined TradeStatus = iota
	TradeStatusCodeAwaitingSellerLock
	TradeStatusCodeLocked
	TradeStatusCodePaid
	TradeStatusCodeReleased
	TradeStatusCodeRefunded
)
