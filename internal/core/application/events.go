package application

import (
	"encoding/json"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

// ListingEvent is the JSON payload published on listing topics.
type ListingEvent struct {
	ListingId       uint64 `json:"listing_id"`
	Seller          string `json:"seller"`
	InitialAmount   uint64 `json:"initial_amount,omitempty"`
	AvailableAmount uint64 `json:"available_amount"`
	Price           string `json:"price,omitempty"`
	Active          bool   `json:"active"`
}

// TradeEvent is the JSON payload published on trade topics.
type TradeEvent struct {
	TradeId          uint64 `json:"trade_id"`
	ListingId        uint64 `json:"listing_id"`
	Seller           string `json:"seller"`
	Buyer            string `json:"buyer"`
	Amount           uint64 `json:"amount"`
	Status           string `json:"status"`
	TimeoutTimestamp int64  `json:"timeout_timestamp,omitempty"`
}

func serializeListingEvent(l *domain.Listing) string {
	buf, _ := json.Marshal(ListingEvent{
		ListingId:       l.Id,
		Seller:          l.Seller,
		InitialAmount:   l.InitialAmount,
		AvailableAmount: l.AvailableAmount,
		Price:           l.Price.String(),
		Active:          l.Active,
	})
	return string(buf)
}

func serializeTradeEvent(t *domain.Trade) string {
	buf, _ := json.Marshal(TradeEvent{
		TradeId:          t.Id,
		ListingId:        t.ListingId,
		Seller:           t.Seller,
		Buyer:            t.Buyer,
		Amount:           t.Amount,
		Status:           t.Status.String(),
		TimeoutTimestamp: t.TimeoutTimestamp,
	})
	return string(buf)
}
