package httpinterface

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

type createListingRequest struct {
	Seller string `json:"seller" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
	Price  string `json:"price" binding:"required"`
}

func (r createListingRequest) parsePrice() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price must be a decimal number: %s", r.Price)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price must not be negative")
	}
	return price, nil
}

type startTradeRequest struct {
	Buyer     string `json:"buyer" binding:"required"`
	ListingId uint64 `json:"listing_id" binding:"required"`
	Amount    uint64 `json:"amount" binding:"required"`
}

type callerRequest struct {
	Caller string `json:"caller" binding:"required"`
}

type subscribeRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Endpoint string `json:"endpoint" binding:"required"`
	Secret   string `json:"secret"`
}

type subscriptionResponse struct {
	Id       string `json:"id"`
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secured  bool   `json:"secured"`
}

type listingResponse struct {
	Id              uint64 `json:"id"`
	Seller          string `json:"seller"`
	InitialAmount   uint64 `json:"initial_amount"`
	AvailableAmount uint64 `json:"available_amount"`
	Price           string `json:"price"`
	Active          bool   `json:"active"`
	CreatedAt       int64  `json:"created_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		Id:              l.Id,
		Seller:          l.Seller,
		InitialAmount:   l.InitialAmount,
		AvailableAmount: l.AvailableAmount,
		Price:           l.Price.String(),
		Active:          l.Active,
		CreatedAt:       l.CreatedAt,
	}
}

type tradeResponse struct {
	Id               uint64 `json:"id"`
	ListingId        uint64 `json:"listing_id"`
	Seller           string `json:"seller"`
	Buyer            string `json:"buyer"`
	Amount           uint64 `json:"amount"`
	Status           string `json:"status"`
	TimeoutTimestamp int64  `json:"timeout_timestamp,omitempty"`
	CreatedAt        int64  `json:"created_at"`
	SettlementTime   int64  `json:"settlement_time,omitempty"`
}

func toTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		Id:               t.Id,
		ListingId:        t.ListingId,
		Seller:           t.Seller,
		Buyer:            t.Buyer,
		Amount:           t.Amount,
		Status:           t.Status.String(),
		TimeoutTimestamp: t.TimeoutTimestamp,
		CreatedAt:        t.CreatedAt,
		SettlementTime:   t.SettlementTime,
	}
}
