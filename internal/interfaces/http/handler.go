package httpinterface

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

func (s *Service) createListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationError(c, err)
		return
	}
	price, err := req.parsePrice()
	if err != nil {
		abortWithValidationError(c, err)
		return
	}

	listing, err := s.escrowSvc.CreateListing(
		c.Request.Context(), req.Seller, req.Amount, price,
	)
	observeOperation("create_listing", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toListingResponse(listing))
}

func (s *Service) listListings(c *gin.Context) {
	listings, err := s.escrowSvc.ListListings(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, toListingResponse(l))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) getListing(c *gin.Context) {
	id, err := parseId(c.Param("id"))
	if err != nil {
		abortWithValidationError(c, err)
		return
	}

	listing, err := s.escrowSvc.GetListing(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

func (s *Service) startTrade(c *gin.Context) {
	var req startTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationError(c, err)
		return
	}

	trade, err := s.escrowSvc.StartTrade(
		c.Request.Context(), req.Buyer, req.ListingId, req.Amount,
	)
	observeOperation("start_trade", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTradeResponse(trade))
}

func (s *Service) getTrade(c *gin.Context) {
	id, err := parseId(c.Param("id"))
	if err != nil {
		abortWithValidationError(c, err)
		return
	}

	trade, err := s.escrowSvc.GetTrade(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTradeResponse(trade))
}

func (s *Service) lockFunds(c *gin.Context) {
	s.tradeTransition(c, "lock_funds", s.escrowSvc.SellerLockFunds)
}

func (s *Service) markPaid(c *gin.Context) {
	s.tradeTransition(c, "mark_paid", s.escrowSvc.BuyerMarkPaid)
}

func (s *Service) release(c *gin.Context) {
	s.tradeTransition(c, "release", s.escrowSvc.SellerRelease)
}

// refund carries no caller: the timeout refund is permissionless.
func (s *Service) refund(c *gin.Context) {
	id, err := parseId(c.Param("id"))
	if err != nil {
		abortWithValidationError(c, err)
		return
	}

	trade, err := s.escrowSvc.TriggerTimeoutRefund(c.Request.Context(), id)
	observeOperation("timeout_refund", err)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTradeResponse(trade))
}

func (s *Service) listTradesForParty(c *gin.Context) {
	trades, err := s.escrowSvc.ListTradesForParty(
		c.Request.Context(), c.Param("address"),
	)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		resp = append(resp, toTradeResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationError(c, err)
		return
	}

	id, err := s.pubsubSvc.Subscribe(req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		abortWithValidationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Service) unsubscribe(c *gin.Context) {
	if err := s.pubsubSvc.Unsubscribe("", c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) listSubscriptions(c *gin.Context) {
	topic := c.DefaultQuery("topic", "*")
	subs := s.pubsubSvc.ListSubscriptionsForTopic(topic)

	resp := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		resp = append(resp, subscriptionResponse{
			Id:       sub.Id(),
			Topic:    sub.Topic(),
			Endpoint: sub.NotifyAt(),
			Secured:  sub.IsSecured(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

type tradeTransitionFn func(ctx context.Context, caller string, tradeId uint64) (*domain.Trade, error)

func (s *Service) tradeTransition(c *gin.Context, operation string, fn tradeTransitionFn) {
	id, err := parseId(c.Param("id"))
	if err != nil {
		abortWithValidationError(c, err)
		return
	}

	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidationError(c, err)
		return
	}

	trade, err := fn(c.Request.Context(), req.Caller, id)
	observeOperation(operation, err)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTradeResponse(trade))
}

func parseId(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

func abortWithValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// abortWithError maps domain errors onto HTTP statuses. External-transfer
// failures and storage errors surface verbatim as internal errors.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAmountTooLow),
		errors.Is(err, domain.ErrInvalidAddress):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrTradeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrListingInactive),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrTooEarly):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
