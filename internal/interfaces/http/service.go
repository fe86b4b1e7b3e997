package httpinterface

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/Natnael-arch/DecentraP2P/internal/core/application"
	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
	"github.com/Natnael-arch/DecentraP2P/internal/infrastructure/pubsub"
)

// Service is the HTTP surface of the escrow daemon: the REST operations, the
// websocket notification feed and the prometheus metrics endpoint. It carries
// no escrow behavior of its own, every call is delegated to the application
// service.
type Service struct {
	escrowSvc application.EscrowService
	pubsubSvc ports.SecurePubSub
	broker    *pubsub.Broker
	server    *http.Server
}

// NewService returns an HTTP service delegating to the given collaborators.
func NewService(
	escrowSvc application.EscrowService,
	pubsubSvc ports.SecurePubSub,
	broker *pubsub.Broker,
) *Service {
	return &Service{
		escrowSvc: escrowSvc,
		pubsubSvc: pubsubSvc,
		broker:    broker,
	}
}

// Router assembles the gin engine with all routes and middlewares.
func (s *Service) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), loggerMiddleware())

	v1 := router.Group("/v1")
	{
		v1.POST("/listings", s.createListing)
		v1.GET("/listings", s.listListings)
		v1.GET("/listings/:id", s.getListing)

		v1.POST("/trades", s.startTrade)
		v1.GET("/trades/:id", s.getTrade)
		v1.POST("/trades/:id/lock", s.lockFunds)
		v1.POST("/trades/:id/paid", s.markPaid)
		v1.POST("/trades/:id/release", s.release)
		v1.POST("/trades/:id/refund", s.refund)

		v1.GET("/parties/:address/trades", s.listTradesForParty)

		v1.POST("/subscriptions", s.subscribe)
		v1.DELETE("/subscriptions/:id", s.unsubscribe)
		v1.GET("/subscriptions", s.listSubscriptions)

		v1.GET("/events", s.streamEvents)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Start begins serving on the given port. It returns once the listener is up.
func (s *Service) Start(port int) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http interface stopped unexpectedly")
		}
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
