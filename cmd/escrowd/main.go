package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/Natnael-arch/DecentraP2P/config"
	"github.com/Natnael-arch/DecentraP2P/internal/core/application"
	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
	inmemoryledger "github.com/Natnael-arch/DecentraP2P/internal/infrastructure/ledger/inmemory"
	remoteledger "github.com/Natnael-arch/DecentraP2P/internal/infrastructure/ledger/remote"
	"github.com/Natnael-arch/DecentraP2P/internal/infrastructure/pubsub"
	dbbadger "github.com/Natnael-arch/DecentraP2P/internal/infrastructure/storage/db/badger"
	dbinmemory "github.com/Natnael-arch/DecentraP2P/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/Natnael-arch/DecentraP2P/internal/interfaces/http"
	"github.com/Natnael-arch/DecentraP2P/pkg/stats"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	config.Validate()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		stats.EnableResourceStatistics(
			ctx, config.GetStatsInterval(), config.GetDatadir(),
		)
	}

	listingRepo, tradeRepo, db, closeDb := openStorage()
	defer closeDb()

	webhookSvc := pubsub.NewService(application.TopicLabels())
	broker := pubsub.NewBroker()
	pubsubSvc := pubsub.NewMultiPubSub(webhookSvc, broker)
	defer pubsubSvc.Close()

	escrowSvc := application.NewEscrowService(
		listingRepo, tradeRepo, openLedger(), pubsubSvc, db,
		config.GetTradeTimeout(),
	)

	httpSvc := httpinterface.NewService(escrowSvc, webhookSvc, broker)
	port := config.GetInt(config.ListenPortKey)
	if err := httpSvc.Start(port); err != nil {
		log.WithError(err).Fatal("error listening on escrow interface")
	}
	defer httpSvc.Stop()

	log.Infof("escrow interface is listening on :%d", port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
}

func openStorage() (
	domain.ListingRepository, domain.TradeRepository, ports.DbManager, func(),
) {
	switch dbType := config.GetString(config.DbTypeKey); dbType {
	case config.DbTypeBadger:
		dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
		db, err := dbbadger.NewDbManager(dbDir, nil)
		if err != nil {
			log.WithError(err).Fatal("error opening badger storage")
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.WithError(err).Warn("error closing badger storage")
			}
		}
		return dbbadger.NewListingRepositoryImpl(db),
			dbbadger.NewTradeRepositoryImpl(db), db, closeFn
	case config.DbTypeInMemory:
		db := dbinmemory.NewDbManager()
		return dbinmemory.NewListingRepositoryImpl(db),
			dbinmemory.NewTradeRepositoryImpl(db), db, func() {}
	default:
		log.Fatalf("unknown storage type %s", dbType)
		return nil, nil, nil, nil
	}
}

func openLedger() ports.AssetLedger {
	endpoint := config.GetString(config.LedgerEndpointKey)
	if endpoint == "" {
		log.Warn("no ledger endpoint configured, using in-process asset ledger")
		return inmemoryledger.NewLedger(config.GetString(config.CustodianAddressKey))
	}
	return remoteledger.NewLedgerService(endpoint, config.GetLedgerRequestTimeout())
}
