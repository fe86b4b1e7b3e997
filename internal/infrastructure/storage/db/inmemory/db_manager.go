package inmemory

import (
	"sync"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
)

type listingInmemoryStore struct {
	locker   *sync.RWMutex
	listings map[uint64]domain.Listing
	counter  uint64
}

type tradeInmemoryStore struct {
	locker  *sync.RWMutex
	trades  map[uint64]domain.Trade
	counter uint64
}

// DbManager holds all the in-memory stores in a single data structure.
type DbManager struct {
	listingStore *listingInmemoryStore
	tradeStore   *tradeInmemoryStore
}

// NewDbManager returns a DbManager with empty stores.
func NewDbManager() *DbManager {
	return &DbManager{
		listingStore: &listingInmemoryStore{
			locker:   &sync.RWMutex{},
			listings: map[uint64]domain.Listing{},
		},
		tradeStore: &tradeInmemoryStore{
			locker: &sync.RWMutex{},
			trades: map[uint64]domain.Trade{},
		},
	}
}

// NewTransaction implements the ports.DbManager interface. The in-memory
// stores mutate in place under their lockers, so the transaction is a no-op;
// atomicity of multi-repository transitions is guaranteed by the service's
// serialization of the whole mutation path.
func (d *DbManager) NewTransaction() ports.Transaction {
	return inmemoryTx{}
}

// Close implements the ports.DbManager interface.
func (d *DbManager) Close() error {
	return nil
}

type inmemoryTx struct{}

func (tx inmemoryTx) Commit() error { return nil }
func (tx inmemoryTx) Discard()      {}
