package dbbadger

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

const (
	listingSequence = "listing"
	tradeSequence   = "trade"
)

// sequence is the monotonic counter backing an id namespace. Listings and
// trades have independent namespaces, both starting at 1.
type sequence struct {
	Name  string
	Value uint64
}

// nextId advances the named sequence and returns the allocated id, inside
// the given transaction when one is open.
func nextId(store *badgerhold.Store, tx *badger.Txn, name string) (uint64, error) {
	seq := sequence{Name: name}

	var err error
	if tx != nil {
		err = store.TxGet(tx, name, &seq)
	} else {
		err = store.Get(name, &seq)
	}
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return 0, err
	}

	seq.Value++
	if tx != nil {
		err = store.TxUpsert(tx, name, seq)
	} else {
		err = store.Upsert(name, seq)
	}
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}
