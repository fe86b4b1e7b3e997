package ports

// Transaction is an atomic unit of work over the repositories. Failed
// transitions discard it so no partial writes survive.
type Transaction interface {
	Commit() error
	Discard()
}

// DbManager exposes the transactional boundary of the underlying storage.
// Repositories look for an open transaction in the context under the "tx"
// key and fall back to autocommit operations otherwise.
type DbManager interface {
	NewTransaction() Transaction
	Close() error
}
