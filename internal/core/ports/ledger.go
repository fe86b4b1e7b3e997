package ports

import "context"

// AssetLedger is the external fungible-token collaborator the escrow calls
// into to move funds. The escrow only orchestrates when transfers happen; the
// ledger owns balances and allowances.
type AssetLedger interface {
	// Pull draws amount from the holder into escrow custody. It fails unless
	// the holder has pre-authorized at least amount to the escrow and holds
	// sufficient balance. A failure must leave the ledger untouched.
	Pull(ctx context.Context, from string, amount uint64) error
	// Push moves custodied funds out to the recipient. The escrow only ever
	// pushes what it previously pulled.
	Push(ctx context.Context, to string, amount uint64) error
}
