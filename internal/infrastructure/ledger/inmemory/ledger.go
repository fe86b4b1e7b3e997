package inmemoryledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/Natnael-arch/DecentraP2P/internal/core/ports"
)

// Ledger is an in-process fungible-token ledger with balance and allowance
// semantics, used in regtest mode and in tests. The escrow daemon itself is
// the custodian account.
type Ledger struct {
	mtx        sync.Mutex
	custodian  string
	balances   map[string]uint64
	allowances map[string]uint64
}

// NewLedger returns an empty ledger custodied by the given address.
func NewLedger(custodian string) *Ledger {
	return &Ledger{
		custodian:  custodian,
		balances:   map[string]uint64{},
		allowances: map[string]uint64{},
	}
}

// Mint credits the given address, bypassing allowance checks.
func (l *Ledger) Mint(address string, amount uint64) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.balances[address] += amount
}

// Approve authorizes the custodian to pull up to amount from the holder,
// replacing any previous allowance.
func (l *Ledger) Approve(holder string, amount uint64) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.allowances[holder] = amount
}

// BalanceOf returns the current balance of the given address.
func (l *Ledger) BalanceOf(address string) uint64 {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.balances[address]
}

// Pull implements the ports.AssetLedger interface.
func (l *Ledger) Pull(_ context.Context, from string, amount uint64) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.allowances[from] < amount {
		return fmt.Errorf("transfer of %d from %s exceeds allowance", amount, from)
	}
	if l.balances[from] < amount {
		return fmt.Errorf("transfer of %d from %s exceeds balance", amount, from)
	}

	l.allowances[from] -= amount
	l.balances[from] -= amount
	l.balances[l.custodian] += amount
	return nil
}

// Push implements the ports.AssetLedger interface.
func (l *Ledger) Push(_ context.Context, to string, amount uint64) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.balances[l.custodian] < amount {
		return fmt.Errorf("custodied balance does not cover %d", amount)
	}

	l.balances[l.custodian] -= amount
	l.balances[to] += amount
	return nil
}

var _ ports.AssetLedger = (*Ledger)(nil)
