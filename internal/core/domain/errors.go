package domain

import "errors"

var (
	// ErrListingNotFound is thrown when looking up a listing id that was never allocated.
	ErrListingNotFound = errors.New("listing not found")
	// ErrListingInactive is thrown when starting a trade against a listing that
	// does not exist, has been drained, or lacks the requested liquidity.
	// The three cases are deliberately indistinguishable.
	ErrListingInactive = errors.New("listing is inactive or lacks the requested liquidity")
	// ErrTradeNotFound is thrown when looking up a trade id that was never allocated.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrUnauthorized is thrown when a party-restricted operation is called by
	// anyone but the required party.
	ErrUnauthorized = errors.New("caller is not the required party")
	// ErrInvalidStatus is thrown when an operation is attempted while the trade
	// is not in the required status. Terminal trades always fail with this.
	ErrInvalidStatus = errors.New("trade is not in the required status")
	// ErrTooEarly is thrown when a timeout refund is attempted before the
	// trade's deadline has elapsed.
	ErrTooEarly = errors.New("trade deadline not reached yet")
	// ErrAmountTooLow ...
	ErrAmountTooLow = errors.New("amount must be greater than zero")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address is not in valid hex format")
)
