package application

import (
	"regexp"

	"github.com/Natnael-arch/DecentraP2P/internal/core/domain"
)

var addressRegexp = regexp.MustCompile(`^0x[0-9A-Fa-f]{40}$`)

func validateAddress(address string) error {
	if !addressRegexp.MatchString(address) {
		return domain.ErrInvalidAddress
	}
	return nil
}

func validateAmount(amount uint64) error {
	if amount == 0 {
		return domain.ErrAmountTooLow
	}
	return nil
}
