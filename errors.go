package lnaddr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned when an identifier cannot be parsed
	// as a <username>@<domain> lightning address.
	ErrInvalidAddress = errors.New("invalid lightning address")

	// ErrUnknownUser is returned when the identity policy does not serve
	// the requested username.
	ErrUnknownUser = errors.New("unknown user")

	// ErrFundingUnavailable is returned when the backing node cannot be
	// reached or rejects an invoice request.
	ErrFundingUnavailable = errors.New("funding source unavailable")

	// ErrUnsupportedOwner is returned by a funding source asked to issue
	// an invoice for an owner identity it does not fund.
	ErrUnsupportedOwner = errors.New("owner not supported by funding source")
)

// AmountOutOfBoundsError reports a callback amount outside the configured
// sendable range. It carries the computed satoshi amount so that rejections
// can be logged with the value the bounds check actually saw.
type AmountOutOfBoundsError struct {
	AmountSats int64
	MinSats    int64
	MaxSats    int64
}

// TooLow reports whether the amount fell below the minimum rather than above
// the maximum.
func (e *AmountOutOfBoundsError) TooLow() bool {
	return e.AmountSats < e.MinSats
}

func (e *AmountOutOfBoundsError) Error() string {
	if e.TooLow() {
		return fmt.Sprintf("amount of %d sats is below the minimum "+
			"of %d sats", e.AmountSats, e.MinSats)
	}

	return fmt.Sprintf("amount of %d sats is above the maximum of %d "+
		"sats", e.AmountSats, e.MaxSats)
}
