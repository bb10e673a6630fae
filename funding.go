package lnaddr

import "context"

// FundingSource is the capability to issue a fresh invoice on behalf of an
// owner identity. Implementations make at most one network round-trip per
// call and must honour the context's deadline. Every call requests a new
// invoice, so retrying an ambiguous failure may leave an extra unpaid
// invoice on the node; callers must not retry blindly.
type FundingSource interface {
	// CreateInvoice returns a bolt11 invoice for the given amount. It
	// fails with ErrUnsupportedOwner when owner is not an identity this
	// source funds, and with ErrFundingUnavailable when the backing node
	// cannot be reached or rejects the request.
	CreateInvoice(ctx context.Context, owner string, amountSats int64,
		description string) (string, error)
}
