package lnaddr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Config carries the static deployment parameters shared read-only by every
// request. It is constructed once at startup and passed by reference.
type Config struct {
	// Domain is the lightning address domain this server answers for.
	Domain string

	// Operator is the single username with a funded node behind it.
	Operator string

	// MinSats and MaxSats bound the invoice amounts that will be issued.
	// Both bounds are inclusive.
	MinSats int64
	MaxSats int64

	// Secure selects https for all derived URLs. http is only for local
	// testing.
	Secure bool

	// NostrPubkey, when set, is served from /.well-known/nostr.json as
	// the operator's NIP-05 identity.
	NostrPubkey string
}

// PayFlow drives the two LNURL-pay operations: LUD-16 discovery and the
// LUD-06 invoice callback. The two are independent idempotent calls
// correlated only by username; no state survives between them.
type PayFlow struct {
	cfg     *Config
	policy  *IdentityPolicy
	funding FundingSource
	log     *slog.Logger
}

func NewPayFlow(cfg *Config, policy *IdentityPolicy, funding FundingSource,
	log *slog.Logger) *PayFlow {

	return &PayFlow{
		cfg:     cfg,
		policy:  policy,
		funding: funding,
		log:     log,
	}
}

// payMessage is the human readable line wallets show for a payment to the
// given username.
func payMessage(username string) string {
	return fmt.Sprintf("Payment to ln address for %s", username)
}

// MetadataString builds the LUD-16 metadata array for an address, serialised
// to the raw JSON string that wallets hash and check the invoice against.
func MetadataString(addr *LightningAddress) string {
	b, _ := json.Marshal([][2]string{
		{"text/identifier", addr.String()},
		{"text/plain", payMessage(addr.Username)},
	})

	return string(b)
}

// PayMetadata handles LUD-16 discovery for username. It is pure construction
// from static configuration; no network call is made.
func (f *PayFlow) PayMetadata(username string) (*PayResponse, error) {
	if !f.policy.IsServable(username) {
		f.log.Info("discovery rejected for unknown user",
			"username", username)

		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, username)
	}

	addr := &LightningAddress{
		Username: username,
		Domain:   f.cfg.Domain,
	}

	return &PayResponse{
		Callback:    f.CallbackURL(username),
		MinSendable: f.cfg.MinSats * 1000,
		MaxSendable: f.cfg.MaxSats * 1000,
		Metadata:    MetadataString(addr),
		Tag:         TypePayRequest,
	}, nil
}

// DiscoveryURL is the LUD-16 endpoint for username. This is the URL that
// gets bech32 encoded when a wallet asks for the LNURL form.
func (f *PayFlow) DiscoveryURL(username string) string {
	return fmt.Sprintf(
		"%s://%s/lnurlp/%s", f.protocol(), f.cfg.Domain, username,
	)
}

// CallbackURL is the LUD-06 callback endpoint for username.
func (f *PayFlow) CallbackURL(username string) string {
	return fmt.Sprintf(
		"%s://%s/lnurlp/%s/callback", f.protocol(), f.cfg.Domain,
		username,
	)
}

func (f *PayFlow) protocol() string {
	if f.cfg.Secure {
		return "https"
	}

	return "http"
}

// RequestInvoice handles the LUD-06 callback: bounds-check the amount, then
// ask the funding source for a fresh invoice. A single attempt is made; a
// failed attempt is not retried since every attempt mints a new invoice on
// the node.
func (f *PayFlow) RequestInvoice(ctx context.Context, username string,
	amountMsat int64) (*InvoiceResponse, error) {

	if !f.policy.IsServable(username) {
		f.log.Info("callback rejected for unknown user",
			"username", username)

		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, username)
	}

	// Round millisats up to whole sats. Ceiling keeps the invoice amount
	// at least what the wallet asked to pay, so the payee is never
	// under-credited by the conversion. Floor or round-to-nearest would
	// diverge from what wallets expect here.
	amountSats := (amountMsat + 999) / 1000

	f.log.Info("pay request callback",
		"username", username,
		"amount_msat", amountMsat,
		"amount_sat", amountSats,
	)

	if amountSats < f.cfg.MinSats {
		f.log.Warn("callback amount below minimum",
			"amount_sat", amountSats, "min_sat", f.cfg.MinSats)

		return nil, &AmountOutOfBoundsError{
			AmountSats: amountSats,
			MinSats:    f.cfg.MinSats,
			MaxSats:    f.cfg.MaxSats,
		}
	}

	if amountSats > f.cfg.MaxSats {
		f.log.Warn("callback amount above maximum",
			"amount_sat", amountSats, "max_sat", f.cfg.MaxSats)

		return nil, &AmountOutOfBoundsError{
			AmountSats: amountSats,
			MinSats:    f.cfg.MinSats,
			MaxSats:    f.cfg.MaxSats,
		}
	}

	invoice, err := f.funding.CreateInvoice(
		ctx, username, amountSats, payMessage(username),
	)
	if err != nil {
		f.log.Warn("failed to generate lightning invoice",
			"username", username, "err", err)

		return nil, err
	}

	if invoice == "" {
		f.log.Warn("funding source returned an empty invoice",
			"username", username)

		return nil, ErrFundingUnavailable
	}

	return &InvoiceResponse{
		PayRequest: invoice,
		Routes:     []string{},
	}, nil
}
