package lnaddr

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/lightninglabs/lndclient"
	"github.com/lightningnetwork/lnd/lnrpc/invoicesrpc"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
)

// LndConfig holds the connection parameters for an lnd node.
type LndConfig struct {
	Addr        string
	Network     lndclient.Network
	MacaroonDir string
	TLSPath     string
}

// LndSource funds invoices through an lnd node. Like the phoenixd adapter it
// recognises a single operator identity.
type LndSource struct {
	lnd      lndclient.LightningClient
	operator string
	metadata string
}

// NewLndSource connects to lnd and returns a FundingSource for the given
// operator. metadata is the LUD-16 metadata string the issued invoices
// commit to via their description hash.
func NewLndSource(cfg *LndConfig, operator, metadata string) (*LndSource,
	error) {

	lnd, err := lndclient.NewLndServices(&lndclient.LndServicesConfig{
		LndAddress:  cfg.Addr,
		Network:     cfg.Network,
		MacaroonDir: cfg.MacaroonDir,
		TLSPath:     cfg.TLSPath,
	})
	if err != nil {
		return nil, err
	}

	return &LndSource{
		lnd:      lnd.Client,
		operator: operator,
		metadata: metadata,
	}, nil
}

// Alias returns the alias of the backing node.
func (l *LndSource) Alias(ctx context.Context) (string, error) {
	info, err := l.lnd.GetInfo(ctx)
	if err != nil {
		return "", err
	}

	return info.Alias, nil
}

// CreateInvoice implements FundingSource. The invoice commits to the LUD-16
// metadata string through its description hash so that paying wallets can
// verify what they fetched during discovery.
func (l *LndSource) CreateInvoice(ctx context.Context, owner string,
	amountSats int64, description string) (string, error) {

	if owner != l.operator {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOwner, owner)
	}

	hash := lntypes.Hash(sha256.Sum256([]byte(l.metadata)))

	_, pr, err := l.lnd.AddInvoice(ctx, &invoicesrpc.AddInvoiceData{
		Memo:            description,
		Value:           lnwire.MilliSatoshi(amountSats * 1000),
		DescriptionHash: hash[:],
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFundingUnavailable, err)
	}

	return pr, nil
}
