package main

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/noderemote/lnaddr"
	"github.com/urfave/cli/v2"
)

var payRequestCommand = &cli.Command{
	Name:  "pay",
	Usage: "Pay to an LNURL or lightning address",
	Description: `Resolve an LNURL, lightning: URI, lnurlp:// URL or a
<username>@<domain> lightning address to an invoice and pay it.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "lnurl",
			Usage: "The LNURL or lightning address to pay to.",
		},
		&cli.Int64Flag{
			Name:  "amt",
			Usage: "The amt of millisats to pay",
		},
		&cli.Int64Flag{
			Name:  "maxfee",
			Usage: "max fee to pay for this payment (in millisats)",
			Value: 1000,
		},
		&cli.BoolFlag{
			Name:  "notls",
			Usage: "set to true to use http instead of https",
		},
	},
	Action: payToLNURL,
}

var resolveCommand = &cli.Command{
	Name:      "resolve",
	Usage:     "Print the discovery URLs for a lightning address",
	ArgsUsage: "<username>@<domain>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "notls",
			Usage: "set to true to use http instead of https",
		},
	},
	Action: resolveAddress,
}

func resolveAddress(ctx *cli.Context) error {
	addr, err := lnaddr.ParseAddress(ctx.Args().First())
	if err != nil {
		return err
	}

	urls := addr.DiscoveryURLs(!ctx.Bool("notls"))

	encoded, err := lnaddr.EncodeURL(urls.Lnurlp)
	if err != nil {
		return err
	}

	fmt.Printf("lnurlp:  %s\n", urls.Lnurlp)
	fmt.Printf("keysend: %s\n", urls.Keysend)
	fmt.Printf("nostr:   %s\n", urls.Nostr)
	fmt.Printf("lnurl:   %s\n", encoded)

	return nil
}

func payToLNURL(ctx *cli.Context) error {
	// LNURL must be specified.
	lnurl := ctx.String("lnurl")
	if lnurl == "" {
		return fmt.Errorf("missing '--lnurl' flag")
	}

	protocol := "https"
	if ctx.Bool("notls") {
		protocol = "http"
	}

	var (
		url string
		err error
	)
	switch {
	case strings.HasPrefix(lnurl, "LNURL"):
		url, err = lnaddr.DecodeURL(lnurl)
		if err != nil {
			return fmt.Errorf("error decoding LNURL: %w", err)
		}

	case strings.HasPrefix(lnurl, "lightning:"):
		url, err = lnaddr.DecodeURL(
			strings.TrimPrefix(lnurl, "lightning:"),
		)
		if err != nil {
			return fmt.Errorf("error decoding LNURL: %w", err)
		}

	case strings.HasPrefix(lnurl, "lnurlp://"):
		url = strings.Replace(lnurl, "lnurlp", protocol, 1)

	case strings.Contains(lnurl, "@"):
		// This is an LN Address.
		addr, err := lnaddr.ParseAddress(lnurl)
		if err != nil {
			return err
		}

		url = addr.DiscoveryURLs(!ctx.Bool("notls")).Lnurlp

	default:
		return fmt.Errorf("unsupported scheme")
	}

	// Ensure that the url uses tls if we have not set --notls.
	if !ctx.Bool("notls") && !strings.HasPrefix(url, "https") {
		return fmt.Errorf("url is not https")
	}

	// Make a GET request to the resolved URL.
	var payResp lnaddr.PayResponse
	if err := get(url, &payResp); err != nil {
		return err
	}

	// The metadata field is a serialised JSON array of [type, value]
	// pairs. It must contain a text/plain entry.
	var pairs [][2]string
	if err := json.Unmarshal([]byte(payResp.Metadata), &pairs); err != nil {
		return fmt.Errorf("could not parse response metadata: %w", err)
	}

	var plain string
	for _, d := range pairs {
		if d[0] == "text/plain" {
			plain = d[1]
		}
	}
	if plain == "" {
		return fmt.Errorf("response metadata does not contain the " +
			"required 'text/plain' field")
	}

	// Check if the user specified an amount in the original call. If they
	// did not or if the specified amount is not within the bounds specified
	// in the server response, ask the user to enter a valid amount.
	millisats := ctx.Int64("amt")
	for millisats < payResp.MinSendable || millisats > payResp.MaxSendable {
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Enter an amount (in millisatoshis) between "+
			"%d and %d\n", payResp.MinSendable, payResp.MaxSendable)

		userInput, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("could not read from console: %w",
				err)
		}
		userInput = strings.TrimSpace(userInput)

		millisats, err = strconv.ParseInt(userInput, 10, 64)
		if err != nil {
			fmt.Printf("error parsing input: %v", err)
			continue
		}

		if millisats < payResp.MinSendable ||
			millisats > payResp.MaxSendable {

			fmt.Printf("Invalid amount. Expected an amount "+
				"between %d and %d, got %d\n",
				payResp.MinSendable, payResp.MaxSendable,
				millisats)
		}
	}

	delim := "?"
	if strings.Contains(payResp.Callback, "?") {
		delim = "&"
	}

	getInvoice := fmt.Sprintf(
		"%s%samount=%d", payResp.Callback, delim, millisats,
	)

	var invoice lnaddr.InvoiceResponse
	if err := get(getInvoice, &invoice); err != nil {
		return err
	}

	params, err := netParams(ctx.String("network"))
	if err != nil {
		return err
	}

	inv, err := zpay32.Decode(invoice.PayRequest, params)
	if err != nil {
		return err
	}

	// The server rounds millisats up to a whole number of sats, so the
	// invoice amount may exceed the requested amount by up to 999 msat
	// but never undercut it.
	if inv.MilliSat == nil {
		return fmt.Errorf("invoice has no amount")
	}
	amt := int64(*inv.MilliSat)
	if amt < millisats || amt >= millisats+1000 {
		return fmt.Errorf("invoice amount %d msat does not match "+
			"requested %d msat", amt, millisats)
	}

	// If the invoice commits to a description hash, it must match the
	// metadata received during discovery. Funding sources that set a
	// plain description instead leave this field empty.
	if inv.DescriptionHash != nil {
		hash := sha256.Sum256([]byte(payResp.Metadata))
		if !bytes.Equal(inv.DescriptionHash[:], hash[:]) {
			return fmt.Errorf("invalid invoice description hash")
		}
	}

	lndClient, err := getLND(ctx)
	if err != nil {
		return fmt.Errorf("could not connect to LND: %w", err)
	}

	res := <-lndClient.Client.PayInvoice(
		ctx.Context, invoice.PayRequest,
		btcutil.Amount(ctx.Int64("maxfee")), nil,
	)

	if res.Err != nil {
		return fmt.Errorf("could not pay invoice: %w", res.Err)
	}

	fmt.Printf("Successful payment! Preimage: %s\n", res.Preimage)

	return nil
}
