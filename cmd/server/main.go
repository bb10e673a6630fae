package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lightninglabs/lndclient"
	"github.com/noderemote/lnaddr"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Name = "lnaddr-server"
	app.Usage = "Serve an LNURL-pay lightning address"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "domain",
			Usage:   "the lightning address domain to serve",
			EnvVars: []string{"LN_ADDRESS_DOMAIN"},
		},
		&cli.StringFlag{
			Name:    "username",
			Value:   "phoenixd",
			Usage:   "the operator username",
			EnvVars: []string{"LN_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "node-url",
			Usage:   "base URL of the phoenixd node REST API",
			EnvVars: []string{"NODE_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the phoenixd node",
			EnvVars: []string{"NODE_API_KEY"},
		},
		&cli.Int64Flag{
			Name:  "min-sats",
			Value: 1,
			Usage: "minimum receivable amount in satoshis",
		},
		&cli.Int64Flag{
			Name:  "max-sats",
			Value: 1_000_000,
			Usage: "maximum receivable amount in satoshis",
		},
		&cli.StringFlag{
			Name:  "listen",
			Value: ":8000",
			Usage: "address to listen on",
		},
		&cli.BoolFlag{
			Name: "no-tls",
			Usage: "derive http rather than https URLs. Only " +
				"for local testing",
		},
		&cli.StringFlag{
			Name:    "nostr-pubkey",
			Usage:   "hex nostr pubkey to serve via NIP-05",
			EnvVars: []string{"NOSTR_PUBKEY"},
		},
		&cli.StringFlag{
			Name: "lnd-addr",
			Usage: "lnd instance rpc address. Set to fund " +
				"invoices through lnd instead of phoenixd",
		},
		&cli.StringFlag{
			Name:  "network",
			Value: "mainnet",
			Usage: "the network lnd is running on",
		},
		&cli.StringFlag{
			Name:  "macpath",
			Usage: "path to lnd's macaroon dir",
		},
		&cli.StringFlag{
			Name:  "tlspath",
			Usage: "path to lnd's tls cert",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[lnaddr-server] %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := &lnaddr.Config{
		Domain:      ctx.String("domain"),
		Operator:    ctx.String("username"),
		MinSats:     ctx.Int64("min-sats"),
		MaxSats:     ctx.Int64("max-sats"),
		Secure:      !ctx.Bool("no-tls"),
		NostrPubkey: ctx.String("nostr-pubkey"),
	}

	if cfg.Domain == "" {
		return fmt.Errorf("missing '--domain' flag")
	}
	if cfg.MinSats <= 0 || cfg.MinSats > cfg.MaxSats {
		return fmt.Errorf("invalid sendable bounds [%d, %d]",
			cfg.MinSats, cfg.MaxSats)
	}

	funding, err := newFundingSource(ctx, cfg, log)
	if err != nil {
		return err
	}

	policy := lnaddr.NewIdentityPolicy(cfg.Operator)
	flow := lnaddr.NewPayFlow(cfg, policy, funding, log)
	server := lnaddr.NewServer(cfg, flow, log)

	return server.Run(ctx.String("listen"))
}

func newFundingSource(ctx *cli.Context, cfg *lnaddr.Config,
	log *slog.Logger) (lnaddr.FundingSource, error) {

	switch {
	case ctx.String("lnd-addr") != "":
		operatorAddr := &lnaddr.LightningAddress{
			Username: cfg.Operator,
			Domain:   cfg.Domain,
		}

		src, err := lnaddr.NewLndSource(&lnaddr.LndConfig{
			Addr:        ctx.String("lnd-addr"),
			Network:     lndclient.Network(ctx.String("network")),
			MacaroonDir: ctx.String("macpath"),
			TLSPath:     ctx.String("tlspath"),
		}, cfg.Operator, lnaddr.MetadataString(operatorAddr))
		if err != nil {
			return nil, err
		}

		alias, err := src.Alias(ctx.Context)
		if err != nil {
			return nil, err
		}
		log.Info("connected to lnd node", "alias", alias)

		return src, nil

	case ctx.String("node-url") != "":
		return lnaddr.NewPhoenixdClient(
			ctx.String("node-url"), ctx.String("api-key"),
			cfg.Operator,
		), nil

	default:
		return nil, fmt.Errorf("one of '--node-url' or '--lnd-addr' " +
			"must be set")
	}
}
