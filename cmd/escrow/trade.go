package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v2"
)

var starttrade = cli.Command{
	Name:  "starttrade",
	Usage: "start a trade against a listing",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "buyer",
			Usage: "the buyer address, defaults to the configured one",
		},
		&cli.Uint64Flag{
			Name:     "listing",
			Usage:    "the listing id to draw liquidity from",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "amount",
			Usage:    "the asset amount to trade",
			Required: true,
		},
	},
	Action: startTradeAction,
}

var gettrade = cli.Command{
	Name:      "gettrade",
	Usage:     "show one trade by id",
	ArgsUsage: "<id>",
	Action:    getTradeAction,
}

var lockfunds = cli.Command{
	Name:      "lockfunds",
	Usage:     "lock the traded amount into escrow custody (seller only)",
	ArgsUsage: "<trade id>",
	Action:    tradeTransitionAction("lock"),
}

var markpaid = cli.Command{
	Name:      "markpaid",
	Usage:     "attest the off-platform payment was sent (buyer only)",
	ArgsUsage: "<trade id>",
	Action:    tradeTransitionAction("paid"),
}

var releasetrade = cli.Command{
	Name:      "release",
	Usage:     "release the escrowed funds to the buyer (seller only)",
	ArgsUsage: "<trade id>",
	Action:    tradeTransitionAction("release"),
}

var refundtrade = cli.Command{
	Name:      "refund",
	Usage:     "refund an expired trade back to the seller",
	ArgsUsage: "<trade id>",
	Action:    refundAction,
}

var listtrades = cli.Command{
	Name:  "listtrades",
	Usage: "list the trades a party is involved in",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "address",
			Usage: "the party address, defaults to the configured one",
		},
	},
	Action: listTradesAction,
}

func startTradeAction(ctx *cli.Context) error {
	buyer := ctx.String("buyer")
	if buyer == "" {
		var err error
		if buyer, err = getAddressFromState(); err != nil {
			return err
		}
	}

	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().SetBody(map[string]interface{}{
			"buyer":      buyer,
			"listing_id": ctx.Uint64("listing"),
			"amount":     ctx.Uint64("amount"),
		}).Post("/v1/trades")
	})
}

func getTradeAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("missing trade id")
	}

	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().Get("/v1/trades/" + ctx.Args().First())
	})
}

func tradeTransitionAction(transition string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.NArg() < 1 {
			return fmt.Errorf("missing trade id")
		}
		caller, err := getAddressFromState()
		if err != nil {
			return err
		}

		return do(func(client *resty.Client) (*resty.Response, error) {
			return client.R().SetBody(map[string]interface{}{
				"caller": caller,
			}).Post("/v1/trades/" + ctx.Args().First() + "/" + transition)
		})
	}
}

func refundAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("missing trade id")
	}

	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().Post("/v1/trades/" + ctx.Args().First() + "/refund")
	})
}

func listTradesAction(ctx *cli.Context) error {
	address := ctx.String("address")
	if address == "" {
		var err error
		if address, err = getAddressFromState(); err != nil {
			return err
		}
	}

	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().Get("/v1/parties/" + address + "/trades")
	})
}
