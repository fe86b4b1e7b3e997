package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v2"
)

var createlisting = cli.Command{
	Name:  "createlisting",
	Usage: "post a new liquidity listing",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "seller",
			Usage: "the seller address, defaults to the configured one",
		},
		&cli.Uint64Flag{
			Name:     "amount",
			Usage:    "the asset amount backing the listing",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "price",
			Usage:    "the advertised fiat price per asset unit",
			Required: true,
		},
	},
	Action: createListingAction,
}

var listlistings = cli.Command{
	Name:   "listlistings",
	Usage:  "list all listings",
	Action: listListingsAction,
}

var getlisting = cli.Command{
	Name:      "getlisting",
	Usage:     "show one listing by id",
	ArgsUsage: "<id>",
	Action:    getListingAction,
}

func createListingAction(ctx *cli.Context) error {
	seller := ctx.String("seller")
	if seller == "" {
		var err error
		if seller, err = getAddressFromState(); err != nil {
			return err
		}
	}

	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().SetBody(map[string]interface{}{
			"seller": seller,
			"amount": ctx.Uint64("amount"),
			"price":  ctx.String("price"),
		}).Post("/v1/listings")
	})
}

func listListingsAction(ctx *cli.Context) error {
	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().Get("/v1/listings")
	})
}

func getListingAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("missing listing id")
	}

	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().Get("/v1/listings/" + ctx.Args().First())
	})
}
