package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v2"
)

var addwebhook = cli.Command{
	Name:  "addwebhook",
	Usage: "register a webhook invoked on escrow notifications",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "topic",
			Usage:    "the notification topic, or '*' for all of them",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "endpoint",
			Usage:    "the webhook endpoint URL",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "the shared secret used to sign the requests",
		},
	},
	Action: addWebhookAction,
}

var removewebhook = cli.Command{
	Name:      "removewebhook",
	Usage:     "remove a webhook by id",
	ArgsUsage: "<id>",
	Action:    removeWebhookAction,
}

var listwebhooks = cli.Command{
	Name:  "listwebhooks",
	Usage: "list the registered webhooks for a topic",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "topic",
			Usage: "the notification topic, or '*' for all of them",
			Value: "*",
		},
	},
	Action: listWebhooksAction,
}

func addWebhookAction(ctx *cli.Context) error {
	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().SetBody(map[string]interface{}{
			"topic":    ctx.String("topic"),
			"endpoint": ctx.String("endpoint"),
			"secret":   ctx.String("secret"),
		}).Post("/v1/subscriptions")
	})
}

func removeWebhookAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("missing webhook id")
	}

	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().Delete("/v1/subscriptions/" + ctx.Args().First())
	})
}

func listWebhooksAction(ctx *cli.Context) error {
	return do(func(client *resty.Client) (*resty.Response, error) {
		return client.R().
			SetQueryParam("topic", ctx.String("topic")).
			Get("/v1/subscriptions")
	})
}
