package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var endpointFlag = cli.StringFlag{
	Name:  "endpoint",
	Usage: "escrowd daemon address, e.g. http://localhost:9945",
	Value: "http://localhost:9945",
}

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the escrow CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&endpointFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"endpoint": c.String("endpoint"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}

// getAddressFromState reads the default caller address, settable once via
// `config set address <addr>` so every command does not need the flag.
func getAddressFromState() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	address, ok := state["address"]
	if !ok {
		return "", errors.New("set your address with `config set address`")
	}
	return address, nil
}
