package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"github.com/urfave/cli/v2"
)

var (
	escrowDataDir = defaultDataDir()
	statePath     = filepath.Join(escrowDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "escrow CLI"
	app.Usage = "Command line interface for escrowd daemon users"
	app.Commands = append(
		app.Commands,
		&configCmd,
		&createlisting,
		&listlistings,
		&getlisting,
		&starttrade,
		&gettrade,
		&lockfunds,
		&markpaid,
		&releasetrade,
		&refundtrade,
		&listtrades,
		&addwebhook,
		&removewebhook,
		&listwebhooks,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".escrow-cli"
	}
	return filepath.Join(home, ".escrow-cli")
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	json.Unmarshal(file, &data)

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(escrowDataDir); os.IsNotExist(err) {
		os.Mkdir(escrowDataDir, os.ModeDir|0755)
	}

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		if err := os.WriteFile(statePath, []byte("{}"), 0644); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		return err
	}

	for k, v := range data {
		currentData[k] = v
	}

	jsonString, err := json.Marshal(currentData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func getClient() (*resty.Client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	endpoint, ok := state["endpoint"]
	if !ok {
		return nil, errors.New("set the daemon endpoint with 'config init'")
	}
	return resty.New().SetBaseURL(endpoint), nil
}

// do runs the request and prints the indented response body, treating any
// non-2xx reply as an error carrying the daemon's message.
func do(req func(*resty.Client) (*resty.Response, error)) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	resp, err := req(client)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("daemon replied %s: %s", resp.Status(), resp.String())
	}

	printRespJSON(resp.Body())
	return nil
}

func printRespJSON(body []byte) {
	if len(body) == 0 {
		fmt.Println("ok")
		return
	}

	var buf interface{}
	if err := json.Unmarshal(body, &buf); err != nil {
		fmt.Println(string(body))
		return
	}
	indented, _ := json.MarshalIndent(buf, "", "  ")
	fmt.Println(string(indented))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[escrow] %v\n", err)
	os.Exit(1)
}
