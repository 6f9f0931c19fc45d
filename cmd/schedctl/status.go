package main

import (
	"flag"
	"fmt"
	"net/url"
	"strings"
)

// StatusCommand implements `schedctl status`, fetching a single deployment
// via the filter endpoint keyed on ID (there is no dedicated get-by-id
// route; the filter query parameter subsumes it).
type StatusCommand struct{}

func (c *StatusCommand) Help() string {
	return strings.TrimSpace(`
Usage: schedctl status [options] <deployment-id>

  Shows a single deployment's current state.

Options:
  -address=<addr>   schedulerd address
`)
}

func (c *StatusCommand) Synopsis() string { return "Show a deployment's status" }

func (c *StatusCommand) Run(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	address := fs.String("address", "", "schedulerd address")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Println(c.Help())
		return 1
	}

	filter := fmt.Sprintf(`ID == %q`, rest[0])
	reqURL := fmt.Sprintf("%s/v1/deployments?filter=%s", apiAddr(*address), url.QueryEscape(filter))
	out, _, err := doRequest("GET", reqURL, nil)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}
