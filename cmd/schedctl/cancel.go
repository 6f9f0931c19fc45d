package main

import (
	"flag"
	"fmt"
	"strings"
)

// CancelCommand implements `schedctl cancel`.
type CancelCommand struct{}

func (c *CancelCommand) Help() string {
	return strings.TrimSpace(`
Usage: schedctl cancel [options] <deployment-id>

  Cancels a deployment. A no-op if it is already terminal.

Options:
  -user=<id>        Requesting user ID
  -address=<addr>   schedulerd address
`)
}

func (c *CancelCommand) Synopsis() string { return "Cancel a deployment" }

func (c *CancelCommand) Run(args []string) int {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	user := fs.String("user", "", "requesting user ID")
	address := fs.String("address", "", "schedulerd address")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Println(c.Help())
		return 1
	}

	url := fmt.Sprintf("%s/v1/deployment/%s/cancel?user=%s", apiAddr(*address), rest[0], *user)
	out, _, err := doRequest("POST", url, nil)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}
