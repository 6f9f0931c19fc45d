package main

import (
	"flag"
	"fmt"
	"net/url"
	"strings"
)

// ListCommand implements `schedctl list`, scoped by one of -user, -cluster,
// or -filter.
type ListCommand struct{}

func (c *ListCommand) Help() string {
	return strings.TrimSpace(`
Usage: schedctl list [options]

  Lists deployments, scoped by exactly one of -user, -cluster, or -filter.

Options:
  -user=<id>        List a single user's deployments
  -cluster=<id>     List a single cluster's deployments
  -filter=<expr>    List deployments matching a go-bexpr expression
  -address=<addr>   schedulerd address
`)
}

func (c *ListCommand) Synopsis() string { return "List deployments" }

func (c *ListCommand) Run(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	user := fs.String("user", "", "scope to a user")
	cluster := fs.String("cluster", "", "scope to a cluster")
	filter := fs.String("filter", "", "go-bexpr filter expression")
	address := fs.String("address", "", "schedulerd address")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	q := url.Values{}
	switch {
	case *user != "":
		q.Set("user", *user)
	case *cluster != "":
		q.Set("cluster", *cluster)
	case *filter != "":
		q.Set("filter", *filter)
	default:
		fmt.Println(c.Help())
		return 1
	}

	reqURL := fmt.Sprintf("%s/v1/deployments?%s", apiAddr(*address), q.Encode())
	out, _, err := doRequest("GET", reqURL, nil)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}
