// Command schedctl is a thin HTTP client over schedulerd's API surface
// (submit/status/cancel/list), not a second scheduler implementation.
// Mirrors nomad/command's cli.Command-per-subcommand structure.
package main

import (
	"os"

	"github.com/hashicorp/cli"

	"github.com/fleetforge/scheduler/version"
)

func main() {
	c := cli.NewCLI("schedctl", version.GetHumanVersion())
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"submit": func() (cli.Command, error) { return &SubmitCommand{}, nil },
		"status": func() (cli.Command, error) { return &StatusCommand{}, nil },
		"cancel": func() (cli.Command, error) { return &CancelCommand{}, nil },
		"list":   func() (cli.Command, error) { return &ListCommand{}, nil },
	}

	exitStatus, err := c.Run()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(exitStatus)
}
