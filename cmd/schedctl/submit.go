package main

import (
	"flag"
	"fmt"
	"strings"
)

// SubmitCommand implements `schedctl submit`.
type SubmitCommand struct{}

func (c *SubmitCommand) Help() string {
	return strings.TrimSpace(`
Usage: schedctl submit [options] <name> <image>

  Submits a new deployment.

Options:
  -cluster=<id>      Target cluster ID (required)
  -user=<id>          Submitting user ID
  -ram=<gb>           Required RAM in GB (default 0)
  -cpu=<cores>        Required CPU cores (default 0)
  -gpu=<count>        Required GPU count (default 0)
  -priority=<tier>    One of low, medium, high, critical (default medium)
  -predecessor=<id>   Optional predecessor deployment ID
  -address=<addr>     schedulerd address
`)
}

func (c *SubmitCommand) Synopsis() string { return "Submit a new deployment" }

func (c *SubmitCommand) Run(args []string) int {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	cluster := fs.String("cluster", "", "target cluster ID")
	user := fs.String("user", "", "submitting user ID")
	ram := fs.Float64("ram", 0, "required RAM in GB")
	cpu := fs.Float64("cpu", 0, "required CPU cores")
	gpu := fs.Int64("gpu", 0, "required GPU count")
	priority := fs.String("priority", "medium", "priority tier")
	predecessor := fs.String("predecessor", "", "predecessor deployment ID")
	address := fs.String("address", "", "schedulerd address")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) != 2 {
		fmt.Println(c.Help())
		return 1
	}

	body := map[string]any{
		"name":           rest[0],
		"image":          rest[1],
		"cluster_id":     *cluster,
		"user_id":        *user,
		"req_ram":        *ram,
		"req_cpu":        *cpu,
		"req_gpu":        *gpu,
		"priority":       *priority,
		"predecessor_id": *predecessor,
	}

	out, _, err := doRequest("POST", apiAddr(*address)+"/v1/deployments", body)
	if err != nil {
		fmt.Println(err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}
