// Command schedulerd is the daemon: it loads config, wires the store, the
// scheduler core, and the HTTP surface together, and serves until
// terminated: parse flags, load config, construct collaborators, block on
// Serve.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"

	schedhttp "github.com/fleetforge/scheduler/api/http"
	"github.com/fleetforge/scheduler/config"
	"github.com/fleetforge/scheduler/scheduler"
	"github.com/fleetforge/scheduler/state"
	"github.com/fleetforge/scheduler/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("schedulerd", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to an HCL config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = loaded
	}

	level := hclog.LevelFromString(cfg.LogLevel)
	log := hclog.New(&hclog.LoggerOptions{Name: "schedulerd", Level: level})
	log.Info("starting", "version", version.GetHumanVersion(), "bind_addr", cfg.BindAddr)

	store, err := state.NewStore()
	if err != nil {
		log.Error("failed to construct store", "error", err)
		return 1
	}
	cache, err := state.NewDependencyCache(cfg.DependencyCacheSize)
	if err != nil {
		log.Error("failed to construct dependency cache", "error", err)
		return 1
	}

	queue := scheduler.NewPendingQueue()
	oracle := scheduler.NewDependencyOracle(store, cache)
	sched := scheduler.New(store, store, store, queue, oracle, state.SystemClock{}, log)

	clusterIDs := func() ([]string, error) {
		all, err := store.All()
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		var ids []string
		for _, d := range all {
			if !seen[d.ClusterID] {
				seen[d.ClusterID] = true
				ids = append(ids, d.ClusterID)
			}
		}
		return ids, nil
	}

	// The in-memory pending queue does not survive a restart; rebuild it
	// from every cluster's QUEUED deployments before serving.
	bootIDs, err := clusterIDs()
	if err != nil {
		log.Error("failed to list clusters for queue rebuild", "error", err)
		return 1
	}
	for _, id := range bootIDs {
		if err := sched.RebuildQueue(id); err != nil {
			log.Error("failed to rebuild queue at startup", "cluster_id", id, "error", err)
			return 1
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.PeriodicAgingCron != "" {
		sweeper, err := scheduler.NewPeriodicSweeper(sched, cfg.PeriodicAgingCron, log)
		if err != nil {
			log.Error("failed to parse periodic_aging_cron", "error", err)
			return 1
		}
		go sweeper.Run(ctx, clusterIDs)
	}

	srv := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: schedhttp.NewServer(sched, store, log),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return 0
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", "error", err)
			return 1
		}
	}
	return 0
}
