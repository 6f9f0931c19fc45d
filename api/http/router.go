// Package http is the thin REST translation spec.md §6 calls out as
// outside the scheduler core: it maps HTTP requests 1:1 onto the four
// exposed scheduler operations and does no scheduling logic of its own.
// Follows the conventional gorilla-stack HTTP API package shape: gorilla/mux
// for routing, gorilla/handlers for request logging middleware.
package http

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	"github.com/fleetforge/scheduler/scheduler"
)

// Server wraps a scheduler.Scheduler in an HTTP API.
type Server struct {
	sched  *scheduler.Scheduler
	lister DeploymentLister
	log    hclog.Logger
}

// NewServer builds the router for sched. lister backs the unscoped
// `filter` query parameter endpoint. log receives one line per request via
// gorilla/handlers' combined-log-format writer.
func NewServer(sched *scheduler.Scheduler, lister DeploymentLister, log hclog.Logger) http.Handler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	s := &Server{sched: sched, lister: lister, log: log.Named("http")}

	r := mux.NewRouter()
	r.HandleFunc("/v1/deployments", s.handleDeployments).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/v1/deployment/{id}/completion", s.handleCompletion).Methods(http.MethodPost)
	r.HandleFunc("/v1/deployment/{id}/cancel", s.handleCancel).Methods(http.MethodPost)

	return handlers.LoggingHandler(log.StandardWriter(&hclog.StandardLoggerOptions{}), r)
}
