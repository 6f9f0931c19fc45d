package http

import (
	"github.com/hashicorp/go-bexpr"

	"github.com/fleetforge/scheduler/structs"
)

// DeploymentLister gives the filtered-list endpoint a read path over every
// deployment, independent of the scheduler's own user/cluster-scoped scans.
// Satisfied by *state.Store's existing All().
type DeploymentLister interface {
	All() ([]*structs.Deployment, error)
}

// filteredList evaluates expr (a go-bexpr boolean expression over
// structs.Deployment's fields) against every deployment, backing the HTTP
// `filter` query parameter.
func (s *Server) filteredList(expr string) ([]*structs.Deployment, error) {
	eval, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, err
	}

	all, err := s.lister.All()
	if err != nil {
		return nil, err
	}

	out := make([]*structs.Deployment, 0, len(all))
	for _, d := range all {
		match, err := eval.Evaluate(d)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, d)
		}
	}
	return out, nil
}
