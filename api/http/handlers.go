package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fleetforge/scheduler/scheduler"
	"github.com/fleetforge/scheduler/structs"
)

// submitRequest is the wire shape for POST /v1/deployments.
type submitRequest struct {
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	ClusterID     string  `json:"cluster_id"`
	UserID        string  `json:"user_id"`
	ReqRam        float64 `json:"req_ram"`
	ReqCpu        float64 `json:"req_cpu"`
	ReqGpu        int64   `json:"req_gpu"`
	Priority      string  `json:"priority"`
	PredecessorID string  `json:"predecessor_id,omitempty"`
}

type completionRequest struct {
	Outcome string `json:"outcome"`
}

// handleDeployments dispatches GET (list_by_user / list_by_cluster /
// filtered list) and POST (submit) on the collection endpoint.
func (s *Server) handleDeployments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSubmit(w, r)
	case http.MethodGet:
		s.handleList(w, r)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	tier, ok := structs.ParsePriorityTier(req.Priority)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, errors.New("invalid priority"))
		return
	}

	d, err := s.sched.Submit(scheduler.SubmitInput{
		Name:          req.Name,
		Image:         req.Image,
		ClusterID:     req.ClusterID,
		UserID:        req.UserID,
		Required:      structs.NewResources(req.ReqRam, req.ReqCpu, req.ReqGpu),
		Priority:      tier,
		PredecessorID: req.PredecessorID,
	})
	if err != nil {
		writeSchedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Get("user") != "":
		out, err := s.sched.ListByUser(q.Get("user"))
		if err != nil {
			writeSchedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	case q.Get("cluster") != "":
		out, err := s.sched.ListByCluster(q.Get("cluster"))
		if err != nil {
			writeSchedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	case q.Get("filter") != "":
		out, err := s.filteredList(q.Get("filter"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	default:
		writeJSONError(w, http.StatusBadRequest, errors.New("one of user, cluster, or filter is required"))
	}
}

func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	outcome := structs.DeploymentStatus(req.Outcome)
	d, err := s.sched.ReportCompletion(id, outcome)
	if err != nil {
		writeSchedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID := r.URL.Query().Get("user")

	cancelled, err := s.sched.Cancel(id, userID)
	if err != nil {
		writeSchedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeSchedError maps structs.SchedError kinds onto HTTP status codes per
// spec.md §7's error taxonomy.
func writeSchedError(w http.ResponseWriter, err error) {
	var sched *structs.SchedError
	if !errors.As(err, &sched) {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	switch sched.Kind {
	case structs.ErrKindValidation:
		if sched.Msg == "not_found" {
			writeJSONError(w, http.StatusNotFound, sched)
			return
		}
		writeJSONError(w, http.StatusBadRequest, sched)
	case structs.ErrKindConflict:
		writeJSONError(w, http.StatusConflict, sched)
	case structs.ErrKindTransient:
		writeJSONError(w, http.StatusServiceUnavailable, sched)
	case structs.ErrKindInvariantBreach:
		writeJSONError(w, http.StatusInternalServerError, sched)
	default:
		writeJSONError(w, http.StatusInternalServerError, sched)
	}
}
